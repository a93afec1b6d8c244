// Package diag provides the default logging sink for trap and warning
// messages: unhandled opcodes the core reports through
// ApiWrapper.AddDebugMessage, fallback results from an ApiWrapper with
// no bound resource, and category/severity messages an ApiWrapper
// implementation chooses to forward here instead of its own channel.
// Writes to read-only operands and derivative opcodes run outside a
// quad are dropped by the core without any message.
package diag

import (
	"fmt"
	"io"
)

// Sink receives diagnostic messages keyed by instruction offset.
type Sink interface {
	Trap(pc int, format string, args ...interface{})
	Warn(pc int, format string, args ...interface{})
}

// WriterSink writes Trap messages to stderr and Warn messages to
// stdout, matching the stdout/stderr split a host harness typically
// wants for "this terminates the run" versus "this is worth noting".
type WriterSink struct {
	stdout io.Writer
	stderr io.Writer
}

// NewWriterSink builds a WriterSink writing to stdout and stderr.
func NewWriterSink(stdout, stderr io.Writer) *WriterSink {
	return &WriterSink{stdout: stdout, stderr: stderr}
}

func (w *WriterSink) Trap(pc int, format string, args ...interface{}) {
	fmt.Fprintf(w.stderr, "trap @%d: %s\n", pc, fmt.Sprintf(format, args...))
}

func (w *WriterSink) Warn(pc int, format string, args ...interface{}) {
	fmt.Fprintf(w.stdout, "warn @%d: %s\n", pc, fmt.Sprintf(format, args...))
}

// NullSink discards every message; useful for tests that don't care
// about diagnostic output.
type NullSink struct{}

func (NullSink) Trap(int, string, ...interface{}) {}
func (NullSink) Warn(int, string, ...interface{}) {}
