// Command shaderdbg steps a single invocation through a textual fixture
// file, printing the registers and outputs each instruction touches.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shaderdbg/dxbcvm/internal/diag"
	"github.com/shaderdbg/dxbcvm/trace"
	"github.com/shaderdbg/dxbcvm/vm"
)

func main() {
	verbose := flag.Bool("v", false, "print per-instruction register/output writes")
	maxSteps := flag.Int("max-steps", 100000, "abort after this many steps without reaching ret")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shaderdbg [-v] [-max-steps N] <fixture-file>")
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *verbose, *maxSteps); err != nil {
		fmt.Fprintln(os.Stderr, "shaderdbg:", err)
		os.Exit(1)
	}
}

func run(path string, verbose bool, maxSteps int) error {
	fixture, err := trace.Load(path)
	if err != nil {
		return err
	}

	s, g := fixture.Build()
	sink := diag.NewWriterSink(os.Stdout, os.Stderr)
	api := newDefaultAPI(sink)

	steps := 0
	for !vm.Finished(s) {
		if steps >= maxSteps {
			return fmt.Errorf("exceeded %d steps without reaching ret (pc=%d)", maxSteps, s.ProgramCounter)
		}
		pc := s.ProgramCounter
		s = vm.Step(s, g, api, nil)
		steps++
		if verbose {
			printStep(pc, s)
		}
	}

	printOutputs(s)
	return nil
}

func printStep(pc int, s *vm.State) {
	fmt.Printf("#%d flags=%#x\n", pc, s.Flags)
	for _, m := range s.Modified {
		fmt.Printf("  %s\n", describeModified(s, m))
	}
}

func describeModified(s *vm.State, m vm.ModifiedRegister) string {
	lane := "xyzw"[m.Component : m.Component+1]
	switch m.Kind {
	case vm.RegTemp:
		return fmt.Sprintf("r%d.%s = %g", m.Index, lane, s.Registers[m.Index].Float(m.Component))
	case vm.RegOutput:
		return fmt.Sprintf("o%d.%s = %g", m.Index, lane, s.Outputs[m.Index].Float(m.Component))
	default:
		return fmt.Sprintf("x[%d].%s", m.Index, lane)
	}
}

func printOutputs(s *vm.State) {
	for i, o := range s.Outputs {
		fmt.Printf("o%d = %g %g %g %g\n", i, o.Float(0), o.Float(1), o.Float(2), o.Float(3))
	}
}
