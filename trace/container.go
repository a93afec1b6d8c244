// Package trace loads a line-oriented textual fixture format into a
// dxbc.Container plus the initial vm.State/vm.Global values a harness
// would otherwise synthesise from a compiled shader and its bound
// resources. It exists so tests and command-line tools can exercise
// vm.Step without a binary bytecode parser, which is out of scope for
// this module.
package trace

import "github.com/shaderdbg/dxbcvm/dxbc"

// staticContainer is a dxbc.Container backed by slices built once at
// parse time.
type staticContainer struct {
	decls        []dxbc.Decl
	instructions []dxbc.ASMOperation
	outputSig    []dxbc.SignatureEntry
	cbuffers     []dxbc.CBuffer
	icb          []uint32
}

func (c *staticContainer) NumDeclarations() int                   { return len(c.decls) }
func (c *staticContainer) Declaration(i int) dxbc.Decl            { return c.decls[i] }
func (c *staticContainer) NumInstructions() int                   { return len(c.instructions) }
func (c *staticContainer) Instruction(i int) dxbc.ASMOperation    { return c.instructions[i] }
func (c *staticContainer) OutputSignature() []dxbc.SignatureEntry { return c.outputSig }
func (c *staticContainer) CBuffers() []dxbc.CBuffer               { return c.cbuffers }
func (c *staticContainer) ImmediateConstantBuffer() []uint32      { return c.icb }

var _ dxbc.Container = (*staticContainer)(nil)
