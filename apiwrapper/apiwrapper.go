// Package apiwrapper defines the ApiWrapper interface: the host-graphics
// collaborator that performs texture sampling, gathers, transcendental
// math, and MSAA sample-position/interpolant lookups on the core's
// behalf. This package only describes the shape the core calls into;
// the one implementation in this module is cmd/shaderdbg's minimal
// defaultAPI.
package apiwrapper

import "github.com/shaderdbg/dxbcvm/dxbc"

// MathIntrinsic identifies which transcendental/RCP/RSQ/SINCOS-family
// operation CalculateMathIntrinsic should perform.
type MathIntrinsic int

const (
	MathRcp MathIntrinsic = iota
	MathRsq
	MathSqrt
	MathExp
	MathLog
	MathSinCos
)

// SampleGatherOp identifies which SAMPLE/GATHER4/LD/LOD-family operation
// CalculateSampleGather should perform.
type SampleGatherOp int

const (
	OpSample SampleGatherOp = iota
	OpSampleL
	OpSampleB
	OpSampleD
	OpSampleC
	OpSampleCLZ
	OpGather4
	OpGather4C
	OpGather4PO
	OpGather4POC
	OpLD
	OpLDMS
	OpLOD
)

// ResourceData names the resource (and its declared shape) a sample or
// gather call targets.
type ResourceData struct {
	Slot        uint32
	Dim         dxbc.ResourceDimension
	ReturnType  [4]dxbc.ResourceComponentType
	SampleCount uint32
}

// SamplerData names the sampler state (if any) bound to a sample call.
type SamplerData struct {
	Slot    uint32
	Present bool
}

// ApiWrapper is the host-graphics shim the interpreter delegates
// sampling, gathers, and transcendental math to. A false return from a
// math or sample call halts the current step without advancing the
// program counter.
type ApiWrapper interface {
	// SetCurrentInstruction lets the wrapper attribute subsequent calls
	// to instruction i for diagnostics.
	SetCurrentInstruction(i int)

	// CalculateMathIntrinsic evaluates op on src, writing up to two
	// result registers (SINCOS writes both; others write outA only).
	CalculateMathIntrinsic(op MathIntrinsic, src [4]float32) (outA, outB [4]float32, ok bool)

	// CalculateSampleGather performs a sample or gather operation.
	CalculateSampleGather(op SampleGatherOp, resource ResourceData, sampler SamplerData,
		uv [4]float32, ddx, ddy [4]float32, texelOffset [3]int32, sampleIndex int,
		lodOrCompare float32, swizzle [4]uint8, gatherChannel int, debugStr string) (result [4]float32, ok bool)

	// GetSampleInfo returns the sample count for a multisampled resource
	// (or sampler) bound at slot.
	GetSampleInfo(operandType dxbc.OperandType, isAbsolute bool, slot uint32, debugStr string) (sampleCount uint32, ok bool)

	// GetBufferInfo returns a raw/structured buffer's element count.
	GetBufferInfo(slot uint32) (numElements uint32, ok bool)

	// GetResourceInfo returns a texture resource's width/height/depth
	// (or array size) and mip-level count.
	GetResourceInfo(slot uint32, mipLevel int) (width, height, depth, numMips uint32, dim dxbc.ResourceDimension, ok bool)

	// AddDebugMessage reports a trap, warning, or informational message.
	// category/severity are wrapper-defined small ints; this core
	// treats them opaquely.
	AddDebugMessage(category, severity int, source string, text string)
}
