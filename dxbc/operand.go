package dxbc

// OperandType names where a source or destination operand's value lives.
type OperandType int

const (
	TypeTemp OperandType = iota
	TypeIndexableTemp
	TypeInput
	TypeOutput
	TypeConstantBuffer
	TypeImmediateConstantBuffer
	TypeImmediate32
	TypeImmediate64
	TypeInputThreadGroupID
	TypeInputThreadID
	TypeInputThreadIDInGroup
	TypeInputThreadIDInGroupFlattened
	TypeInputCoverageMask
	TypeInputPrimitiveID
	TypeThreadGroupSharedMemory
	TypeResource
	TypeSampler
	TypeUnorderedAccessView
	TypeNull
	TypeRasterizer
	TypeOutputDepth
	TypeOutputDepthLessEqual
	TypeOutputDepthGreaterEqual
	TypeOutputStencilRef
	TypeOutputCoverageMask
)

// NumComponents constrains an immediate operand's declared width; the
// ISA supports only scalar or full 4-vector immediates.
type NumComponents int

const (
	NumCompsNone NumComponents = iota
	NumComps1
	NumComps4
)

// Modifier mirrors shadervar.Modifier for operand decoding; kept as a
// distinct type here because it's part of the external instruction
// shape, not the numeric core.
type Modifier int

const (
	ModNone Modifier = iota
	ModNeg
	ModAbs
	ModAbsNeg
)

// OperandIndex is one dimension of an operand's addressing: either an
// absolute literal, or a literal offset plus a relative operand whose
// value (lane .x) is added to it, or purely relative.
type OperandIndex struct {
	Absolute bool
	Index    uint32
	Relative *Operand // nil if this index has no relative component
}

// Operand is one source or destination slot of an ASMOperation.
type Operand struct {
	Type          OperandType
	Indices       []OperandIndex
	Comps         [4]uint8 // component selector; 0xff = unused/identity
	NumComponents NumComponents
	Modifier      Modifier
	Values        []uint32 // immediate literal words
}
