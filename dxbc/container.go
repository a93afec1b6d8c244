package dxbc

// DeclKind identifies the kind of a Decl entry.
type DeclKind int

const (
	DeclTemps DeclKind = iota
	DeclIndexableTemp
	DeclInput
	DeclOutput
	DeclConstantBuffer
	DeclResource
	DeclResourceRaw
	DeclResourceStructured
	DeclUnorderedAccessViewTyped
	DeclUnorderedAccessViewRaw
	DeclUnorderedAccessViewStructured
	DeclThreadGroupSharedMemoryRaw
	DeclThreadGroupSharedMemoryStructured
	DeclThreadGroup
	DeclSampler
)

// ResourceDimension names the shape a resource declaration describes,
// used by RESINFO/LOD to decide which lanes a reciprocal applies to.
type ResourceDimension int

const (
	DimUnknown ResourceDimension = iota
	Dim1D
	Dim1DArray
	Dim2D
	Dim2DArray
	Dim3D
	DimCube
	DimCubeArray
	DimBuffer
)

// Decl is one declaration statement: DCL_TEMPS, DCL_INDEXABLE_TEMP,
// DCL_RESOURCE, DCL_UNORDERED_ACCESS_VIEW_*, DCL_THREAD_GROUP, etc.
// Only the fields relevant to the declaration's Kind are populated.
type Decl struct {
	Kind DeclKind

	Operand Operand

	NumTemps      uint32 // DCL_TEMPS
	TempReg       uint32 // DCL_INDEXABLE_TEMP: which indexable_temps slot
	TempCount     uint32 // DCL_INDEXABLE_TEMP: array length
	TempCompCount uint32 // DCL_INDEXABLE_TEMP: components per entry

	GroupSize [3]uint32 // DCL_THREAD_GROUP

	Stride uint32 // *_STRUCTURED stride in bytes

	Dim         ResourceDimension
	SampleCount uint32

	// ReturnType per-component, for typed resources (UInt/SInt/UNorm/Float/...).
	ReturnType [4]ResourceComponentType
}

// ResourceComponentType is a typed resource's declared per-component
// interpretation.
type ResourceComponentType int

const (
	ReturnUnknown ResourceComponentType = iota
	ReturnUNorm
	ReturnSNorm
	ReturnSInt
	ReturnUInt
	ReturnFloat
	ReturnMixed
)

// SystemValue names the semantic a signature entry binds to.
type SystemValue int

const (
	SVNone SystemValue = iota
	SVPosition
	SVDepthOutput
	SVDepthOutputLessEqual
	SVDepthOutputGreaterEqual
	SVStencilReference
	SVMSAACoverage
	SVRenderTargetArrayIndex
	SVPrimitiveID
	SVIsFrontFace
)

// SignatureEntry maps one input/output array position to a declared
// system-value builtin (or SVNone for a plain user semantic).
type SignatureEntry struct {
	Name           string
	SystemValue    SystemValue
	ComponentCount int
}

// CBuffer describes one constant buffer binding, addressed by its
// declared register number rather than its position in this slice.
type CBuffer struct {
	Register uint32
	Size     uint32 // member count
}

// Container is the external collaborator that produced the decoded
// instruction stream: declarations, instructions, the output signature,
// cbuffer register map, and the immediate constant buffer's raw words.
// The binary parser that builds one from bytecode is out of scope for
// this module; package trace builds one from a textual fixture.
type Container interface {
	NumDeclarations() int
	Declaration(i int) Decl

	NumInstructions() int
	Instruction(i int) ASMOperation

	OutputSignature() []SignatureEntry

	CBuffers() []CBuffer

	// ImmediateConstantBuffer returns the raw 32-bit words backing
	// TYPE_IMMEDIATE_CONSTANT_BUFFER operands.
	ImmediateConstantBuffer() []uint32
}
