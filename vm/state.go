// Package vm implements the shader-debugger core: a purely functional
// per-step transition over a decoded instruction stream. Step advances
// one invocation's State by exactly one instruction, consulting a
// shared Global for resource/groupshared backing stores and an
// apiwrapper.ApiWrapper for sampling and transcendental math.
package vm

import (
	"sync"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/resourcefmt"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

// Flags is a bitset of per-step numerical/behavioural signals.
type Flags uint32

const (
	FlagGeneratedNanOrInf Flags = 1 << iota
	FlagSampleLoadGather
)

// RegisterKind names which array a ModifiedRegister entry refers to.
type RegisterKind int

const (
	RegTemp RegisterKind = iota
	RegIndexableTemp
	RegOutput
)

// ModifiedRegister records one (register, component) write made during
// the current step, for trace consumers.
type ModifiedRegister struct {
	Kind      RegisterKind
	Index     int
	Component int
}

// Semantics holds the per-invocation identifiers the harness seeds at
// Init time and that never change over the invocation's lifetime.
type Semantics struct {
	ThreadID        [3]uint32
	GroupID         [3]uint32
	ThreadIDInGroup [3]uint32
	CoverageMask    uint32
	PrimitiveID     uint32
	QuadIndex       int // 0..3; bit0=x, bit1=y within the quad
	GroupSize       [3]uint32
	IsFrontFace     bool
}

// IndexableTempArray is one DCL_INDEXABLE_TEMP-declared array of
// ShaderVariable members.
type IndexableTempArray struct {
	Members []shadervar.ShaderVariable
}

// State is one invocation's machine state.
type State struct {
	ProgramCounter int

	Registers      []shadervar.ShaderVariable
	IndexableTemps []IndexableTempArray
	Outputs        []shadervar.ShaderVariable
	Inputs         []shadervar.ShaderVariable

	Semantics Semantics

	Flags Flags
	Done  bool

	OutputDepth        float32
	OutputStencilRef   uint32
	OutputCoverageMask uint32

	Modified []ModifiedRegister

	Container dxbc.Container

	// cbufferIndex maps a declared register number to its position in
	// cbufferValues, avoiding a linear scan on every access.
	cbufferIndex  map[uint32]int
	cbufferValues [][]shadervar.ShaderVariable

	outputSignature []dxbc.SignatureEntry

	resourceDecls map[uint32]dxbc.Decl
	samplerSlots  map[uint32]bool
}

func declSlot(d dxbc.Decl) uint32 {
	if len(d.Operand.Indices) == 0 {
		return 0
	}
	return d.Operand.Indices[0].Index
}

// Finished reports whether the invocation has nothing left to execute.
func Finished(s *State) bool {
	return s.Done || s.ProgramCounter >= s.Container.NumInstructions()
}

// Init builds the initial State for container, seeding Registers and
// IndexableTemps from their DCL_* declarations and zeroing Outputs from
// the output signature. Inputs, cbuffer contents, and Semantics are the
// harness's responsibility and must be set on the returned State before
// the first Step.
func Init(container dxbc.Container) *State {
	s := &State{
		Container:       container,
		outputSignature: container.OutputSignature(),
		cbufferIndex:    map[uint32]int{},
		resourceDecls:   map[uint32]dxbc.Decl{},
		samplerSlots:    map[uint32]bool{},
	}

	s.Outputs = make([]shadervar.ShaderVariable, len(s.outputSignature))
	for i, sig := range s.outputSignature {
		s.Outputs[i] = shadervar.NewVector(sig.Name, 0, 0, 0, 0)
	}

	for i := 0; i < container.NumDeclarations(); i++ {
		d := container.Declaration(i)
		switch d.Kind {
		case dxbc.DeclTemps:
			s.Registers = make([]shadervar.ShaderVariable, d.NumTemps)
			for r := range s.Registers {
				s.Registers[r] = shadervar.NewVector("r", 0, 0, 0, 0)
			}
		case dxbc.DeclIndexableTemp:
			for len(s.IndexableTemps) <= int(d.TempReg) {
				s.IndexableTemps = append(s.IndexableTemps, IndexableTempArray{})
			}
			members := make([]shadervar.ShaderVariable, d.TempCount)
			for m := range members {
				members[m] = shadervar.NewVector("x", 0, 0, 0, 0)
			}
			s.IndexableTemps[d.TempReg] = IndexableTempArray{Members: members}
		case dxbc.DeclConstantBuffer:
			// space reserved; values populated by the harness via SetCBuffer
		case dxbc.DeclResource, dxbc.DeclResourceRaw, dxbc.DeclResourceStructured,
			dxbc.DeclUnorderedAccessViewTyped, dxbc.DeclUnorderedAccessViewRaw,
			dxbc.DeclUnorderedAccessViewStructured:
			s.resourceDecls[declSlot(d)] = d
		case dxbc.DeclSampler:
			s.samplerSlots[declSlot(d)] = true
		}
	}

	for i, cb := range container.CBuffers() {
		s.cbufferIndex[cb.Register] = i
		s.cbufferValues = append(s.cbufferValues, make([]shadervar.ShaderVariable, cb.Size))
	}

	return s
}

// SetCBuffer installs the harness-supplied member values for the
// constant buffer declared at register reg.
func (s *State) SetCBuffer(reg uint32, members []shadervar.ShaderVariable) {
	idx, ok := s.cbufferIndex[reg]
	if !ok {
		return
	}
	s.cbufferValues[idx] = members
}

func (s *State) cbufferMember(reg, index uint32) shadervar.ShaderVariable {
	idx, ok := s.cbufferIndex[reg]
	if !ok || int(index) >= len(s.cbufferValues[idx]) {
		return shadervar.NewVector("cb", 0, 0, 0, 0)
	}
	return s.cbufferValues[idx][index]
}

func (s *State) markModified(kind RegisterKind, index, component int) {
	s.Modified = append(s.Modified, ModifiedRegister{Kind: kind, Index: index, Component: component})
}

// UAV is an unordered-access-view backing store.
type UAV struct {
	Data          []byte
	FirstElement  uint32
	NumElements   uint32
	RowPitch      uint32
	DepthPitch    uint32
	IsTexture     bool
	Format        UAVFormat
	HiddenCounter uint32

	mu sync.Mutex
}

// UAVFormat describes a typed UAV's packed layout.
type UAVFormat struct {
	ByteWidth int
	CompType  resourcefmt.CompType
	NumComps  int
	Stride    uint32
}

// Layout converts f to the resourcefmt.Layout the codec expects.
func (f UAVFormat) Layout(packed resourcefmt.PackedKind) resourcefmt.Layout {
	return resourcefmt.Layout{ByteWidth: f.ByteWidth, CompType: f.CompType, NumComps: f.NumComps, Packed: packed}
}

// SRV is a read-only shader-resource-view backing store.
type SRV struct {
	Data         []byte
	FirstElement uint32
	NumElements  uint32
	RowPitch     uint32
	DepthPitch   uint32
	IsTexture    bool
	Format       UAVFormat
}

// GroupSharedAllocation is one DCL_THREAD_GROUP_SHARED_MEMORY_* block.
type GroupSharedAllocation struct {
	Data       []byte
	Count      uint32
	ByteStride uint32
	Structured bool
}

// SampleEvalKey identifies one cached sample-evaluation result.
type SampleEvalKey struct {
	QuadIndex      int
	InputRegister  int
	FirstComponent int
	NumComponents  int
	Sample         int
	OffsetX        int32
	OffsetY        int32
}

// Global is the shared, cross-invocation state a quad's lanes hold in
// common: bound UAVs/SRVs, group-shared memory, and the sample-eval
// cache. All fields except UAVs/GroupShared/HiddenCounter are
// read-only after setup.
type Global struct {
	UAVs            map[uint32]*UAV
	SRVs            map[uint32]*SRV
	GroupShared     []*GroupSharedAllocation
	SampleEvalCache map[SampleEvalKey]shadervar.ShaderVariable

	mu sync.Mutex
}

// NewGlobal builds an empty Global ready for the harness to populate.
func NewGlobal() *Global {
	return &Global{
		UAVs:            map[uint32]*UAV{},
		SRVs:            map[uint32]*SRV{},
		SampleEvalCache: map[SampleEvalKey]shadervar.ShaderVariable{},
	}
}
