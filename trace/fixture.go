package trace

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shaderdbg/dxbcvm/shadervar"
	"github.com/shaderdbg/dxbcvm/vm"
)

// semanticSettings accumulates the "semantic ..." directives seen while
// parsing, applied to vm.State.Semantics by Build.
type semanticSettings struct {
	threadID, groupID, threadIDInGroup, groupSize [3]uint32
	coverageMask, primitiveID                     uint32
	quadIndex                                     int
	isFrontFace                                   bool
}

// Build constructs a fresh vm.State (via vm.Init) and vm.Global, then
// applies the fixture's input/cbuffer/semantic settings to the State.
// Callers may still mutate the result (e.g. to bind UAVs) before the
// first vm.Step.
func (f *Fixture) Build() (*vm.State, *vm.Global) {
	s := vm.Init(f.Container)

	maxInput := uint32(0)
	for _, in := range f.inputs {
		if in.index+1 > maxInput {
			maxInput = in.index + 1
		}
	}
	if int(maxInput) > len(s.Inputs) {
		grown := make([]shadervar.ShaderVariable, maxInput)
		copy(grown, s.Inputs)
		for i := len(s.Inputs); i < len(grown); i++ {
			grown[i] = shadervar.NewVector("v", 0, 0, 0, 0)
		}
		s.Inputs = grown
	}
	for _, in := range f.inputs {
		s.Inputs[in.index] = shadervar.NewVector("v", in.values[0], in.values[1], in.values[2], in.values[3])
	}

	byReg := map[uint32][]cbufferSetting{}
	for _, cb := range f.cbuffers {
		byReg[cb.reg] = append(byReg[cb.reg], cb)
	}
	for reg, settings := range byReg {
		maxMember := uint32(0)
		for _, cb := range settings {
			if cb.member+1 > maxMember {
				maxMember = cb.member + 1
			}
		}
		members := make([]shadervar.ShaderVariable, maxMember)
		for i := range members {
			members[i] = shadervar.NewVector("cb", 0, 0, 0, 0)
		}
		for _, cb := range settings {
			members[cb.member] = shadervar.NewVector("cb", cb.values[0], cb.values[1], cb.values[2], cb.values[3])
		}
		s.SetCBuffer(reg, members)
	}

	s.Semantics.ThreadID = f.semantics.threadID
	s.Semantics.GroupID = f.semantics.groupID
	s.Semantics.ThreadIDInGroup = f.semantics.threadIDInGroup
	s.Semantics.GroupSize = f.semantics.groupSize
	s.Semantics.CoverageMask = f.semantics.coverageMask
	s.Semantics.PrimitiveID = f.semantics.primitiveID
	s.Semantics.QuadIndex = f.semantics.quadIndex
	s.Semantics.IsFrontFace = f.semantics.isFrontFace

	return s, vm.NewGlobal()
}

func parseInputSetting(rest string) (inputSetting, error) {
	reg, valuesTok, err := splitFirstField(rest)
	if err != nil {
		return inputSetting{}, err
	}
	idx, ok := leadingNumber(reg)
	if !ok || !strings.HasPrefix(reg, "v") {
		return inputSetting{}, fmt.Errorf("input needs a v<N> register, got %q", reg)
	}
	values, err := parseFloatList(valuesTok)
	if err != nil {
		return inputSetting{}, err
	}
	return inputSetting{index: idx, values: values}, nil
}

func parseCBufferSetting(rest string) (cbufferSetting, error) {
	regTok, valuesTok, err := splitFirstField(rest)
	if err != nil {
		return cbufferSetting{}, err
	}
	name, idxs, err := splitIndices(regTok)
	if err != nil {
		return cbufferSetting{}, err
	}
	if !strings.HasPrefix(name, "cb") || len(idxs) == 0 {
		return cbufferSetting{}, fmt.Errorf("cbuffer needs a cb<N>[<M>] register, got %q", regTok)
	}
	reg, ok := leadingNumber(name)
	if !ok {
		return cbufferSetting{}, fmt.Errorf("cbuffer needs a cb<N>[<M>] register, got %q", regTok)
	}
	values, err := parseFloatList(valuesTok)
	if err != nil {
		return cbufferSetting{}, err
	}
	return cbufferSetting{reg: reg, member: uint32(idxs[0]), values: values}, nil
}

func parseICBWords(rest string) ([]uint32, error) {
	var words []uint32
	for _, tok := range splitArgs(rest) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		bits, err := parseLiteralWord(tok)
		if err != nil {
			return nil, err
		}
		words = append(words, bits)
	}
	return words, nil
}

func applySemantic(sem *semanticSettings, rest string) error {
	name, valuesTok, err := splitFirstField(rest)
	if err != nil {
		return err
	}
	switch strings.ToLower(name) {
	case "thread_id":
		return parseUintTriple(valuesTok, &sem.threadID)
	case "group_id":
		return parseUintTriple(valuesTok, &sem.groupID)
	case "thread_id_in_group":
		return parseUintTriple(valuesTok, &sem.threadIDInGroup)
	case "group_size":
		return parseUintTriple(valuesTok, &sem.groupSize)
	case "coverage_mask":
		v, err := strconv.ParseUint(strings.TrimSpace(valuesTok), 0, 32)
		if err != nil {
			return err
		}
		sem.coverageMask = uint32(v)
	case "primitive_id":
		v, err := strconv.ParseUint(strings.TrimSpace(valuesTok), 0, 32)
		if err != nil {
			return err
		}
		sem.primitiveID = uint32(v)
	case "quad_index":
		v, err := strconv.Atoi(strings.TrimSpace(valuesTok))
		if err != nil {
			return err
		}
		sem.quadIndex = v
	case "front_face":
		sem.isFrontFace = strings.TrimSpace(valuesTok) == "true"
	default:
		return fmt.Errorf("unknown semantic %q", name)
	}
	return nil
}

func parseUintTriple(s string, out *[3]uint32) error {
	parts := splitArgs(s)
	for i := 0; i < 3 && i < len(parts); i++ {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 0, 32)
		if err != nil {
			return err
		}
		out[i] = uint32(v)
	}
	return nil
}

// splitFirstField splits "tok rest-of-line" on the first run of
// whitespace.
func splitFirstField(s string) (first, rest string, err error) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return "", "", fmt.Errorf("expected at least two fields in %q", s)
	}
	return s[:i], strings.TrimSpace(s[i+1:]), nil
}

func parseFloatList(s string) ([4]float32, error) {
	var out [4]float32
	parts := splitArgs(s)
	for i := 0; i < 4 && i < len(parts); i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 32)
		if err != nil {
			return out, err
		}
		out[i] = float32(v)
	}
	return out, nil
}
