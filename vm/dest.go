package vm

import (
	"math"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

// SetDst applies value to dst under opcode op's saturate/mask/flush
// rules, recording any changed lanes in s.Modified.
func SetDst(s *State, dst dxbc.Operand, op dxbc.Opcode, asm dxbc.ASMOperation, value shadervar.ShaderVariable) {
	if dst.Type == dxbc.TypeNull {
		return
	}

	indices := make([]uint32, len(dst.Indices))
	for i, idx := range dst.Indices {
		indices[i] = resolveIndex(s, idx)
	}

	if asm.Saturate {
		value = shadervar.Sat(value, operationType(op))
	}

	cell, kind, regIndex, ok := s.targetCell(dst, indices)
	if !ok {
		return
	}

	writeMasked(s, cell, kind, regIndex, dst.Comps, op, value)
}

// targetCell locates the addressable ShaderVariable dst refers to.
// Writes to read-only operand types are traps and are silently dropped.
func (s *State) targetCell(dst dxbc.Operand, indices []uint32) (cell *shadervar.ShaderVariable, kind RegisterKind, regIndex int, ok bool) {
	switch dst.Type {
	case dxbc.TypeTemp:
		i := int(indices[0])
		if i >= len(s.Registers) {
			return nil, 0, 0, false
		}
		return &s.Registers[i], RegTemp, i, true
	case dxbc.TypeIndexableTemp:
		arr := int(indices[0])
		if arr >= len(s.IndexableTemps) {
			return nil, 0, 0, false
		}
		members := s.IndexableTemps[arr].Members
		m := int(indices[1])
		if m >= len(members) {
			return nil, 0, 0, false
		}
		return &members[m], RegIndexableTemp, arr*1_000_000 + m, true
	case dxbc.TypeOutput:
		i := int(indices[0])
		if i >= len(s.Outputs) {
			return nil, 0, 0, false
		}
		return &s.Outputs[i], RegOutput, i, true
	default:
		return nil, 0, 0, false
	}
}

// writeMasked applies a destination write mask, flushing denormals and
// raising FlagGeneratedNanOrInf per written lane as needed.
func writeMasked(s *State, cell *shadervar.ShaderVariable, kind RegisterKind, regIndex int, comps [4]uint8, op dxbc.Opcode, value shadervar.ShaderVariable) {
	singleBit := -1
	numBits := 0
	for i := 0; i < 4; i++ {
		if comps[i] != 0xff {
			numBits++
			singleBit = i
		}
	}

	writeLane := func(lane int, src int) {
		before := cell.Lanes[lane]
		nv := value.Lanes[src]
		cell.Lanes[lane] = nv

		if operationFlushing(op) && operationType(op) == shadervar.Float {
			cell.SetFloat(lane, shadervar.FlushDenorm(cell.Float(lane)))
		}

		switch operationType(op) {
		case shadervar.Float:
			fv := cell.Float(lane)
			if math.IsNaN(float64(fv)) || math.IsInf(float64(fv), 0) {
				s.Flags |= FlagGeneratedNanOrInf
			}
		case shadervar.Double:
			dv := cell.Double(lane / 2)
			if math.IsNaN(dv) || math.IsInf(dv, 0) {
				s.Flags |= FlagGeneratedNanOrInf
			}
		}

		if cell.Lanes[lane] != before {
			s.markModified(kind, regIndex, lane)
		}
	}

	switch {
	case numBits == 0:
		writeLane(0, 0)
	case numBits == 1:
		writeLane(singleBit, 0)
	default:
		for i := 0; i < 4; i++ {
			if comps[i] != 0xff {
				writeLane(i, i)
			}
		}
	}
}
