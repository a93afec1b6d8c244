package vm

import "github.com/shaderdbg/dxbcvm/dxbc"
import "github.com/shaderdbg/dxbcvm/shadervar"

// flushingOpcodes names opcodes whose sources and destinations are
// subject to denormal flushing: float arithmetic, the float comparisons
// (EQ/NE/LT/GE), MOV/MOVC, ITOF/UTOF/FTOI/FTOU and the derivatives.
// Integer-domain, bitwise, double-precision, and control-flow opcodes
// do not flush.
var flushingOpcodes = map[dxbc.Opcode]bool{
	dxbc.OpAdd: true, dxbc.OpMul: true, dxbc.OpDiv: true, dxbc.OpMad: true,
	dxbc.OpDP2: true, dxbc.OpDP3: true, dxbc.OpDP4: true, dxbc.OpFrc: true,
	dxbc.OpRcp: true, dxbc.OpRsq: true, dxbc.OpSqrt: true, dxbc.OpExp: true,
	dxbc.OpLog: true, dxbc.OpSinCos: true,
	dxbc.OpRoundPI: true, dxbc.OpRoundNI: true, dxbc.OpRoundZ: true, dxbc.OpRoundNE: true,
	dxbc.OpMin: true, dxbc.OpMax: true,
	dxbc.OpMov: true, dxbc.OpMovc: true,
	dxbc.OpItoF: true, dxbc.OpUtoF: true, dxbc.OpFtoI: true, dxbc.OpFtoU: true,
	dxbc.OpEq: true, dxbc.OpNe: true, dxbc.OpLt: true, dxbc.OpGe: true,
	dxbc.OpDerivRtx: true, dxbc.OpDerivRtxCoarse: true, dxbc.OpDerivRtxFine: true,
	dxbc.OpDerivRty: true, dxbc.OpDerivRtyCoarse: true, dxbc.OpDerivRtyFine: true,
}

// operationFlushing reports whether op's operands flush denormals.
func operationFlushing(op dxbc.Opcode) bool {
	return flushingOpcodes[op]
}

// operationType names the numeric domain ABS/NEG/SAT apply under for op.
func operationType(op dxbc.Opcode) shadervar.VarType {
	switch op {
	case dxbc.OpDAdd, dxbc.OpDMul, dxbc.OpDDiv, dxbc.OpDMax, dxbc.OpDMin,
		dxbc.OpDMov, dxbc.OpDMovc, dxbc.OpDEq, dxbc.OpDNe, dxbc.OpDLt, dxbc.OpDGe,
		dxbc.OpDtoI, dxbc.OpDtoU, dxbc.OpDtoF, dxbc.OpItoD, dxbc.OpUtoD, dxbc.OpFtoD:
		return shadervar.Double
	case dxbc.OpIAdd, dxbc.OpIMul, dxbc.OpIMad, dxbc.OpINeg, dxbc.OpIMin, dxbc.OpIMax,
		dxbc.OpIShl, dxbc.OpIShr, dxbc.OpIBfe, dxbc.OpFirstBitHi, dxbc.OpFirstBitLo, dxbc.OpFirstBitShi,
		dxbc.OpIEq, dxbc.OpINe, dxbc.OpILt, dxbc.OpIGe, dxbc.OpFtoI, dxbc.OpItoF:
		return shadervar.SInt
	case dxbc.OpUMul, dxbc.OpUDiv, dxbc.OpUMad, dxbc.OpUShr, dxbc.OpUBfe, dxbc.OpUMin, dxbc.OpUMax,
		dxbc.OpULt, dxbc.OpUGe, dxbc.OpFtoU, dxbc.OpUtoF,
		dxbc.OpCountBits, dxbc.OpBfi, dxbc.OpBfrev, dxbc.OpAnd, dxbc.OpOr, dxbc.OpXor, dxbc.OpNot:
		return shadervar.UInt
	default:
		return shadervar.Float
	}
}

// toShadervarModifier converts an operand's decoded modifier into the
// numeric-core Modifier. The two enums are declared in a different
// member order, so this must not be a raw numeric cast.
func toShadervarModifier(m dxbc.Modifier) shadervar.Modifier {
	switch m {
	case dxbc.ModAbs:
		return shadervar.ModAbs
	case dxbc.ModNeg:
		return shadervar.ModNeg
	case dxbc.ModAbsNeg:
		return shadervar.ModAbsNeg
	default:
		return shadervar.ModNone
	}
}

// resolveIndex evaluates one OperandIndex in s's context: an absolute
// literal plus, if a relative sub-operand is present, lane .x of its
// value.
func resolveIndex(s *State, idx dxbc.OperandIndex) uint32 {
	base := uint32(0)
	if idx.Absolute {
		base = idx.Index
	}
	if idx.Relative != nil {
		rel := GetSrc(s, *idx.Relative, dxbc.OpMov)
		base += rel.Uint(0)
	}
	return base
}

// GetSrc resolves the value of a source operand under the semantics of
// opcode op.
func GetSrc(s *State, o dxbc.Operand, op dxbc.Opcode) shadervar.ShaderVariable {
	indices := make([]uint32, len(o.Indices))
	for i, idx := range o.Indices {
		indices[i] = resolveIndex(s, idx)
	}

	var v shadervar.ShaderVariable
	flushable := true

	switch o.Type {
	case dxbc.TypeTemp:
		v = regAt(s.Registers, indices[0])
	case dxbc.TypeIndexableTemp:
		v = indexableAt(s, indices[0], indices[1])
	case dxbc.TypeInput:
		v = regAt(s.Inputs, indices[0])
	case dxbc.TypeOutput:
		v = regAt(s.Outputs, indices[0])
	case dxbc.TypeConstantBuffer:
		v = s.cbufferMember(indices[0], indices[1])
	case dxbc.TypeImmediateConstantBuffer:
		v = immediateConstantBuffer(s, indices[0])
	case dxbc.TypeImmediate32, dxbc.TypeImmediate64:
		v = literalOperand(o)
	case dxbc.TypeInputThreadGroupID:
		v = shadervar.NewUintVector("vThreadGroupID", s.Semantics.GroupID[0], s.Semantics.GroupID[1], s.Semantics.GroupID[2], 0)
	case dxbc.TypeInputThreadID:
		v = shadervar.NewUintVector("vThreadID", s.Semantics.ThreadID[0], s.Semantics.ThreadID[1], s.Semantics.ThreadID[2], 0)
	case dxbc.TypeInputThreadIDInGroup:
		t := s.Semantics.ThreadIDInGroup
		v = shadervar.NewUintVector("vThreadIDInGroup", t[0], t[1], t[2], 0)
	case dxbc.TypeInputThreadIDInGroupFlattened:
		g := s.Semantics.GroupSize
		t := s.Semantics.ThreadIDInGroup
		flat := t[2]*g[0]*g[1] + t[1]*g[0] + t[0]
		v = shadervar.NewUintVector("vThreadIDInGroupFlattened", flat, 0, 0, 0)
	case dxbc.TypeInputCoverageMask:
		v = shadervar.NewUintVector("vCoverage", s.Semantics.CoverageMask, 0, 0, 0)
	case dxbc.TypeInputPrimitiveID:
		v = shadervar.NewUintVector("vPrimitiveID", s.Semantics.PrimitiveID, 0, 0, 0)
	case dxbc.TypeThreadGroupSharedMemory, dxbc.TypeResource, dxbc.TypeSampler,
		dxbc.TypeUnorderedAccessView, dxbc.TypeNull, dxbc.TypeRasterizer:
		slot := uint32(0)
		if len(indices) > 0 {
			slot = indices[0]
		}
		v = shadervar.NewUintVector("slot", slot, slot, slot, slot)
		flushable = false
	default:
		v = shadervar.NewVector("unk", 0, 0, 0, 0)
	}

	v = swizzle(v, o.Comps)
	v = shadervar.Apply(v, operationType(op), toShadervarModifier(o.Modifier))

	if flushable && operationFlushing(op) && operationType(op) == shadervar.Float {
		for i := 0; i < 4; i++ {
			v.SetFloat(i, shadervar.FlushDenorm(v.Float(i)))
		}
	}

	return v
}

func regAt(regs []shadervar.ShaderVariable, i uint32) shadervar.ShaderVariable {
	if int(i) >= len(regs) {
		return shadervar.NewVector("oob", 0, 0, 0, 0)
	}
	return regs[i]
}

func indexableAt(s *State, arr, member uint32) shadervar.ShaderVariable {
	if int(arr) >= len(s.IndexableTemps) {
		return shadervar.NewVector("oob", 0, 0, 0, 0)
	}
	members := s.IndexableTemps[arr].Members
	if int(member) >= len(members) {
		return shadervar.NewVector("oob", 0, 0, 0, 0)
	}
	return members[member]
}

func immediateConstantBuffer(s *State, elementIndex uint32) shadervar.ShaderVariable {
	icb := s.Container.ImmediateConstantBuffer()
	base := elementIndex * 4
	v := shadervar.NewVector("icb", 0, 0, 0, 0)
	for i := 0; i < 4; i++ {
		if int(base)+i < len(icb) {
			v.Lanes[i] = icb[int(base)+i]
		}
	}
	return v
}

func literalOperand(o dxbc.Operand) shadervar.ShaderVariable {
	v := shadervar.NewVector("imm", 0, 0, 0, 0)
	switch o.NumComponents {
	case dxbc.NumComps1:
		for i := 0; i < 4 && len(o.Values) > 0; i++ {
			v.Lanes[i] = o.Values[0]
		}
	case dxbc.NumComps4:
		for i := 0; i < 4 && i < len(o.Values); i++ {
			v.Lanes[i] = o.Values[i]
		}
	}
	return v
}

// swizzle applies the 4-component selector: lane i of the result is
// lane comps[i] of v, or identity lane i if comps[i] == 0xff. If only
// comps[0] is in use, the result is marked scalar.
func swizzle(v shadervar.ShaderVariable, comps [4]uint8) shadervar.ShaderVariable {
	out := v
	for i := 0; i < 4; i++ {
		if comps[i] == 0xff {
			out.Lanes[i] = v.Lanes[i]
		} else {
			out.Lanes[i] = v.Lanes[comps[i]]
		}
	}
	if comps[0] != 0xff && comps[1] == 0xff && comps[2] == 0xff && comps[3] == 0xff {
		out.Columns = 1
	}
	return out
}
