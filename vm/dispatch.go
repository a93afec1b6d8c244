package vm

import (
	"github.com/shaderdbg/dxbcvm/apiwrapper"
	"github.com/shaderdbg/dxbcvm/dxbc"
)

// Step advances s by exactly one instruction, consulting g for shared
// resource/groupshared state and api for sampling and transcendental
// math, and quad (nil outside a cooperative quad) for sibling lanes
// needed by derivative and implicit-derivative sample opcodes.
//
// Step mutates s in place and returns it: the "purely functional"
// transition described by the wider system is a property of the
// function's determinism (same inputs always produce the same
// successor), not an implementation requirement to copy State on every
// instruction.
func Step(s *State, g *Global, api apiwrapper.ApiWrapper, quad *Quad) *State {
	if Finished(s) {
		return s
	}

	s.Modified = s.Modified[:0]
	asm := s.Container.Instruction(s.ProgramCounter)
	api.SetCurrentInstruction(s.ProgramCounter)

	if asm.Opcode.IsControlFlow() {
		execControlFlow(s, asm)
		return s
	}
	if asm.Opcode.IsLabel() {
		s.ProgramCounter++
		return s
	}

	advance := true
	switch {
	case isArithmeticOp(asm.Opcode):
		advance = execArithmetic(s, api, asm)
	case isIntegerOp(asm.Opcode):
		advance = execInteger(s, asm)
	case isConvertOp(asm.Opcode):
		advance = execConvert(s, asm)
	case isCompareOp(asm.Opcode):
		advance = execCompare(s, asm)
	case isBitwiseOp(asm.Opcode):
		advance = execBitwise(s, asm)
	case isMoveOp(asm.Opcode):
		advance = execMove(s, asm)
	case isDerivativeOp(asm.Opcode):
		advance = execDerivative(s, quad, asm)
	case isResourceOp(asm.Opcode):
		advance = execResource(s, g, asm)
	case isAtomicOp(asm.Opcode):
		advance = execAtomic(s, g, asm)
	case isSampleOp(asm.Opcode):
		advance = execSample(s, g, quad, api, asm)
	case asm.Opcode == dxbc.OpNop, asm.Opcode == dxbc.OpSync, asm.Opcode == dxbc.OpCustomData:
		advance = true
	default:
		// Unhandled opcode: a trap. Logged by the harness;
		// the step leaves state otherwise unchanged.
		api.AddDebugMessage(0, 0, "dispatch", "unhandled opcode")
		advance = true
	}

	if advance {
		s.ProgramCounter++
	}
	return s
}

func isArithmeticOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpAdd, dxbc.OpMul, dxbc.OpDiv, dxbc.OpMad, dxbc.OpDP2, dxbc.OpDP3, dxbc.OpDP4,
		dxbc.OpFrc, dxbc.OpRcp, dxbc.OpRsq, dxbc.OpSqrt, dxbc.OpExp, dxbc.OpLog, dxbc.OpSinCos,
		dxbc.OpRoundPI, dxbc.OpRoundNI, dxbc.OpRoundZ, dxbc.OpRoundNE, dxbc.OpMin, dxbc.OpMax, dxbc.OpINeg,
		dxbc.OpDAdd, dxbc.OpDMul, dxbc.OpDDiv, dxbc.OpDMax, dxbc.OpDMin, dxbc.OpDMov, dxbc.OpDMovc:
		return true
	}
	return false
}

func isIntegerOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpIAdd, dxbc.OpIMul, dxbc.OpUMul, dxbc.OpUDiv, dxbc.OpIMad, dxbc.OpUMad,
		dxbc.OpUAddC, dxbc.OpUSubB, dxbc.OpIShl, dxbc.OpIShr, dxbc.OpUShr,
		dxbc.OpIBfe, dxbc.OpUBfe, dxbc.OpBfi, dxbc.OpBfrev, dxbc.OpCountBits,
		dxbc.OpFirstBitHi, dxbc.OpFirstBitLo, dxbc.OpFirstBitShi,
		dxbc.OpIMin, dxbc.OpIMax, dxbc.OpUMin, dxbc.OpUMax:
		return true
	}
	return false
}

func isConvertOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpItoF, dxbc.OpUtoF, dxbc.OpFtoI, dxbc.OpFtoU,
		dxbc.OpItoD, dxbc.OpUtoD, dxbc.OpFtoD, dxbc.OpDtoI, dxbc.OpDtoU, dxbc.OpDtoF,
		dxbc.OpF16toF32, dxbc.OpF32toF16:
		return true
	}
	return false
}

func isCompareOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpEq, dxbc.OpNe, dxbc.OpLt, dxbc.OpGe, dxbc.OpIEq, dxbc.OpINe, dxbc.OpILt, dxbc.OpIGe,
		dxbc.OpULt, dxbc.OpUGe, dxbc.OpDEq, dxbc.OpDNe, dxbc.OpDLt, dxbc.OpDGe:
		return true
	}
	return false
}

func isBitwiseOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpAnd, dxbc.OpOr, dxbc.OpXor, dxbc.OpNot:
		return true
	}
	return false
}

func isMoveOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpMov, dxbc.OpMovc, dxbc.OpSwapc:
		return true
	}
	return false
}

func isDerivativeOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpDerivRtx, dxbc.OpDerivRtxCoarse, dxbc.OpDerivRtxFine,
		dxbc.OpDerivRty, dxbc.OpDerivRtyCoarse, dxbc.OpDerivRtyFine:
		return true
	}
	return false
}

func isResourceOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpLdRaw, dxbc.OpStoreRaw, dxbc.OpLdStructured, dxbc.OpStoreStructured,
		dxbc.OpLdUavTyped, dxbc.OpStoreUavTyped:
		return true
	}
	return false
}

func isAtomicOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpAtomicIAdd, dxbc.OpAtomicIMax, dxbc.OpAtomicIMin, dxbc.OpAtomicUMax, dxbc.OpAtomicUMin,
		dxbc.OpAtomicAnd, dxbc.OpAtomicOr, dxbc.OpAtomicXor, dxbc.OpAtomicCmpStore,
		dxbc.OpImmAtomicIAdd, dxbc.OpImmAtomicIMax, dxbc.OpImmAtomicIMin, dxbc.OpImmAtomicUMax, dxbc.OpImmAtomicUMin,
		dxbc.OpImmAtomicAnd, dxbc.OpImmAtomicOr, dxbc.OpImmAtomicXor, dxbc.OpImmAtomicExch,
		dxbc.OpImmAtomicCmpExch, dxbc.OpImmAtomicAlloc, dxbc.OpImmAtomicConsume:
		return true
	}
	return false
}

func isSampleOp(op dxbc.Opcode) bool {
	switch op {
	case dxbc.OpSample, dxbc.OpSampleL, dxbc.OpSampleB, dxbc.OpSampleD, dxbc.OpSampleC, dxbc.OpSampleCLZ,
		dxbc.OpGather4, dxbc.OpGather4C, dxbc.OpGather4PO, dxbc.OpGather4POC, dxbc.OpLOD,
		dxbc.OpLd, dxbc.OpLdMS, dxbc.OpSampleInfo, dxbc.OpSamplePos, dxbc.OpBufInfo, dxbc.OpResInfo:
		return true
	}
	return false
}
