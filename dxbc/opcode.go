// Package dxbc defines the decoded-instruction-table shapes the shader
// debugger core consumes: opcodes, operands, declarations, and the
// Container interface the (out-of-scope) binary parser implements.
//
// Nothing in this package parses bytes; it only describes the in-memory
// form the external container hands to vm.Init/vm.Step.
package dxbc

// Opcode identifies an ASMOperation's behaviour.
type Opcode int

// Opcodes named by the shader debugger's instruction set, grouped by
// the kind of execution unit that dispatches them.
const (
	OpNop Opcode = iota

	// Arithmetic
	OpAdd
	OpMul
	OpDiv
	OpMad
	OpDP2
	OpDP3
	OpDP4
	OpFrc
	OpRcp
	OpRsq
	OpSqrt
	OpExp
	OpLog
	OpSinCos
	OpRoundPI
	OpRoundNI
	OpRoundZ
	OpRoundNE
	OpMin
	OpMax
	OpINeg

	// Double-precision arithmetic (operate on the two packed lanes only)
	OpDAdd
	OpDMul
	OpDDiv
	OpDMax
	OpDMin
	OpDMov
	OpDMovc

	// Integer
	OpIAdd
	OpIMul
	OpUMul
	OpUDiv
	OpIMad
	OpUMad
	OpUAddC
	OpUSubB
	OpIShl
	OpIShr
	OpUShr
	OpIBfe
	OpUBfe
	OpBfi
	OpBfrev
	OpCountBits
	OpFirstBitHi
	OpFirstBitLo
	OpFirstBitShi
	OpIMin
	OpIMax
	OpUMin
	OpUMax

	// Conversions
	OpItoF
	OpUtoF
	OpFtoI
	OpFtoU
	OpItoD
	OpUtoD
	OpFtoD
	OpDtoI
	OpDtoU
	OpDtoF
	OpF16toF32
	OpF32toF16

	// Comparisons
	OpEq
	OpNe
	OpLt
	OpGe
	OpIEq
	OpINe
	OpILt
	OpIGe
	OpULt
	OpUGe
	OpDEq
	OpDNe
	OpDLt
	OpDGe

	// Bitwise
	OpAnd
	OpOr
	OpXor
	OpNot

	// Move / select
	OpMov
	OpMovc
	OpSwapc

	// Derivatives
	OpDerivRtx
	OpDerivRtxCoarse
	OpDerivRtxFine
	OpDerivRty
	OpDerivRtyCoarse
	OpDerivRtyFine

	// Resource / memory
	OpLdRaw
	OpStoreRaw
	OpLdStructured
	OpStoreStructured
	OpLdUavTyped
	OpStoreUavTyped
	OpLd
	OpLdMS

	// Atomics (no return value)
	OpAtomicIAdd
	OpAtomicIMax
	OpAtomicIMin
	OpAtomicUMax
	OpAtomicUMin
	OpAtomicAnd
	OpAtomicOr
	OpAtomicXor
	OpAtomicCmpStore

	// Atomics (return the before-value)
	OpImmAtomicIAdd
	OpImmAtomicIMax
	OpImmAtomicIMin
	OpImmAtomicUMax
	OpImmAtomicUMin
	OpImmAtomicAnd
	OpImmAtomicOr
	OpImmAtomicXor
	OpImmAtomicExch
	OpImmAtomicCmpExch
	OpImmAtomicAlloc
	OpImmAtomicConsume

	// Sample / gather / resource info
	OpSample
	OpSampleL
	OpSampleB
	OpSampleD
	OpSampleC
	OpSampleCLZ
	OpGather4
	OpGather4C
	OpGather4PO
	OpGather4POC
	OpLOD
	OpSampleInfo
	OpSamplePos
	OpBufInfo
	OpResInfo

	// Control flow
	OpIf
	OpElse
	OpEndIf
	OpSwitch
	OpCase
	OpDefault
	OpEndSwitch
	OpLoop
	OpEndLoop
	OpBreak
	OpBreakC
	OpContinue
	OpContinueC
	OpRet
	OpRetC
	OpDiscard

	// Declarations (pure metadata, never dispatched by Step)
	OpDclTemps
	OpDclIndexableTemp
	OpDclInput
	OpDclOutput
	OpDclConstantBuffer
	OpDclResource
	OpDclResourceRaw
	OpDclResourceStructured
	OpDclUnorderedAccessViewTyped
	OpDclUnorderedAccessViewRaw
	OpDclUnorderedAccessViewStructured
	OpDclThreadGroupSharedMemoryRaw
	OpDclThreadGroupSharedMemoryStructured
	OpDclThreadGroup
	OpDclSampler
	OpCustomData
	OpSync
)

// IsControlFlow reports whether op is handled by the control-flow
// scanner rather than the arithmetic/resource dispatch tables.
func (op Opcode) IsControlFlow() bool {
	switch op {
	case OpIf, OpElse, OpEndIf, OpSwitch, OpCase, OpDefault, OpEndSwitch,
		OpLoop, OpEndLoop, OpBreak, OpBreakC, OpContinue, OpContinueC,
		OpRet, OpRetC, OpDiscard:
		return true
	default:
		return false
	}
}

// IsLabel reports whether op has no run-time effect of its own: it is
// purely a target for some other opcode's scan.
func (op Opcode) IsLabel() bool {
	switch op {
	case OpLoop, OpCase, OpDefault, OpEndSwitch, OpEndIf:
		return true
	default:
		return false
	}
}
