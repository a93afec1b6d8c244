package vm

import (
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

func execBitwise(s *State, asm dxbc.ASMOperation) bool {
	a := srcs(s, asm)
	dst := asm.Operands[0]
	r := shadervar.NewUintVector("r", 0, 0, 0, 0)

	switch asm.Opcode {
	case dxbc.OpAnd:
		for i := 0; i < 4; i++ {
			r.SetUint(i, a[0].Uint(i)&a[1].Uint(i))
		}
	case dxbc.OpOr:
		for i := 0; i < 4; i++ {
			r.SetUint(i, a[0].Uint(i)|a[1].Uint(i))
		}
	case dxbc.OpXor:
		for i := 0; i < 4; i++ {
			r.SetUint(i, a[0].Uint(i)^a[1].Uint(i))
		}
	case dxbc.OpNot:
		for i := 0; i < 4; i++ {
			r.SetUint(i, ^a[0].Uint(i))
		}
	default:
		return false
	}
	SetDst(s, dst, asm.Opcode, asm, r)
	return true
}
