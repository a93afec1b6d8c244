package vm

import (
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

func execMove(s *State, asm dxbc.ASMOperation) bool {
	switch asm.Opcode {
	case dxbc.OpMov:
		a := srcs(s, asm)
		SetDst(s, asm.Operands[0], asm.Opcode, asm, a[0])

	case dxbc.OpMovc:
		a := srcs(s, asm) // cond, valIfTrue, valIfFalse
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			if a[0].Uint(i) != 0 {
				r.Lanes[i] = a[1].Lanes[i]
			} else {
				r.Lanes[i] = a[2].Lanes[i]
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpSwapc:
		// operands: [dst0, dst1, cond, src0, src1]
		cond := GetSrc(s, asm.Operands[2], asm.Opcode)
		src0 := GetSrc(s, asm.Operands[3], asm.Opcode)
		src1 := GetSrc(s, asm.Operands[4], asm.Opcode)
		out0, out1 := shadervar.NewVector("o0", 0, 0, 0, 0), shadervar.NewVector("o1", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			if cond.Uint(i) != 0 {
				out0.Lanes[i] = src1.Lanes[i]
				out1.Lanes[i] = src0.Lanes[i]
			} else {
				out0.Lanes[i] = src0.Lanes[i]
				out1.Lanes[i] = src1.Lanes[i]
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, out0)
		SetDst(s, asm.Operands[1], asm.Opcode, asm, out1)

	default:
		return false
	}
	return true
}
