package vm

import (
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

func allOnesOrZero(cond bool) uint32 {
	if cond {
		return 0xFFFFFFFF
	}
	return 0
}

func execCompare(s *State, asm dxbc.ASMOperation) bool {
	a := srcs(s, asm)
	dst := asm.Operands[0]

	switch asm.Opcode {
	case dxbc.OpEq, dxbc.OpNe, dxbc.OpLt, dxbc.OpGe:
		r := shadervar.NewUintVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			x, y := a[0].Float(i), a[1].Float(i)
			var cond bool
			switch asm.Opcode {
			case dxbc.OpEq:
				cond = x == y
			case dxbc.OpNe:
				cond = x != y
			case dxbc.OpLt:
				cond = x < y
			case dxbc.OpGe:
				cond = x >= y
			}
			r.SetUint(i, allOnesOrZero(cond))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpIEq, dxbc.OpINe, dxbc.OpILt, dxbc.OpIGe:
		r := shadervar.NewUintVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			x, y := a[0].Int(i), a[1].Int(i)
			var cond bool
			switch asm.Opcode {
			case dxbc.OpIEq:
				cond = x == y
			case dxbc.OpINe:
				cond = x != y
			case dxbc.OpILt:
				cond = x < y
			case dxbc.OpIGe:
				cond = x >= y
			}
			r.SetUint(i, allOnesOrZero(cond))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpULt, dxbc.OpUGe:
		r := shadervar.NewUintVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			x, y := a[0].Uint(i), a[1].Uint(i)
			var cond bool
			if asm.Opcode == dxbc.OpULt {
				cond = x < y
			} else {
				cond = x >= y
			}
			r.SetUint(i, allOnesOrZero(cond))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpDEq, dxbc.OpDNe, dxbc.OpDLt, dxbc.OpDGe:
		r := shadervar.NewUintVector("r", 0, 0, 0, 0)
		x0, x1 := a[0].Double(0), a[0].Double(1)
		y0, y1 := a[1].Double(0), a[1].Double(1)
		var c0, c1 bool
		switch asm.Opcode {
		case dxbc.OpDEq:
			c0, c1 = x0 == y0, x1 == y1
		case dxbc.OpDNe:
			c0, c1 = x0 != y0, x1 != y1
		case dxbc.OpDLt:
			c0, c1 = x0 < y0, x1 < y1
		case dxbc.OpDGe:
			c0, c1 = x0 >= y0, x1 >= y1
		}
		if dst.Comps[0] != 0xff {
			r.SetUint(0, allOnesOrZero(c0))
		}
		if dst.Comps[1] != 0xff {
			r.SetUint(1, allOnesOrZero(c1))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	default:
		return false
	}
	return true
}
