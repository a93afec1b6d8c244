package vm

import (
	"math/bits"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

func execInteger(s *State, asm dxbc.ASMOperation) bool {
	switch asm.Opcode {
	case dxbc.OpIAdd:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetInt(i, a[0].Int(i)+a[1].Int(i))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpIMul, dxbc.OpUMul:
		// operands: [hi_dst, lo_dst, src0, src1]
		hiDst, loDst := asm.Operands[0], asm.Operands[1]
		src0 := GetSrc(s, asm.Operands[2], asm.Opcode)
		src1 := GetSrc(s, asm.Operands[3], asm.Opcode)
		hi, lo := shadervar.NewVector("hi", 0, 0, 0, 0), shadervar.NewVector("lo", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			h, l := bits.Mul32(src0.Uint(i), src1.Uint(i))
			hi.SetUint(i, h)
			lo.SetUint(i, l)
		}
		SetDst(s, hiDst, asm.Opcode, asm, hi)
		SetDst(s, loDst, asm.Opcode, asm, lo)

	case dxbc.OpUDiv:
		// operands: [quot_dst, rem_dst, src0, src1]
		quotDst, remDst := asm.Operands[0], asm.Operands[1]
		src0 := GetSrc(s, asm.Operands[2], asm.Opcode)
		src1 := GetSrc(s, asm.Operands[3], asm.Opcode)
		quot, rem := shadervar.NewVector("q", 0, 0, 0, 0), shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			n, d := src0.Uint(i), src1.Uint(i)
			if d == 0 {
				quot.SetUint(i, 0xFFFFFFFF)
				rem.SetUint(i, 0xFFFFFFFF)
				continue
			}
			quot.SetUint(i, n/d)
			rem.SetUint(i, n%d)
		}
		SetDst(s, quotDst, asm.Opcode, asm, quot)
		SetDst(s, remDst, asm.Opcode, asm, rem)

	case dxbc.OpIMad:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetInt(i, a[0].Int(i)*a[1].Int(i)+a[2].Int(i))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpUMad:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetUint(i, a[0].Uint(i)*a[1].Uint(i)+a[2].Uint(i))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpUAddC:
		// operands: [sum_dst, carry_dst, src0, src1]
		sumDst, carryDst := asm.Operands[0], asm.Operands[1]
		src0 := GetSrc(s, asm.Operands[2], asm.Opcode)
		src1 := GetSrc(s, asm.Operands[3], asm.Opcode)
		sum, carry := shadervar.NewVector("sum", 0, 0, 0, 0), shadervar.NewVector("carry", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			total := uint64(src0.Uint(i)) + uint64(src1.Uint(i))
			sum.SetUint(i, uint32(total))
			if total > 0xFFFFFFFF {
				carry.SetUint(i, 1)
			}
		}
		SetDst(s, sumDst, asm.Opcode, asm, sum)
		SetDst(s, carryDst, asm.Opcode, asm, carry)

	case dxbc.OpUSubB:
		// operands: [diff_dst, borrow_dst, src0, src1]
		diffDst, borrowDst := asm.Operands[0], asm.Operands[1]
		src0 := GetSrc(s, asm.Operands[2], asm.Opcode)
		src1 := GetSrc(s, asm.Operands[3], asm.Opcode)
		diff, borrow := shadervar.NewVector("diff", 0, 0, 0, 0), shadervar.NewVector("borrow", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			x, y := src0.Uint(i), src1.Uint(i)
			diff.SetUint(i, x-y)
			if x < y {
				borrow.SetUint(i, 1)
			}
		}
		SetDst(s, diffDst, asm.Opcode, asm, diff)
		SetDst(s, borrowDst, asm.Opcode, asm, borrow)

	case dxbc.OpIShl:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		shiftBy := broadcastShift(a[1])
		for i := 0; i < 4; i++ {
			r.SetInt(i, a[0].Int(i)<<(shiftBy[i]&0x1F))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpIShr:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		shiftBy := broadcastShift(a[1])
		for i := 0; i < 4; i++ {
			r.SetInt(i, a[0].Int(i)>>(shiftBy[i]&0x1F))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpUShr:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		shiftBy := broadcastShift(a[1])
		for i := 0; i < 4; i++ {
			r.SetUint(i, a[0].Uint(i)>>(shiftBy[i]&0x1F))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpIBfe, dxbc.OpUBfe:
		a := srcs(s, asm) // width, offset, value
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		signed := asm.Opcode == dxbc.OpIBfe
		for i := 0; i < 4; i++ {
			width := a[0].Uint(i) & 0x1F
			offset := a[1].Uint(i) & 0x1F
			v := a[2].Uint(i)
			r.SetUint(i, bitfieldExtract(v, width, offset, signed))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpBfi:
		a := srcs(s, asm) // width, offset, src2(insert), src3(base)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			width := a[0].Uint(i) & 0x1F
			offset := a[1].Uint(i) & 0x1F
			if width+offset > 32 {
				width = 32 - offset
			}
			mask := (uint32(1)<<width - 1) << offset
			if width == 0 {
				mask = 0
			}
			inserted := (a[2].Uint(i) << offset) & mask
			r.SetUint(i, inserted|(a[3].Uint(i)&^mask))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpBfrev:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetUint(i, uint32(bits.Reverse16(uint16(a[0].Uint(i))))<<16)
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpCountBits:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetUint(i, uint32(bits.OnesCount32(a[0].Uint(i))))
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpFirstBitHi:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			v := a[0].Uint(i)
			if v == 0 {
				r.SetUint(i, 0xFFFFFFFF)
			} else {
				r.SetUint(i, uint32(bits.LeadingZeros32(v)))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpFirstBitLo:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			v := a[0].Uint(i)
			if v == 0 {
				r.SetUint(i, 0xFFFFFFFF)
			} else {
				r.SetUint(i, uint32(bits.TrailingZeros32(v)))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpFirstBitShi:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			v := a[0].Uint(i)
			if int32(v) < 0 {
				v = ^v
			}
			if v == 0 {
				r.SetUint(i, 0xFFFFFFFF)
			} else {
				r.SetUint(i, uint32(bits.LeadingZeros32(v)))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpIMin:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			if a[0].Int(i) < a[1].Int(i) {
				r.SetInt(i, a[0].Int(i))
			} else {
				r.SetInt(i, a[1].Int(i))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpIMax:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			if a[0].Int(i) > a[1].Int(i) {
				r.SetInt(i, a[0].Int(i))
			} else {
				r.SetInt(i, a[1].Int(i))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpUMin:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			if a[0].Uint(i) < a[1].Uint(i) {
				r.SetUint(i, a[0].Uint(i))
			} else {
				r.SetUint(i, a[1].Uint(i))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	case dxbc.OpUMax:
		a := srcs(s, asm)
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			if a[0].Uint(i) > a[1].Uint(i) {
				r.SetUint(i, a[0].Uint(i))
			} else {
				r.SetUint(i, a[1].Uint(i))
			}
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, r)

	default:
		return false
	}
	return true
}

// broadcastShift reads a shift-count source, broadcasting lane 0 to all
// four lanes when the operand is scalar-sourced.
func broadcastShift(v shadervar.ShaderVariable) [4]uint32 {
	if v.Columns == 1 {
		return [4]uint32{v.Uint(0), v.Uint(0), v.Uint(0), v.Uint(0)}
	}
	return [4]uint32{v.Uint(0), v.Uint(1), v.Uint(2), v.Uint(3)}
}

// bitfieldExtract implements IBFE/UBFE.
func bitfieldExtract(v, width, offset uint32, signed bool) uint32 {
	if width == 0 {
		return 0
	}
	if width+offset < 32 {
		shl := 32 - width - offset
		shr := 32 - width
		if signed {
			return uint32(int32(v<<shl) >> shr)
		}
		return (v << shl) >> shr
	}
	if signed {
		return uint32(int32(v) >> offset)
	}
	return v >> offset
}
