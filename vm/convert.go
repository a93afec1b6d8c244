package vm

import (
	"math"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/resourcefmt"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

func execConvert(s *State, asm dxbc.ASMOperation) bool {
	a := srcs(s, asm)
	dst := asm.Operands[0]

	switch asm.Opcode {
	case dxbc.OpItoF:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetFloat(i, float32(a[0].Int(i)))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpUtoF:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetFloat(i, float32(a[0].Uint(i)))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpFtoI:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetInt(i, int32(math.Trunc(float64(a[0].Float(i)))))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpFtoU:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetUint(i, uint32(math.Trunc(float64(a[0].Float(i)))))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpItoD, dxbc.OpUtoD, dxbc.OpFtoD:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		r.Type = shadervar.Double
		lane0, lane1 := 0.0, 0.0
		switch asm.Opcode {
		case dxbc.OpItoD:
			lane0, lane1 = float64(a[0].Int(0)), float64(a[0].Int(0))
			if dst.Comps[1] != 0xff {
				lane1 = float64(a[0].Int(1))
			}
		case dxbc.OpUtoD:
			lane0, lane1 = float64(a[0].Uint(0)), float64(a[0].Uint(0))
			if dst.Comps[1] != 0xff {
				lane1 = float64(a[0].Uint(1))
			}
		case dxbc.OpFtoD:
			lane0, lane1 = float64(a[0].Float(0)), float64(a[0].Float(0))
			if dst.Comps[1] != 0xff {
				lane1 = float64(a[0].Float(1))
			}
		}
		r.SetDouble(0, lane0)
		r.SetDouble(1, lane1)
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpDtoI, dxbc.OpDtoU, dxbc.OpDtoF:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		d0, d1 := a[0].Double(0), a[0].Double(1)
		switch asm.Opcode {
		case dxbc.OpDtoI:
			r.SetInt(0, int32(math.Trunc(d0)))
			r.SetInt(1, int32(math.Trunc(d1)))
		case dxbc.OpDtoU:
			r.SetUint(0, uint32(math.Trunc(d0)))
			r.SetUint(1, uint32(math.Trunc(d1)))
		case dxbc.OpDtoF:
			r.SetFloat(0, float32(d0))
			r.SetFloat(1, float32(d1))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpF16toF32:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			h := uint16(a[0].Uint(i) & 0xFFFF)
			f := resourcefmt.HalfToFloat32(h)
			r.SetFloat(i, shadervar.FlushDenorm(f))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpF32toF16:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			f := shadervar.FlushDenorm(a[0].Float(i))
			r.SetUint(i, uint32(resourcefmt.Float32ToHalf(f)))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	default:
		return false
	}
	return true
}
