package vm

import (
	"math"

	"github.com/shaderdbg/dxbcvm/apiwrapper"
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

// srcs evaluates asm's source operands (everything after operand 0)
// through GetSrc.
func srcs(s *State, asm dxbc.ASMOperation) []shadervar.ShaderVariable {
	out := make([]shadervar.ShaderVariable, len(asm.Operands)-1)
	for i := 1; i < len(asm.Operands); i++ {
		out[i-1] = GetSrc(s, asm.Operands[i], asm.Opcode)
	}
	return out
}

func execArithmetic(s *State, api apiwrapper.ApiWrapper, asm dxbc.ASMOperation) bool {
	if asm.Opcode == dxbc.OpSinCos {
		angle := GetSrc(s, asm.Operands[2], asm.Opcode)
		var in [4]float32
		for i := 0; i < 4; i++ {
			in[i] = angle.Float(i)
		}
		sin, cos, ok := api.CalculateMathIntrinsic(apiwrapper.MathSinCos, in)
		if !ok {
			return false
		}
		SetDst(s, asm.Operands[0], asm.Opcode, asm, shadervar.NewVector("sin", sin[0], sin[1], sin[2], sin[3]))
		SetDst(s, asm.Operands[1], asm.Opcode, asm, shadervar.NewVector("cos", cos[0], cos[1], cos[2], cos[3]))
		return true
	}

	a := srcs(s, asm)
	dst := asm.Operands[0]

	switch asm.Opcode {
	case dxbc.OpAdd:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF(a[0], a[1], func(x, y float32) float32 { return x + y }))
	case dxbc.OpMul:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF(a[0], a[1], func(x, y float32) float32 { return x * y }))
	case dxbc.OpDiv:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF(a[0], a[1], func(x, y float32) float32 { return x / y }))
	case dxbc.OpMad:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetFloat(i, a[0].Float(i)*a[1].Float(i)+a[2].Float(i))
		}
		SetDst(s, dst, asm.Opcode, asm, r)
	case dxbc.OpDP2, dxbc.OpDP3, dxbc.OpDP4:
		n := map[dxbc.Opcode]int{dxbc.OpDP2: 2, dxbc.OpDP3: 3, dxbc.OpDP4: 4}[asm.Opcode]
		var sum float32
		for i := 0; i < n; i++ {
			sum += a[0].Float(i) * a[1].Float(i)
		}
		r := shadervar.NewVector("r", sum, sum, sum, sum)
		SetDst(s, dst, asm.Opcode, asm, r)
	case dxbc.OpFrc:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			x := a[0].Float(i)
			r.SetFloat(i, x-float32(math.Floor(float64(x))))
		}
		SetDst(s, dst, asm.Opcode, asm, r)
	case dxbc.OpMin:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF(a[0], a[1], shadervar.MinFloat))
	case dxbc.OpMax:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF(a[0], a[1], shadervar.MaxFloat))
	case dxbc.OpRoundPI:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF1(a[0], func(x float32) float32 { return float32(math.Ceil(float64(x))) }))
	case dxbc.OpRoundNI:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF1(a[0], func(x float32) float32 { return float32(math.Floor(float64(x))) }))
	case dxbc.OpRoundZ:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF1(a[0], func(x float32) float32 { return float32(math.Trunc(float64(x))) }))
	case dxbc.OpRoundNE:
		SetDst(s, dst, asm.Opcode, asm, lanewiseF1(a[0], shadervar.RoundNE))
	case dxbc.OpINeg:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		for i := 0; i < 4; i++ {
			r.SetInt(i, -a[0].Int(i))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpDAdd:
		SetDst(s, dst, asm.Opcode, asm, lanewiseD(a[0], a[1], func(x, y float64) float64 { return x + y }))
	case dxbc.OpDMul:
		SetDst(s, dst, asm.Opcode, asm, lanewiseD(a[0], a[1], func(x, y float64) float64 { return x * y }))
	case dxbc.OpDDiv:
		SetDst(s, dst, asm.Opcode, asm, lanewiseD(a[0], a[1], func(x, y float64) float64 { return x / y }))
	case dxbc.OpDMax:
		SetDst(s, dst, asm.Opcode, asm, lanewiseD(a[0], a[1], shadervar.MaxDouble))
	case dxbc.OpDMin:
		SetDst(s, dst, asm.Opcode, asm, lanewiseD(a[0], a[1], shadervar.MinDouble))
	case dxbc.OpDMov:
		SetDst(s, dst, asm.Opcode, asm, a[0])
	case dxbc.OpDMovc:
		r := shadervar.NewVector("r", 0, 0, 0, 0)
		r.Type = shadervar.Double
		if a[0].Uint(0) != 0 {
			r.SetDouble(0, a[1].Double(0))
		} else {
			r.SetDouble(0, a[2].Double(0))
		}
		if a[0].Uint(1) != 0 {
			r.SetDouble(1, a[1].Double(1))
		} else {
			r.SetDouble(1, a[2].Double(1))
		}
		SetDst(s, dst, asm.Opcode, asm, r)

	case dxbc.OpRcp, dxbc.OpRsq, dxbc.OpSqrt, dxbc.OpExp, dxbc.OpLog:
		intrinsic := map[dxbc.Opcode]apiwrapper.MathIntrinsic{
			dxbc.OpRcp: apiwrapper.MathRcp, dxbc.OpRsq: apiwrapper.MathRsq,
			dxbc.OpSqrt: apiwrapper.MathSqrt, dxbc.OpExp: apiwrapper.MathExp, dxbc.OpLog: apiwrapper.MathLog,
		}[asm.Opcode]
		var in [4]float32
		for i := 0; i < 4; i++ {
			in[i] = a[0].Float(i)
		}
		out, _, ok := api.CalculateMathIntrinsic(intrinsic, in)
		if !ok {
			return false
		}
		r := shadervar.NewVector("r", out[0], out[1], out[2], out[3])
		SetDst(s, dst, asm.Opcode, asm, r)

	default:
		return false
	}
	return true
}

func lanewiseF(a, b shadervar.ShaderVariable, f func(x, y float32) float32) shadervar.ShaderVariable {
	r := shadervar.NewVector("r", 0, 0, 0, 0)
	for i := 0; i < 4; i++ {
		r.SetFloat(i, f(a.Float(i), b.Float(i)))
	}
	return r
}

func lanewiseF1(a shadervar.ShaderVariable, f func(x float32) float32) shadervar.ShaderVariable {
	r := shadervar.NewVector("r", 0, 0, 0, 0)
	for i := 0; i < 4; i++ {
		r.SetFloat(i, f(a.Float(i)))
	}
	return r
}

func lanewiseD(a, b shadervar.ShaderVariable, f func(x, y float64) float64) shadervar.ShaderVariable {
	r := shadervar.NewVector("r", 0, 0, 0, 0)
	r.Type = shadervar.Double
	r.SetDouble(0, f(a.Double(0), b.Double(0)))
	r.SetDouble(1, f(a.Double(1), b.Double(1)))
	return r
}
