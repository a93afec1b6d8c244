package resourcefmt

import (
	"encoding/binary"
	"math"

	"github.com/shaderdbg/dxbcvm/shadervar"
)

// loadR10G10B10A2 unpacks a 10/10/10/2-bit value, UInt or UNorm.
func loadR10G10B10A2(data []byte, ct CompType) shadervar.ShaderVariable {
	raw := binary.LittleEndian.Uint32(data[:4])

	r := raw & 0x3ff
	g := (raw >> 10) & 0x3ff
	b := (raw >> 20) & 0x3ff
	a := (raw >> 30) & 0x3

	var v shadervar.ShaderVariable
	v.Rows, v.Columns = 1, 4

	if ct == CompUNorm {
		v.Type = shadervar.Float
		v.SetFloat(0, float32(r)/1023.0)
		v.SetFloat(1, float32(g)/1023.0)
		v.SetFloat(2, float32(b)/1023.0)
		v.SetFloat(3, float32(a)/3.0)
	} else {
		v.Type = shadervar.UInt
		v.SetUint(0, r)
		v.SetUint(1, g)
		v.SetUint(2, b)
		v.SetUint(3, a)
	}
	return v
}

// storeR10G10B10A2 packs the inverse of loadR10G10B10A2.
func storeR10G10B10A2(data []byte, ct CompType, v shadervar.ShaderVariable) {
	var r, g, b, a uint32

	if ct == CompUNorm {
		r = unormN(v.Float(0), 10)
		g = unormN(v.Float(1), 10)
		b = unormN(v.Float(2), 10)
		a = unormN(v.Float(3), 2)
	} else {
		r = v.Uint(0) & 0x3ff
		g = v.Uint(1) & 0x3ff
		b = v.Uint(2) & 0x3ff
		a = v.Uint(3) & 0x3
	}

	raw := r | g<<10 | b<<20 | a<<30
	binary.LittleEndian.PutUint32(data[:4], raw)
}

func unormN(f float32, n int) uint32 {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	max := float32((uint32(1) << n) - 1)
	return uint32(f*max + 0.5)
}

// loadR11G11B10 unpacks an 11/11/10-bit float value. Store is explicitly
// unimplemented per the ISA's contract.
func loadR11G11B10(data []byte) shadervar.ShaderVariable {
	raw := binary.LittleEndian.Uint32(data[:4])

	r := raw & 0x7ff
	g := (raw >> 11) & 0x7ff
	b := (raw >> 22) & 0x3ff

	var v shadervar.ShaderVariable
	v.Rows, v.Columns = 1, 3
	v.Type = shadervar.Float
	v.SetFloat(0, unsignedFloat11(r))
	v.SetFloat(1, unsignedFloat11(g))
	v.SetFloat(2, unsignedFloat10(b))
	return v
}

// unsignedFloat11 decodes a 6-bit-exponent/5-bit-mantissa unsigned float
// (no sign bit, as used by R11G11B10's .r/.g channels).
func unsignedFloat11(bits uint32) float32 {
	return decodeUnsignedFloat(bits, 5, 6)
}

// unsignedFloat10 decodes the 5-bit-exponent/5-bit-mantissa .b channel.
func unsignedFloat10(bits uint32) float32 {
	return decodeUnsignedFloat(bits, 5, 5)
}

func decodeUnsignedFloat(bits uint32, mantBits, expBits int) float32 {
	mantMask := uint32(1)<<mantBits - 1
	mant := bits & mantMask
	exp := bits >> mantBits
	bias := int32(1)<<(expBits-1) - 1

	if exp == 0 {
		if mant == 0 {
			return 0
		}
		return float32(mant) * float32(math.Pow(2, float64(1-bias-int32(mantBits))))
	}
	if exp == uint32(1)<<expBits-1 {
		if mant == 0 {
			return float32(math.Inf(1))
		}
		return float32(math.NaN())
	}
	m := float64(mant)/float64(uint32(1)<<mantBits) + 1.0
	return float32(m * math.Pow(2, float64(int32(exp)-bias)))
}
