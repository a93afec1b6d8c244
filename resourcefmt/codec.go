package resourcefmt

import (
	"encoding/binary"
	"math"

	"github.com/shaderdbg/dxbcvm/shadervar"
)

// Size returns the number of bytes one element of the given layout
// occupies.
func (l Layout) Size() int {
	switch l.Packed {
	case PackedR10G10B10A2, PackedR11G11B10:
		return 4
	default:
		return l.ByteWidth * l.NumComps
	}
}

// Load reads one element from data (which must be at least l.Size()
// bytes) and returns it as a ShaderVariable with lanes 0..NumComps-1
// populated; unused lanes are zero.
func Load(l Layout, data []byte) shadervar.ShaderVariable {
	switch l.Packed {
	case PackedR10G10B10A2:
		return loadR10G10B10A2(data, l.CompType)
	case PackedR11G11B10:
		return loadR11G11B10(data)
	default:
		return loadPlain(l, data)
	}
}

// Store writes v into data (which must be at least l.Size() bytes).
// R11G11B10 store is explicitly unimplemented per the ISA's contract
// (spec §9); callers must not call Store with that layout.
func Store(l Layout, data []byte, v shadervar.ShaderVariable) {
	switch l.Packed {
	case PackedR10G10B10A2:
		storeR10G10B10A2(data, l.CompType, v)
	case PackedR11G11B10:
		panic("resourcefmt: R11G11B10 store is unimplemented")
	default:
		storePlain(l, data, v)
	}
}

func loadPlain(l Layout, data []byte) shadervar.ShaderVariable {
	var v shadervar.ShaderVariable
	v.Rows, v.Columns = 1, l.NumComps

	for i := 0; i < l.NumComps; i++ {
		chunk := data[i*l.ByteWidth : (i+1)*l.ByteWidth]
		switch l.ByteWidth {
		case 4:
			raw := binary.LittleEndian.Uint32(chunk)
			switch l.CompType {
			case CompFloat:
				v.Type = shadervar.Float
				v.SetFloat(i, math.Float32frombits(raw))
			case CompSInt:
				v.Type = shadervar.SInt
				v.SetInt(i, int32(raw))
			default:
				v.Type = shadervar.UInt
				v.SetUint(i, raw)
			}
		case 2:
			raw := uint32(binary.LittleEndian.Uint16(chunk))
			loadNBit(&v, i, raw, 16, l.CompType)
		case 1:
			raw := uint32(chunk[0])
			loadNBit(&v, i, raw, 8, l.CompType)
		}
	}
	return v
}

// loadNBit loads one component of bit width n (8 or 16) per the
// component type's conversion rule.
func loadNBit(v *shadervar.ShaderVariable, lane int, raw uint32, n int, ct CompType) {
	switch ct {
	case CompUInt:
		v.Type = shadervar.UInt
		v.SetUint(lane, raw)
	case CompSInt:
		v.Type = shadervar.SInt
		v.SetInt(lane, signExtend(raw, n))
	case CompUNorm, CompUNormSRGB:
		v.Type = shadervar.Float
		max := float32((uint32(1) << n) - 1)
		f := float32(raw) / max
		if ct == CompUNormSRGB {
			f = srgbToLinear(f)
		}
		v.SetFloat(lane, f)
	case CompSNorm:
		v.Type = shadervar.Float
		signed := signExtend(raw, n)
		half := int32(1) << (n - 1)
		var f float32
		if signed == -half {
			f = -1.0
		} else {
			f = float32(signed) / float32(half-1)
		}
		v.SetFloat(lane, f)
	case CompFloat:
		// only meaningful for n==16 (half float); n==8 half formats don't exist.
		v.Type = shadervar.Float
		v.SetFloat(lane, halfToFloat32(uint16(raw)))
	}
}

func signExtend(raw uint32, n int) int32 {
	shift := 32 - n
	return int32(raw<<shift) >> shift
}

func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow(float64((c+0.055)/1.055), 2.4))
}

func linearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return float32(1.055*math.Pow(float64(c), 1.0/2.4) - 0.055)
}

func storePlain(l Layout, data []byte, v shadervar.ShaderVariable) {
	for i := 0; i < l.NumComps; i++ {
		chunk := data[i*l.ByteWidth : (i+1)*l.ByteWidth]
		switch l.ByteWidth {
		case 4:
			var raw uint32
			switch l.CompType {
			case CompFloat:
				raw = math.Float32bits(v.Float(i))
			case CompSInt:
				raw = uint32(v.Int(i))
			default:
				raw = v.Uint(i)
			}
			binary.LittleEndian.PutUint32(chunk, raw)
		case 2:
			binary.LittleEndian.PutUint16(chunk, storeNBit(v, i, 16, l.CompType))
		case 1:
			chunk[0] = byte(storeNBit(v, i, 8, l.CompType))
		}
	}
}

func storeNBit(v shadervar.ShaderVariable, lane int, n int, ct CompType) uint16 {
	switch ct {
	case CompUInt:
		return uint16(v.Uint(lane))
	case CompSInt:
		return saturateSInt(v.Int(lane), n)
	case CompUNorm, CompUNormSRGB:
		f := v.Float(lane)
		if ct == CompUNormSRGB {
			f = linearToSRGB(f)
		}
		if f < 0 {
			f = 0
		}
		if f > 1 {
			f = 1
		}
		max := float32((uint32(1) << n) - 1)
		return uint16(f*max + 0.5)
	case CompSNorm:
		f := v.Float(lane)
		if f < -1 {
			f = -1
		}
		if f > 1 {
			f = 1
		}
		half := float32(int32(1)<<(n-1) - 1)
		scaled := f * half
		// round to nearest, away from zero on ties.
		if scaled >= 0 {
			return uint16(int32(scaled + 0.5))
		}
		return uint16(int32(scaled-0.5)) & uint16((1<<n)-1)
	case CompFloat:
		return float32ToHalf(v.Float(lane))
	}
	return 0
}

// saturateSInt clamps x into the representable range of an n-bit signed
// store destination.
func saturateSInt(x int32, n int) uint16 {
	lo := -(int32(1) << (n - 1))
	hi := int32(1)<<(n-1) - 1
	if x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return uint16(x) & uint16((1<<n)-1)
}
