// Package shadervar provides the 4-lane SIMD register representation used
// by the DXBC shader debugger and the numeric helpers its opcodes rely on.
package shadervar

import "math"

// VarType describes how a ShaderVariable's lanes should be interpreted.
// It never changes the underlying bit layout, only how it is read.
type VarType uint8

// Interpretations of a ShaderVariable's 32-bit lanes.
const (
	Float VarType = iota
	SInt
	UInt
	Double
)

// ShaderVariable is one 4-lane SIMD register. All four 32-bit words are
// always valid storage; Type only describes how callers should interpret
// them. Doubles reinterpret lanes (.x,.y) as double 0 and (.z,.w) as
// double 1.
type ShaderVariable struct {
	Name    string
	Rows    int
	Columns int
	Type    VarType

	// Lanes holds the raw 32-bit words for .x, .y, .z, .w.
	Lanes [4]uint32
}

// NewVector builds a 4-component float ShaderVariable.
func NewVector(name string, x, y, z, w float32) ShaderVariable {
	v := ShaderVariable{Name: name, Rows: 1, Columns: 4, Type: Float}
	v.SetFloat(0, x)
	v.SetFloat(1, y)
	v.SetFloat(2, z)
	v.SetFloat(3, w)
	return v
}

// NewUintVector builds a 4-component uint ShaderVariable, as used for the
// degenerate resource/sampler/UAV placeholder operands and synthesised
// thread-ID inputs.
func NewUintVector(name string, x, y, z, w uint32) ShaderVariable {
	return ShaderVariable{
		Name: name, Rows: 1, Columns: 4, Type: UInt,
		Lanes: [4]uint32{x, y, z, w},
	}
}

// Float returns lane i interpreted as float32.
func (v ShaderVariable) Float(i int) float32 { return math.Float32frombits(v.Lanes[i]) }

// SetFloat writes lane i from a float32 bit pattern.
func (v *ShaderVariable) SetFloat(i int, f float32) { v.Lanes[i] = math.Float32bits(f) }

// Int returns lane i interpreted as int32.
func (v ShaderVariable) Int(i int) int32 { return int32(v.Lanes[i]) }

// SetInt writes lane i from an int32.
func (v *ShaderVariable) SetInt(i int, x int32) { v.Lanes[i] = uint32(x) }

// Uint returns lane i interpreted as uint32.
func (v ShaderVariable) Uint(i int) uint32 { return v.Lanes[i] }

// SetUint writes lane i from a uint32.
func (v *ShaderVariable) SetUint(i int, x uint32) { v.Lanes[i] = x }

// Double returns double lane d (0 or 1): lanes (.x,.y) form double 0,
// lanes (.z,.w) form double 1.
func (v ShaderVariable) Double(d int) float64 {
	lo, hi := v.Lanes[d*2], v.Lanes[d*2+1]
	return math.Float64frombits(uint64(lo) | uint64(hi)<<32)
}

// SetDouble writes double lane d, splitting it across the corresponding
// pair of 32-bit lanes.
func (v *ShaderVariable) SetDouble(d int, x float64) {
	bits := math.Float64bits(x)
	v.Lanes[d*2] = uint32(bits)
	v.Lanes[d*2+1] = uint32(bits >> 32)
}
