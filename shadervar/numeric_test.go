package shadervar

import (
	"math"
	"testing"
)

func TestMinMaxNaNPreserving(t *testing.T) {
	nan := float32(math.NaN())

	if got := MinFloat(nan, 1.0); got != 1.0 {
		t.Errorf("min(NaN, 1.0) = %v, want 1.0", got)
	}
	if got := MinFloat(1.0, nan); got != 1.0 {
		t.Errorf("min(1.0, NaN) = %v, want 1.0", got)
	}
	if got := MinFloat(nan, nan); !math.IsNaN(float64(got)) {
		t.Errorf("min(NaN, NaN) = %v, want NaN", got)
	}
	if got := MaxFloat(nan, 1.0); got != 1.0 {
		t.Errorf("max(NaN, 1.0) = %v, want 1.0", got)
	}
}

func TestSatFloatScenario(t *testing.T) {
	cases := []struct {
		in   float32
		want float32
	}{
		{2.0, 1.0},
		{float32(math.NaN()), 0.0},
		{float32(math.Inf(-1)), 0.0},
		{float32(math.Inf(1)), 1.0},
	}

	for _, c := range cases {
		got := SatFloat(c.in)
		if math.IsNaN(float64(c.want)) {
			continue
		}
		if got != c.want {
			t.Errorf("sat(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFlushDenorm(t *testing.T) {
	denorm := math.Float32frombits(0x00000001) // smallest subnormal, ~1.4e-45
	if got := FlushDenorm(denorm); got != 0.0 || math.Signbit(float64(got)) {
		t.Errorf("flush_denorm(subnormal) = %v, want +0.0", got)
	}

	negDenorm := math.Float32frombits(0x80000001)
	got := FlushDenorm(negDenorm)
	if got != 0.0 || !math.Signbit(float64(got)) {
		t.Errorf("flush_denorm(-subnormal) = %v, want -0.0", got)
	}

	nan := float32(math.NaN())
	if got := FlushDenorm(nan); !math.IsNaN(float64(got)) {
		t.Errorf("flush_denorm(NaN) = %v, want NaN", got)
	}

	inf := float32(math.Inf(1))
	if got := FlushDenorm(inf); got != inf {
		t.Errorf("flush_denorm(+Inf) = %v, want +Inf", got)
	}
}

func TestRoundNE(t *testing.T) {
	cases := map[float32]float32{
		0.5:  0.0,
		1.5:  2.0,
		2.5:  2.0,
		-0.5: 0.0,
	}
	for in, want := range cases {
		if got := RoundNE(in); got != want {
			t.Errorf("round_ne(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestDoublePackRoundTrip(t *testing.T) {
	var v ShaderVariable
	v.Type = Double
	v.SetDouble(0, 3.141592653589793)
	v.SetDouble(1, -2.718281828459045)

	if got := v.Double(0); got != 3.141592653589793 {
		t.Errorf("double lane 0 = %v", got)
	}
	if got := v.Double(1); got != -2.718281828459045 {
		t.Errorf("double lane 1 = %v", got)
	}
}

func TestModifierComposition(t *testing.T) {
	var v ShaderVariable
	v.Type = Float
	v.Rows, v.Columns = 1, 1
	v.SetFloat(0, -4.0)

	absneg := Apply(v, Float, ModAbsNeg)
	if got := absneg.Float(0); got != -4.0 {
		t.Errorf("ABSNEG(-4.0) = %v, want -4.0 (neg(abs(-4))=-4)", got)
	}

	var pos ShaderVariable
	pos.Type = Float
	pos.Rows, pos.Columns = 1, 1
	pos.SetFloat(0, 4.0)
	absnegPos := Apply(pos, Float, ModAbsNeg)
	if got := absnegPos.Float(0); got != -4.0 {
		t.Errorf("ABSNEG(4.0) = %v, want -4.0", got)
	}
}

func TestSatSIntUInt(t *testing.T) {
	if SatSInt(-5) != 0 {
		t.Error("SatSInt(-5) should clamp to 0")
	}
	if SatSInt(5) != 1 {
		t.Error("SatSInt(5) should clamp to 1")
	}
	if SatUInt(0) != 0 || SatUInt(7) != 1 {
		t.Error("SatUInt should be x?1:0")
	}
}
