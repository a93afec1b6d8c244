package vm_test

import (
	"math"
	"strings"
	"testing"

	"github.com/shaderdbg/dxbcvm/apiwrapper"
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/trace"
	"github.com/shaderdbg/dxbcvm/vm"
)

// noopAPI satisfies apiwrapper.ApiWrapper for fixtures that never reach
// a sample/gather/math-intrinsic opcode.
type noopAPI struct{}

func (noopAPI) SetCurrentInstruction(int) {}
func (noopAPI) CalculateMathIntrinsic(apiwrapper.MathIntrinsic, [4]float32) ([4]float32, [4]float32, bool) {
	return [4]float32{}, [4]float32{}, false
}
func (noopAPI) CalculateSampleGather(apiwrapper.SampleGatherOp, apiwrapper.ResourceData, apiwrapper.SamplerData,
	[4]float32, [4]float32, [4]float32, [3]int32, int, float32, [4]uint8, int, string) ([4]float32, bool) {
	return [4]float32{}, false
}
func (noopAPI) GetSampleInfo(dxbc.OperandType, bool, uint32, string) (uint32, bool) { return 0, false }
func (noopAPI) GetBufferInfo(uint32) (uint32, bool)                                 { return 0, false }
func (noopAPI) GetResourceInfo(uint32, int) (uint32, uint32, uint32, uint32, dxbc.ResourceDimension, bool) {
	return 0, 0, 0, 0, dxbc.DimUnknown, false
}
func (noopAPI) AddDebugMessage(int, int, string, string) {}

var _ apiwrapper.ApiWrapper = noopAPI{}

func runToEnd(t *testing.T, src string) *vm.State {
	t.Helper()
	f, err := trace.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, g := f.Build()
	api := noopAPI{}
	for !vm.Finished(s) {
		s = vm.Step(s, g, api, nil)
	}
	return s
}

func TestMinNaNPreserving(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 1
min r0.x, l(0x7fc00000), l(1.0)
ret
`)
	if got := s.Registers[0].Float(0); got != 1.0 {
		t.Errorf("min(NaN, 1.0) = %v, want 1.0", got)
	}
}

func TestSaturateSpecialValues(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 1
mov_sat r0.xyzw, l(2.0, 0x7fc00000, 0xff800000, 0x7f800000)
ret
`)
	r := s.Registers[0]
	if got := r.Float(0); got != 1.0 {
		t.Errorf("sat(2.0) = %v, want 1.0", got)
	}
	if got := r.Float(1); got != 0.0 {
		t.Errorf("sat(NaN) = %v, want 0.0", got)
	}
	if got := r.Float(2); got != 0.0 {
		t.Errorf("sat(-Inf) = %v, want 0.0", got)
	}
	if got := r.Float(3); got != 1.0 {
		t.Errorf("sat(+Inf) = %v, want 1.0", got)
	}
}

func TestFlushDenormOnWrite(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 1
mov r0.x, l(0x00000001)
ret
`)
	if got := s.Registers[0].Float(0); got != 0.0 || math.Signbit(float64(got)) {
		t.Errorf("mov of a denormal = %v, want +0.0", got)
	}
}

func TestUDivByZeroAndNonzero(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 2
udiv r0.x, r1.x, l(10), l(3)
udiv r0.y, r1.y, l(10), l(0)
ret
`)
	if got := s.Registers[0].Uint(0); got != 3 {
		t.Errorf("udiv(10,3) quotient = %d, want 3", got)
	}
	if got := s.Registers[1].Uint(0); got != 1 {
		t.Errorf("udiv(10,3) remainder = %d, want 1", got)
	}
	if got := s.Registers[0].Uint(1); got != 0xFFFFFFFF {
		t.Errorf("udiv(10,0) quotient = %#x, want 0xFFFFFFFF", got)
	}
	if got := s.Registers[1].Uint(1); got != 0xFFFFFFFF {
		t.Errorf("udiv(10,0) remainder = %#x, want 0xFFFFFFFF", got)
	}
}

func TestBitfieldExtract(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 2
ibfe r0.x, l(8), l(8), l(0x0000AB00)
ubfe r1.x, l(8), l(8), l(0x0000AB00)
ret
`)
	if got := s.Registers[0].Int(0); got != -85 {
		t.Errorf("ibfe(8,8,0x0000AB00) = %d, want -85", got)
	}
	if got := s.Registers[1].Uint(0); got != 0xAB {
		t.Errorf("ubfe(8,8,0x0000AB00) = %#x, want 0xAB", got)
	}
}

func TestFirstBitEdgeCases(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 3
firstbit_hi r0.x, l(0)
firstbit_lo r1.x, l(0)
firstbit_shi r2.x, l(0xFFFFFFFF)
ret
`)
	if got := s.Registers[0].Uint(0); got != 0xFFFFFFFF {
		t.Errorf("firstbit_hi(0) = %#x, want 0xFFFFFFFF", got)
	}
	if got := s.Registers[1].Uint(0); got != 0xFFFFFFFF {
		t.Errorf("firstbit_lo(0) = %#x, want 0xFFFFFFFF", got)
	}
	if got := s.Registers[2].Uint(0); got != 0xFFFFFFFF {
		t.Errorf("firstbit_shi(-1) = %#x, want 0xFFFFFFFF", got)
	}
}

func TestIfElseEndif(t *testing.T) {
	taken := runToEnd(t, `
dcl_temps 1
if l(1)
mov r0.x, l(1.0)
else
mov r0.x, l(2.0)
endif
ret
`)
	if got := taken.Registers[0].Float(0); got != 1.0 {
		t.Errorf("if(true) branch wrote %v, want 1.0", got)
	}

	notTaken := runToEnd(t, `
dcl_temps 1
if l(0)
mov r0.x, l(1.0)
else
mov r0.x, l(2.0)
endif
ret
`)
	if got := notTaken.Registers[0].Float(0); got != 2.0 {
		t.Errorf("if(false) branch wrote %v, want 2.0", got)
	}
}

func TestFirstBitHiPositiveAndNegative(t *testing.T) {
	s := runToEnd(t, `
dcl_temps 1
firstbit_hi r0.x, l(0x00000010)
firstbit_hi r0.y, l(0x80000000)
ret
`)
	if got := s.Registers[0].Uint(0); got != 27 {
		t.Errorf("firstbit_hi(0x10) = %d, want 27", got)
	}
	if got := s.Registers[0].Uint(1); got != 0 {
		t.Errorf("firstbit_hi(0x80000000) = %d, want 0", got)
	}
}
