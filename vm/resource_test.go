package vm_test

import (
	"strings"
	"testing"

	"github.com/shaderdbg/dxbcvm/trace"
	"github.com/shaderdbg/dxbcvm/vm"
)

func TestStructuredStoreLoadAddressing(t *testing.T) {
	fixture, err := trace.Parse(strings.NewReader(`
dcl_unordered_access_view_structured u0, 16
dcl_temps 1
store_structured u0.xyzw, l(2), l(4), l(0x11111111, 0x22222222, 0x33333333, 0x44444444)
ld_structured r0.xyzw, l(2), l(4), u0.xyzw
ret
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, g := fixture.Build()

	g.UAVs[0] = &vm.UAV{
		Data:         make([]byte, 256),
		FirstElement: 0,
		NumElements:  8,
		Format:       vm.UAVFormat{ByteWidth: 4, NumComps: 1, Stride: 16},
	}

	api := noopAPI{}
	for !vm.Finished(s) {
		s = vm.Step(s, g, api, nil)
	}

	// element 2, byte offset 4: base = (0+2)*16 + 4 = 36
	want := [4]uint32{0x11111111, 0x22222222, 0x33333333, 0x44444444}
	for i, w := range want {
		if got := s.Registers[0].Uint(i); got != w {
			t.Errorf("lane %d = %#x, want %#x", i, got, w)
		}
	}
}

func TestStructuredStoreOutOfBoundsIsNoop(t *testing.T) {
	fixture, err := trace.Parse(strings.NewReader(`
dcl_unordered_access_view_structured u0, 16
dcl_temps 1
store_structured u0.xyzw, l(99), l(0), l(1.0, 1.0, 1.0, 1.0)
ld_structured r0.xyzw, l(99), l(0), u0.xyzw
ret
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, g := fixture.Build()
	g.UAVs[0] = &vm.UAV{
		Data:        make([]byte, 256),
		NumElements: 8,
		Format:      vm.UAVFormat{ByteWidth: 4, NumComps: 1, Stride: 16},
	}

	api := noopAPI{}
	for !vm.Finished(s) {
		s = vm.Step(s, g, api, nil)
	}

	for i := 0; i < 4; i++ {
		if got := s.Registers[0].Uint(i); got != 0 {
			t.Errorf("out-of-bounds structured load lane %d = %#x, want 0", i, got)
		}
	}
}
