package trace

import (
	"strings"
	"testing"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/vm"
)

func TestParseDeclAndInstructionCounts(t *testing.T) {
	f, err := Parse(strings.NewReader(`
; a trivial shader
dcl_temps 2
dcl_output o0
mov r0.xyzw, l(1.0, 2.0, 3.0, 4.0)
add o0.xyzw, r0.xyzw, r0.xyzw
ret
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := f.Container.NumDeclarations(); got != 2 {
		t.Errorf("NumDeclarations = %d, want 2", got)
	}
	if got := f.Container.NumInstructions(); got != 3 {
		t.Errorf("NumInstructions = %d, want 3", got)
	}
	if got := len(f.Container.OutputSignature()); got != 1 {
		t.Errorf("OutputSignature len = %d, want 1", got)
	}
}

func TestParseOperandModifiersAndMasks(t *testing.T) {
	f, err := Parse(strings.NewReader(`
dcl_temps 1
mov r0.xy, -|r0.zw|
ret
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	instr := f.Container.Instruction(0)
	dst, src := instr.Operands[0], instr.Operands[1]

	if dst.Comps != [4]uint8{0, 1, 0xff, 0xff} {
		t.Errorf("dest mask .xy = %v, want [0,1,0xff,0xff]", dst.Comps)
	}
	if src.Modifier != dxbc.ModAbsNeg {
		t.Errorf("modifier = %v, want ModAbsNeg", src.Modifier)
	}
	if src.Comps != [4]uint8{2, 3, 0xff, 0xff} {
		t.Errorf("source swizzle .zw = %v, want [2,3,0xff,0xff]", src.Comps)
	}
}

func TestParseImmediateLiteralEncoding(t *testing.T) {
	f, err := Parse(strings.NewReader(`
dcl_temps 1
mov r0.xyzw, l(1.5, 0x2A, 10, 0x7f800000)
ret
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	lit := f.Container.Instruction(0).Operands[1]
	if len(lit.Values) != 4 {
		t.Fatalf("literal operand has %d values, want 4", len(lit.Values))
	}
	if lit.Values[1] != 0x2A {
		t.Errorf("l() hex integer literal = %#x, want 0x2A", lit.Values[1])
	}
	if lit.Values[2] != 10 {
		t.Errorf("l() bare integer literal = %d, want 10", lit.Values[2])
	}
	if lit.Values[3] != 0x7f800000 {
		t.Errorf("l() hex float-bits literal = %#x, want 0x7f800000", lit.Values[3])
	}
}

func TestParseUnknownOpcodeErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("not_a_real_opcode r0.x, r1.x\n"))
	if err == nil {
		t.Fatal("expected an error for an unknown opcode")
	}
}

func TestParseCBufferAndInputSettingsFeedBuild(t *testing.T) {
	f, err := Parse(strings.NewReader(`
dcl_input v0
dcl_constant_buffer cb0[1]
dcl_temps 1
input v0 1.0, 2.0, 3.0, 4.0
cbuffer cb0[0] 5.0, 6.0, 7.0, 8.0
mov r0.xyzw, v0.xyzw
ret
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s, _ := f.Build()
	if got := s.Inputs[0].Float(0); got != 1.0 {
		t.Errorf("seeded input v0.x = %v, want 1.0", got)
	}
	cb := dxbc.Operand{
		Type:    dxbc.TypeConstantBuffer,
		Indices: []dxbc.OperandIndex{{Absolute: true, Index: 0}, {Absolute: true, Index: 0}},
		Comps:   [4]uint8{0xff, 0xff, 0xff, 0xff},
	}
	if got := vm.GetSrc(s, cb, dxbc.OpMov).Float(0); got != 5.0 {
		t.Errorf("seeded cbuffer cb0[0].x = %v, want 5.0", got)
	}
}
