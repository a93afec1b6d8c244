package vm

import (
	"encoding/binary"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/resourcefmt"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

// resourceSlot reads a resource/UAV operand's bind slot. GetSrc returns
// the degenerate placeholder whose lane 0 is the slot index.
func resourceSlot(s *State, o dxbc.Operand) uint32 {
	return GetSrc(s, o, dxbc.OpMov).Uint(0)
}

// Operand convention for memory opcodes (decided here since the binary
// container parser is out of scope): LD_RAW/LD_STRUCTURED/LD_UAV_TYPED
// are [dst, address..., resource]; STORE_* are [resource, address...,
// value].
func execResource(s *State, g *Global, asm dxbc.ASMOperation) bool {
	switch asm.Opcode {
	case dxbc.OpLdRaw:
		dst := asm.Operands[0]
		byteAddr := GetSrc(s, asm.Operands[1], asm.Opcode).Uint(0)
		slot := resourceSlot(s, asm.Operands[2])
		_, _, layout, data, ok := lookupResource(g, slot)
		if !ok {
			SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("z", 0, 0, 0, 0))
			return true
		}
		v := readRawContiguous(data, layout, byteAddr, dst.Comps)
		SetDst(s, dst, asm.Opcode, asm, v)

	case dxbc.OpStoreRaw:
		slot := resourceSlot(s, asm.Operands[0])
		byteAddr := GetSrc(s, asm.Operands[1], asm.Opcode).Uint(0)
		value := GetSrc(s, asm.Operands[2], asm.Opcode)
		uav, _, layout, data, ok := lookupResource(g, slot)
		if !ok || uav == nil || s.Done {
			return true
		}
		uav.mu.Lock()
		writeRawContiguous(data, layout, byteAddr, asm.Operands[0].Comps, value)
		uav.mu.Unlock()

	case dxbc.OpLdStructured:
		dst := asm.Operands[0]
		elem := GetSrc(s, asm.Operands[1], asm.Opcode).Uint(0)
		byteOffset := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		slot := resourceSlot(s, asm.Operands[3])
		_, _, layout, data, ok := lookupResource(g, slot)
		stride, first := structuredParams(g, slot)
		if !ok || elem >= structuredCount(g, slot) {
			SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("z", 0, 0, 0, 0))
			return true
		}
		base := (first+elem)*stride + byteOffset
		v := readRawContiguous(data, layout, base, dst.Comps)
		SetDst(s, dst, asm.Opcode, asm, v)

	case dxbc.OpStoreStructured:
		slot := resourceSlot(s, asm.Operands[0])
		elem := GetSrc(s, asm.Operands[1], asm.Opcode).Uint(0)
		byteOffset := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		value := GetSrc(s, asm.Operands[3], asm.Opcode)
		uav, _, layout, data, ok := lookupResource(g, slot)
		stride, first := structuredParams(g, slot)
		if !ok || uav == nil || s.Done || elem >= structuredCount(g, slot) {
			return true // out-of-bounds structured stores are a no-op, never a fault
		}
		base := (first+elem)*stride + byteOffset
		uav.mu.Lock()
		writeRawContiguous(data, layout, base, asm.Operands[0].Comps, value)
		uav.mu.Unlock()

	case dxbc.OpLdUavTyped:
		dst := asm.Operands[0]
		coord := GetSrc(s, asm.Operands[1], asm.Opcode)
		slot := resourceSlot(s, asm.Operands[2])
		uav, ok := g.UAVs[slot]
		if !ok {
			SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("z", 0, 0, 0, 0))
			return true
		}
		off := typedOffset(uav.IsTexture, coord, uav.Format.Stride, uav.RowPitch, uav.DepthPitch)
		layout := resourcefmt.Layout{ByteWidth: uav.Format.ByteWidth, CompType: uav.Format.CompType, NumComps: uav.Format.NumComps}
		if off+uint32(layout.Size()) > uint32(len(uav.Data)) {
			SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("z", 0, 0, 0, 0))
			return true
		}
		v := resourcefmt.Load(layout, uav.Data[off:])
		SetDst(s, dst, asm.Opcode, asm, v)

	case dxbc.OpStoreUavTyped:
		slot := resourceSlot(s, asm.Operands[0])
		coord := GetSrc(s, asm.Operands[1], asm.Opcode)
		value := GetSrc(s, asm.Operands[2], asm.Opcode)
		uav, ok := g.UAVs[slot]
		if !ok || s.Done {
			return true
		}
		off := typedOffset(uav.IsTexture, coord, uav.Format.Stride, uav.RowPitch, uav.DepthPitch)
		layout := resourcefmt.Layout{ByteWidth: uav.Format.ByteWidth, CompType: uav.Format.CompType, NumComps: uav.Format.NumComps}
		if off+uint32(layout.Size()) > uint32(len(uav.Data)) {
			return true
		}
		uav.mu.Lock()
		resourcefmt.Store(layout, uav.Data[off:], value)
		uav.mu.Unlock()

	default:
		return false
	}
	return true
}

func typedOffset(isTexture bool, coord shadervar.ShaderVariable, stride, rowPitch, depthPitch uint32) uint32 {
	x, y, z := coord.Uint(0), coord.Uint(1), coord.Uint(2)
	if isTexture {
		return x*stride + y*rowPitch + z*depthPitch
	}
	return x * stride
}

// lookupResource returns the UAV (if writable) or SRV backing slot,
// along with a byte-width-4 layout for contiguous raw/structured access
// and the raw byte slice. Both UAV and SRV are searched; UAV wins if
// both are bound to the same slot (shouldn't happen in practice).
func lookupResource(g *Global, slot uint32) (uav *UAV, srv *SRV, layout resourcefmt.Layout, data []byte, ok bool) {
	layout = resourcefmt.Layout{ByteWidth: 4, CompType: resourcefmt.CompUInt, NumComps: 1}
	if u, found := g.UAVs[slot]; found {
		return u, nil, layout, u.Data, true
	}
	if sv, found := g.SRVs[slot]; found {
		return nil, sv, layout, sv.Data, true
	}
	return nil, nil, layout, nil, false
}

func structuredParams(g *Global, slot uint32) (stride, first uint32) {
	if u, ok := g.UAVs[slot]; ok {
		return u.Format.Stride, u.FirstElement
	}
	if sv, ok := g.SRVs[slot]; ok {
		return sv.Format.Stride, sv.FirstElement
	}
	return 0, 0
}

func structuredCount(g *Global, slot uint32) uint32 {
	if u, ok := g.UAVs[slot]; ok {
		return u.NumElements
	}
	if sv, ok := g.SRVs[slot]; ok {
		return sv.NumElements
	}
	return 0
}

// readRawContiguous reads up to 4 contiguous uint32 words from byteAddr,
// honouring comps as a contiguous-from-.x write mask.
func readRawContiguous(data []byte, layout resourcefmt.Layout, byteAddr uint32, comps [4]uint8) shadervar.ShaderVariable {
	v := shadervar.NewUintVector("raw", 0, 0, 0, 0)
	n := maskWidth(comps)
	for i := 0; i < n; i++ {
		off := int(byteAddr) + i*4
		if off+4 > len(data) {
			continue
		}
		v.SetUint(i, binary.LittleEndian.Uint32(data[off:]))
	}
	return v
}

func writeRawContiguous(data []byte, layout resourcefmt.Layout, byteAddr uint32, comps [4]uint8, value shadervar.ShaderVariable) {
	n := maskWidth(comps)
	for i := 0; i < n; i++ {
		off := int(byteAddr) + i*4
		if off+4 > len(data) {
			continue
		}
		binary.LittleEndian.PutUint32(data[off:], value.Uint(i))
	}
}

func maskWidth(comps [4]uint8) int {
	n := 0
	for i := 0; i < 4; i++ {
		if comps[i] != 0xff {
			n = i + 1
		}
	}
	if n == 0 {
		return 1
	}
	return n
}
