package vm

import (
	"encoding/binary"

	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

// atomicOp applies one RMW operation to before, returning the new value.
func atomicOp(op dxbc.Opcode, before, operand uint32) uint32 {
	switch op {
	case dxbc.OpAtomicIAdd, dxbc.OpImmAtomicIAdd:
		return before + operand
	case dxbc.OpAtomicIMax, dxbc.OpImmAtomicIMax:
		if int32(operand) > int32(before) {
			return operand
		}
		return before
	case dxbc.OpAtomicIMin, dxbc.OpImmAtomicIMin:
		if int32(operand) < int32(before) {
			return operand
		}
		return before
	case dxbc.OpAtomicUMax, dxbc.OpImmAtomicUMax:
		if operand > before {
			return operand
		}
		return before
	case dxbc.OpAtomicUMin, dxbc.OpImmAtomicUMin:
		if operand < before {
			return operand
		}
		return before
	case dxbc.OpAtomicAnd, dxbc.OpImmAtomicAnd:
		return before & operand
	case dxbc.OpAtomicOr, dxbc.OpImmAtomicOr:
		return before | operand
	case dxbc.OpAtomicXor, dxbc.OpImmAtomicXor:
		return before ^ operand
	case dxbc.OpImmAtomicExch:
		return operand
	default:
		return before
	}
}

// atomicAddress resolves (uav, byte-offset) for an atomic targeting
// resource slot, addressed the same way as LD_STRUCTURED (vm/resource.go).
func atomicAddress(g *Global, slot uint32, elem, byteOffset uint32) (*UAV, uint32, bool) {
	uav, ok := g.UAVs[slot]
	if !ok {
		return nil, 0, false
	}
	base := (uav.FirstElement+elem)*uav.Format.Stride + byteOffset
	return uav, base, base+4 <= uint32(len(uav.Data))
}

func execAtomic(s *State, g *Global, asm dxbc.ASMOperation) bool {
	switch asm.Opcode {
	case dxbc.OpAtomicIAdd, dxbc.OpAtomicIMax, dxbc.OpAtomicIMin, dxbc.OpAtomicUMax,
		dxbc.OpAtomicUMin, dxbc.OpAtomicAnd, dxbc.OpAtomicOr, dxbc.OpAtomicXor:
		// operands: [resource, elem, byteOffset, value]
		slot := resourceSlot(s, asm.Operands[0])
		elem := GetSrc(s, asm.Operands[1], asm.Opcode).Uint(0)
		byteOffset := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		value := GetSrc(s, asm.Operands[3], asm.Opcode).Uint(0)
		applyAtomicNoReturn(s, g, asm.Opcode, slot, elem, byteOffset, value)

	case dxbc.OpAtomicCmpStore:
		// operands: [resource, elem, byteOffset, compare, value]
		slot := resourceSlot(s, asm.Operands[0])
		elem := GetSrc(s, asm.Operands[1], asm.Opcode).Uint(0)
		byteOffset := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		cmp := GetSrc(s, asm.Operands[3], asm.Opcode).Uint(0)
		value := GetSrc(s, asm.Operands[4], asm.Opcode).Uint(0)
		if s.Done {
			return true
		}
		uav, off, ok := atomicAddress(g, slot, elem, byteOffset)
		if !ok {
			return true
		}
		uav.mu.Lock()
		if binary.LittleEndian.Uint32(uav.Data[off:]) == cmp {
			binary.LittleEndian.PutUint32(uav.Data[off:], value)
		}
		uav.mu.Unlock()

	case dxbc.OpImmAtomicIAdd, dxbc.OpImmAtomicIMax, dxbc.OpImmAtomicIMin,
		dxbc.OpImmAtomicUMax, dxbc.OpImmAtomicUMin, dxbc.OpImmAtomicAnd,
		dxbc.OpImmAtomicOr, dxbc.OpImmAtomicXor, dxbc.OpImmAtomicExch:
		// operands: [dst(before-value), resource, elem, byteOffset, value]
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		elem := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		byteOffset := GetSrc(s, asm.Operands[3], asm.Opcode).Uint(0)
		value := GetSrc(s, asm.Operands[4], asm.Opcode).Uint(0)
		before := applyAtomicReturning(s, g, asm.Opcode, slot, elem, byteOffset, value)
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("before", before, before, before, before))

	case dxbc.OpImmAtomicCmpExch:
		// operands: [dst(before-value), resource, elem, byteOffset, compare, value]
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		elem := GetSrc(s, asm.Operands[2], asm.Opcode).Uint(0)
		byteOffset := GetSrc(s, asm.Operands[3], asm.Opcode).Uint(0)
		cmp := GetSrc(s, asm.Operands[4], asm.Opcode).Uint(0)
		value := GetSrc(s, asm.Operands[5], asm.Opcode).Uint(0)
		var before uint32
		if !s.Done {
			if uav, off, ok := atomicAddress(g, slot, elem, byteOffset); ok {
				uav.mu.Lock()
				before = binary.LittleEndian.Uint32(uav.Data[off:])
				if before == cmp {
					binary.LittleEndian.PutUint32(uav.Data[off:], value)
				}
				uav.mu.Unlock()
			}
		}
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("before", before, before, before, before))

	case dxbc.OpImmAtomicAlloc:
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		var before uint32
		if !s.Done {
			if uav, ok := g.UAVs[slot]; ok {
				uav.mu.Lock()
				before = uav.HiddenCounter
				uav.HiddenCounter++
				uav.mu.Unlock()
			}
		}
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("before", before, before, before, before))

	case dxbc.OpImmAtomicConsume:
		dst := asm.Operands[0]
		slot := resourceSlot(s, asm.Operands[1])
		var after uint32
		if !s.Done {
			if uav, ok := g.UAVs[slot]; ok {
				uav.mu.Lock()
				uav.HiddenCounter--
				after = uav.HiddenCounter
				uav.mu.Unlock()
			}
		}
		SetDst(s, dst, asm.Opcode, asm, shadervar.NewUintVector("after", after, after, after, after))

	default:
		return false
	}
	return true
}

func applyAtomicNoReturn(s *State, g *Global, op dxbc.Opcode, slot, elem, byteOffset, value uint32) {
	if s.Done {
		return
	}
	uav, off, ok := atomicAddress(g, slot, elem, byteOffset)
	if !ok {
		return
	}
	uav.mu.Lock()
	before := binary.LittleEndian.Uint32(uav.Data[off:])
	binary.LittleEndian.PutUint32(uav.Data[off:], atomicOp(op, before, value))
	uav.mu.Unlock()
}

func applyAtomicReturning(s *State, g *Global, op dxbc.Opcode, slot, elem, byteOffset, value uint32) uint32 {
	if s.Done {
		return 0
	}
	uav, off, ok := atomicAddress(g, slot, elem, byteOffset)
	if !ok {
		return 0
	}
	uav.mu.Lock()
	before := binary.LittleEndian.Uint32(uav.Data[off:])
	binary.LittleEndian.PutUint32(uav.Data[off:], atomicOp(op, before, value))
	uav.mu.Unlock()
	return before
}
