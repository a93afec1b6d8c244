package vm

import (
	"github.com/shaderdbg/dxbcvm/dxbc"
	"github.com/shaderdbg/dxbcvm/shadervar"
)

// Quad is a loan of the four sibling States cooperating on screen-space
// derivatives for one step. The entry at
// QuadIndex is the invocation currently stepping.
type Quad [4]*State

// pairIndexX and pairIndexY return the sibling that forms the horizontal (dx) or
// vertical (dy) derivative pair with quadIndex, per the 2x2 layout
// where bit0=x, bit1=y.
func pairIndexX(quadIndex int) int { return quadIndex ^ 1 }
func pairIndexY(quadIndex int) int { return quadIndex ^ 2 }

// execDerivative handles DERIV_RTX/RTY and their _COARSE/_FINE suffixed
// forms. Plain and _COARSE always take the fixed top-left-relative pair
// (quad[1]-quad[0] for x, quad[2]-quad[0] for y) independent of which
// lane is stepping; only _FINE pairs the calling lane with its
// parity-adjacent sibling and flips sign so both lanes in a pair agree.
func execDerivative(s *State, quad *Quad, asm dxbc.ASMOperation) bool {
	if quad == nil {
		// No sibling lanes outside a quad; leave the destination
		// unchanged rather than fault.
		return true
	}

	var axisY, fine bool
	switch asm.Opcode {
	case dxbc.OpDerivRtx, dxbc.OpDerivRtxCoarse:
	case dxbc.OpDerivRtxFine:
		fine = true
	case dxbc.OpDerivRty, dxbc.OpDerivRtyCoarse:
		axisY = true
	case dxbc.OpDerivRtyFine:
		axisY, fine = true, true
	default:
		return false
	}

	var base, sibling *State
	var negate bool
	if fine {
		lane := s.Semantics.QuadIndex
		base = s
		if axisY {
			sibling = quad[pairIndexY(lane)]
			negate = lane&2 != 0
		} else {
			sibling = quad[pairIndexX(lane)]
			negate = lane&1 != 0
		}
	} else {
		base = quad[0]
		if axisY {
			sibling = quad[2]
		} else {
			sibling = quad[1]
		}
	}
	if base == nil || sibling == nil {
		return true
	}

	a := GetSrc(base, asm.Operands[1], asm.Opcode)
	b := GetSrc(sibling, asm.Operands[1], asm.Opcode)

	r := shadervar.NewVector("ddr", 0, 0, 0, 0)
	for i := 0; i < 4; i++ {
		if negate {
			r.SetFloat(i, a.Float(i)-b.Float(i))
		} else {
			r.SetFloat(i, b.Float(i)-a.Float(i))
		}
	}
	SetDst(s, asm.Operands[0], asm.Opcode, asm, r)
	return true
}
