package vm

import "github.com/shaderdbg/dxbcvm/dxbc"

// predicateTrue evaluates a single-operand predicate under op.nonzero
// polarity: true means "branch is taken when the bit pattern is
// nonzero", matching IF/BREAKC/CONTINUEC/RETC/DISCARD.
func predicateTrue(s *State, pred dxbc.Operand, op dxbc.Opcode, nonzero bool) bool {
	v := GetSrc(s, pred, op)
	nz := v.Uint(0) != 0
	if nonzero {
		return nz
	}
	return !nz
}

// scanForwardIfElse finds the matching ELSE (at depth 1) or ENDIF for an
// IF at pc, returning the instruction index to land on and whether an
// ELSE was hit instead of ENDIF.
func scanForwardIfElse(c dxbc.Container, pc int) (target int, hitElse bool) {
	depth := 1
	for i := pc + 1; i < c.NumInstructions(); i++ {
		switch c.Instruction(i).Opcode {
		case dxbc.OpIf:
			depth++
		case dxbc.OpElse:
			if depth == 1 {
				return i, true
			}
		case dxbc.OpEndIf:
			depth--
			if depth == 0 {
				return i, false
			}
		}
	}
	return c.NumInstructions(), false
}

// scanForwardEndIf finds the ENDIF matching an ELSE at pc.
func scanForwardEndIf(c dxbc.Container, pc int) int {
	depth := 1
	for i := pc + 1; i < c.NumInstructions(); i++ {
		switch c.Instruction(i).Opcode {
		case dxbc.OpIf:
			depth++
		case dxbc.OpEndIf:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return c.NumInstructions()
}

// scanSwitch evaluates a SWITCH at pc: scans forward tracking nested
// SWITCH/ENDSWITCH, remembers the first DEFAULT seen, and takes the
// first CASE whose literal equals value (bitwise); falls back to the
// remembered DEFAULT, else to ENDSWITCH.
func scanSwitch(c dxbc.Container, pc int, value uint32) int {
	depth := 1
	defaultIdx := -1
	for i := pc + 1; i < c.NumInstructions(); i++ {
		instr := c.Instruction(i)
		switch instr.Opcode {
		case dxbc.OpSwitch:
			depth++
		case dxbc.OpEndSwitch:
			depth--
			if depth == 0 {
				if defaultIdx >= 0 {
					return skipLabels(c, defaultIdx)
				}
				return skipLabels(c, i)
			}
		case dxbc.OpDefault:
			if depth == 1 && defaultIdx < 0 {
				defaultIdx = i
			}
		case dxbc.OpCase:
			if depth == 1 && len(instr.Operands) > 0 && len(instr.Operands[0].Values) > 0 {
				if instr.Operands[0].Values[0] == value {
					return skipLabels(c, i)
				}
			}
		}
	}
	return c.NumInstructions()
}

// skipLabels advances past contiguous CASE/DEFAULT label instructions
// starting at i to the next real instruction.
func skipLabels(c dxbc.Container, i int) int {
	for i < c.NumInstructions() {
		op := c.Instruction(i).Opcode
		if op == dxbc.OpCase || op == dxbc.OpDefault {
			i++
			continue
		}
		return i
	}
	return i
}

// scanForwardLoopOrSwitchEnd finds the matching ENDLOOP/ENDSWITCH for a
// BREAK/BREAKC taken at pc, tracking nested LOOP|SWITCH openers against
// ENDLOOP|ENDSWITCH closers.
func scanForwardLoopOrSwitchEnd(c dxbc.Container, pc int) int {
	depth := 1
	for i := pc + 1; i < c.NumInstructions(); i++ {
		switch c.Instruction(i).Opcode {
		case dxbc.OpLoop, dxbc.OpSwitch:
			depth++
		case dxbc.OpEndLoop, dxbc.OpEndSwitch:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return c.NumInstructions()
}

// scanBackwardToLoop finds the LOOP matching an ENDLOOP/CONTINUE/
// CONTINUEC taken at pc, scanning backward and tracking ENDLOOP/LOOP
// nesting.
func scanBackwardToLoop(c dxbc.Container, pc int) int {
	depth := 1
	for i := pc - 1; i >= 0; i-- {
		switch c.Instruction(i).Opcode {
		case dxbc.OpEndLoop:
			depth++
		case dxbc.OpLoop:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return 0
}

// execControlFlow executes one control-flow opcode at s.ProgramCounter,
// advancing or relocating the program counter and possibly setting
// Done.
func execControlFlow(s *State, asm dxbc.ASMOperation) {
	pc := s.ProgramCounter
	c := s.Container

	switch asm.Opcode {
	case dxbc.OpIf:
		taken := predicateTrue(s, asm.Operands[0], asm.Opcode, asm.NonZero)
		if taken {
			s.ProgramCounter = pc + 1
			return
		}
		target, hitElse := scanForwardIfElse(c, pc)
		if hitElse {
			s.ProgramCounter = target + 1
		} else {
			s.ProgramCounter = target + 1
		}

	case dxbc.OpElse:
		s.ProgramCounter = scanForwardEndIf(c, pc) + 1

	case dxbc.OpEndIf:
		s.ProgramCounter = pc + 1

	case dxbc.OpSwitch:
		v := GetSrc(s, asm.Operands[0], asm.Opcode)
		s.ProgramCounter = scanSwitch(c, pc, v.Uint(0))

	case dxbc.OpCase, dxbc.OpDefault, dxbc.OpEndSwitch, dxbc.OpLoop:
		s.ProgramCounter = pc + 1

	case dxbc.OpEndLoop:
		s.ProgramCounter = scanBackwardToLoop(c, pc)

	case dxbc.OpBreak:
		s.ProgramCounter = scanForwardLoopOrSwitchEnd(c, pc)

	case dxbc.OpBreakC:
		if predicateTrue(s, asm.Operands[0], asm.Opcode, asm.NonZero) {
			s.ProgramCounter = scanForwardLoopOrSwitchEnd(c, pc)
		} else {
			s.ProgramCounter = pc + 1
		}

	case dxbc.OpContinue:
		s.ProgramCounter = scanBackwardToLoop(c, pc)

	case dxbc.OpContinueC:
		if predicateTrue(s, asm.Operands[0], asm.Opcode, asm.NonZero) {
			s.ProgramCounter = scanBackwardToLoop(c, pc)
		} else {
			s.ProgramCounter = pc + 1
		}

	case dxbc.OpRet:
		s.Done = true

	case dxbc.OpRetC:
		if predicateTrue(s, asm.Operands[0], asm.Opcode, asm.NonZero) {
			s.Done = true
		} else {
			s.ProgramCounter = pc + 1
		}

	case dxbc.OpDiscard:
		if predicateTrue(s, asm.Operands[0], asm.Opcode, asm.NonZero) {
			s.Done = true
		} else {
			s.ProgramCounter = pc + 1
		}

	default:
		s.ProgramCounter = pc + 1
	}
}
