package dxbc

// ResInfoReturnType selects RESINFO's output interpretation.
type ResInfoReturnType int

const (
	ResInfoUInt ResInfoReturnType = iota
	ResInfoFloat
	ResInfoRcpFloat
)

// ASMOperation is one decoded instruction. Operands[0] is the
// destination for opcodes that write a result; source operands follow.
// Some opcodes (e.g. UDIV, IMUL, UADDC) have two destination operands;
// by convention those appear first, in declaration order.
type ASMOperation struct {
	Opcode      Opcode
	Operands    []Operand
	Saturate    bool
	NonZero     bool // predicate polarity for IF/BREAKC/CONTINUEC/RETC/DISCARD
	Stride      uint32
	TexelOffset [3]int32

	ResInfoReturnType ResInfoReturnType

	Str string // debug text, e.g. for add_debug_message callers
}
