package trace

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shaderdbg/dxbcvm/dxbc"
)

func floatBits(f float32) uint32 { return math.Float32bits(f) }

var opcodeNames = map[string]dxbc.Opcode{
	"mov": dxbc.OpMov, "movc": dxbc.OpMovc, "swapc": dxbc.OpSwapc,
	"add": dxbc.OpAdd, "mul": dxbc.OpMul, "div": dxbc.OpDiv, "mad": dxbc.OpMad,
	"dp2": dxbc.OpDP2, "dp3": dxbc.OpDP3, "dp4": dxbc.OpDP4, "frc": dxbc.OpFrc,
	"rcp": dxbc.OpRcp, "rsq": dxbc.OpRsq, "sqrt": dxbc.OpSqrt, "exp": dxbc.OpExp, "log": dxbc.OpLog,
	"sincos":   dxbc.OpSinCos,
	"round_pi": dxbc.OpRoundPI, "round_ni": dxbc.OpRoundNI, "round_z": dxbc.OpRoundZ, "round_ne": dxbc.OpRoundNE,
	"min": dxbc.OpMin, "max": dxbc.OpMax, "ineg": dxbc.OpINeg,

	"dadd": dxbc.OpDAdd, "dmul": dxbc.OpDMul, "ddiv": dxbc.OpDDiv,
	"dmax": dxbc.OpDMax, "dmin": dxbc.OpDMin, "dmov": dxbc.OpDMov, "dmovc": dxbc.OpDMovc,

	"iadd": dxbc.OpIAdd, "imul": dxbc.OpIMul, "umul": dxbc.OpUMul, "udiv": dxbc.OpUDiv,
	"imad": dxbc.OpIMad, "umad": dxbc.OpUMad, "uaddc": dxbc.OpUAddC, "usubb": dxbc.OpUSubB,
	"ishl": dxbc.OpIShl, "ishr": dxbc.OpIShr, "ushr": dxbc.OpUShr,
	"ibfe": dxbc.OpIBfe, "ubfe": dxbc.OpUBfe, "bfi": dxbc.OpBfi, "bfrev": dxbc.OpBfrev,
	"countbits":   dxbc.OpCountBits,
	"firstbit_hi": dxbc.OpFirstBitHi, "firstbit_lo": dxbc.OpFirstBitLo, "firstbit_shi": dxbc.OpFirstBitShi,
	"imin": dxbc.OpIMin, "imax": dxbc.OpIMax, "umin": dxbc.OpUMin, "umax": dxbc.OpUMax,

	"itof": dxbc.OpItoF, "utof": dxbc.OpUtoF, "ftoi": dxbc.OpFtoI, "ftou": dxbc.OpFtoU,
	"itod": dxbc.OpItoD, "utod": dxbc.OpUtoD, "ftod": dxbc.OpFtoD,
	"dtoi": dxbc.OpDtoI, "dtou": dxbc.OpDtoU, "dtof": dxbc.OpDtoF,
	"f16tof32": dxbc.OpF16toF32, "f32tof16": dxbc.OpF32toF16,

	"eq": dxbc.OpEq, "ne": dxbc.OpNe, "lt": dxbc.OpLt, "ge": dxbc.OpGe,
	"ieq": dxbc.OpIEq, "ine": dxbc.OpINe, "ilt": dxbc.OpILt, "ige": dxbc.OpIGe,
	"ult": dxbc.OpULt, "uge": dxbc.OpUGe,
	"deq": dxbc.OpDEq, "dne": dxbc.OpDNe, "dlt": dxbc.OpDLt, "dge": dxbc.OpDGe,

	"and": dxbc.OpAnd, "or": dxbc.OpOr, "xor": dxbc.OpXor, "not": dxbc.OpNot,

	"deriv_rtx": dxbc.OpDerivRtx, "deriv_rtx_coarse": dxbc.OpDerivRtxCoarse, "deriv_rtx_fine": dxbc.OpDerivRtxFine,
	"deriv_rty": dxbc.OpDerivRty, "deriv_rty_coarse": dxbc.OpDerivRtyCoarse, "deriv_rty_fine": dxbc.OpDerivRtyFine,

	"ld_raw": dxbc.OpLdRaw, "store_raw": dxbc.OpStoreRaw,
	"ld_structured": dxbc.OpLdStructured, "store_structured": dxbc.OpStoreStructured,
	"ld_uav_typed": dxbc.OpLdUavTyped, "store_uav_typed": dxbc.OpStoreUavTyped,
	"ld": dxbc.OpLd, "ld_ms": dxbc.OpLdMS,

	"atomic_iadd": dxbc.OpAtomicIAdd, "atomic_imax": dxbc.OpAtomicIMax, "atomic_imin": dxbc.OpAtomicIMin,
	"atomic_umax": dxbc.OpAtomicUMax, "atomic_umin": dxbc.OpAtomicUMin,
	"atomic_and": dxbc.OpAtomicAnd, "atomic_or": dxbc.OpAtomicOr, "atomic_xor": dxbc.OpAtomicXor,
	"atomic_cmp_store": dxbc.OpAtomicCmpStore,

	"imm_atomic_iadd": dxbc.OpImmAtomicIAdd, "imm_atomic_imax": dxbc.OpImmAtomicIMax, "imm_atomic_imin": dxbc.OpImmAtomicIMin,
	"imm_atomic_umax": dxbc.OpImmAtomicUMax, "imm_atomic_umin": dxbc.OpImmAtomicUMin,
	"imm_atomic_and": dxbc.OpImmAtomicAnd, "imm_atomic_or": dxbc.OpImmAtomicOr, "imm_atomic_xor": dxbc.OpImmAtomicXor,
	"imm_atomic_exch": dxbc.OpImmAtomicExch, "imm_atomic_cmp_exch": dxbc.OpImmAtomicCmpExch,
	"imm_atomic_alloc": dxbc.OpImmAtomicAlloc, "imm_atomic_consume": dxbc.OpImmAtomicConsume,

	"sample": dxbc.OpSample, "sample_l": dxbc.OpSampleL, "sample_b": dxbc.OpSampleB, "sample_d": dxbc.OpSampleD,
	"sample_c": dxbc.OpSampleC, "sample_c_lz": dxbc.OpSampleCLZ,
	"gather4": dxbc.OpGather4, "gather4_c": dxbc.OpGather4C, "gather4_po": dxbc.OpGather4PO, "gather4_po_c": dxbc.OpGather4POC,
	"lod": dxbc.OpLOD, "sample_info": dxbc.OpSampleInfo, "sample_pos": dxbc.OpSamplePos,
	"bufinfo": dxbc.OpBufInfo, "resinfo": dxbc.OpResInfo,

	"if": dxbc.OpIf, "else": dxbc.OpElse, "endif": dxbc.OpEndIf,
	"switch": dxbc.OpSwitch, "case": dxbc.OpCase, "default": dxbc.OpDefault, "endswitch": dxbc.OpEndSwitch,
	"loop": dxbc.OpLoop, "endloop": dxbc.OpEndLoop,
	"break": dxbc.OpBreak, "breakc": dxbc.OpBreakC,
	"continue": dxbc.OpContinue, "continuec": dxbc.OpContinueC,
	"ret": dxbc.OpRet, "retc": dxbc.OpRetC, "discard": dxbc.OpDiscard,

	"nop": dxbc.OpNop, "sync": dxbc.OpSync,
}

// predicatedOps take an _nz/_z polarity suffix instead of one of their
// own; the base name (without the suffix) is the map key above.
var predicatedOps = map[string]bool{
	"if": true, "breakc": true, "continuec": true, "retc": true, "discard": true,
}

// twoDestOps names opcodes whose first two operands are both
// destinations (see vm/arithmetic.go, vm/integer.go, vm/move.go).
var twoDestOps = map[dxbc.Opcode]bool{
	dxbc.OpSinCos: true, dxbc.OpIMul: true, dxbc.OpUMul: true, dxbc.OpUDiv: true,
	dxbc.OpUAddC: true, dxbc.OpUSubB: true, dxbc.OpSwapc: true,
}

// zeroDestOps names opcodes with no destination operand at all: every
// operand is read via GetSrc, including resource/UAV slot operands
// (vm/resource.go, vm/atomic.go).
var zeroDestOps = map[dxbc.Opcode]bool{
	dxbc.OpStoreRaw: true, dxbc.OpStoreStructured: true, dxbc.OpStoreUavTyped: true,
	dxbc.OpAtomicIAdd: true, dxbc.OpAtomicIMax: true, dxbc.OpAtomicIMin: true,
	dxbc.OpAtomicUMax: true, dxbc.OpAtomicUMin: true, dxbc.OpAtomicAnd: true,
	dxbc.OpAtomicOr: true, dxbc.OpAtomicXor: true, dxbc.OpAtomicCmpStore: true,
	dxbc.OpIf: true, dxbc.OpBreakC: true, dxbc.OpContinueC: true, dxbc.OpRetC: true,
	dxbc.OpDiscard: true, dxbc.OpSwitch: true, dxbc.OpCase: true,
}

func destCount(op dxbc.Opcode) int {
	switch {
	case zeroDestOps[op]:
		return 0
	case twoDestOps[op]:
		return 2
	default:
		return 1
	}
}

// parseInstruction parses one non-declaration line into an ASMOperation.
func parseInstruction(mnemonic, rest string) (dxbc.ASMOperation, error) {
	asm := dxbc.ASMOperation{Str: strings.TrimSpace(mnemonic + " " + rest)}

	name := mnemonic
	if strings.HasSuffix(name, "_sat") {
		asm.Saturate = true
		name = strings.TrimSuffix(name, "_sat")
	}

	nonZero, hasPolarity := false, false
	for _, base := range []string{"if", "breakc", "continuec", "retc", "discard"} {
		if name == base+"_nz" {
			name, nonZero, hasPolarity = base, true, true
		} else if name == base+"_z" {
			name, nonZero, hasPolarity = base, false, true
		}
	}
	if predicatedOps[name] && !hasPolarity {
		nonZero = true
	}
	asm.NonZero = nonZero

	op, ok := opcodeNames[name]
	if !ok {
		return asm, fmt.Errorf("unknown opcode %q", mnemonic)
	}
	asm.Opcode = op

	args := splitArgs(rest)
	nDst := destCount(op)
	for i, a := range args {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		o, err := parseOperand(a, i < nDst)
		if err != nil {
			return asm, fmt.Errorf("operand %d (%q): %w", i, a, err)
		}
		asm.Operands = append(asm.Operands, o)
	}
	return asm, nil
}

// parseOperand parses one operand token such as "-r0.xyz", "|cb0[2].x|",
// "l(1.0,2.0,3.0,4.0)", or "t0". isDest selects write-mask semantics
// over swizzle semantics for the trailing .mask.
func parseOperand(tok string, isDest bool) (dxbc.Operand, error) {
	neg := false
	if strings.HasPrefix(tok, "-") {
		neg = true
		tok = tok[1:]
	}
	abs := false
	if strings.HasPrefix(tok, "|") && strings.HasSuffix(tok, "|") && len(tok) > 1 {
		abs = true
		tok = tok[1 : len(tok)-1]
	}

	o := dxbc.Operand{Modifier: combineModifier(neg, abs)}

	if strings.HasPrefix(tok, "l(") && strings.HasSuffix(tok, ")") {
		return parseLiteral(tok, o)
	}
	if tok == "null" {
		o.Type = dxbc.TypeNull
		o.Comps = defaultComps(isDest)
		return o, nil
	}

	synthetic := map[string]dxbc.OperandType{
		"vThreadGroupID":            dxbc.TypeInputThreadGroupID,
		"vThreadID":                 dxbc.TypeInputThreadID,
		"vThreadIDInGroup":          dxbc.TypeInputThreadIDInGroup,
		"vThreadIDInGroupFlattened": dxbc.TypeInputThreadIDInGroupFlattened,
		"vCoverage":                 dxbc.TypeInputCoverageMask,
		"vPrimitiveID":              dxbc.TypeInputPrimitiveID,
		"oDepth":                    dxbc.TypeOutputDepth,
		"oStencilRef":               dxbc.TypeOutputStencilRef,
		"oMask":                     dxbc.TypeOutputCoverageMask,
	}

	base, maskStr := splitMask(tok)
	name, idxs, err := splitIndices(base)
	if err != nil {
		return o, err
	}

	if t, ok := synthetic[name]; ok {
		o.Type = t
		o.Comps = maskComps(maskStr, isDest)
		return o, nil
	}

	if name == "icb" {
		o.Type = dxbc.TypeImmediateConstantBuffer
		member := 0
		if len(idxs) > 0 {
			member = idxs[0]
		}
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: uint32(member)}}
		o.Comps = maskComps(maskStr, isDest)
		return o, nil
	}

	var prefix byte
	if len(name) > 0 {
		prefix = name[0]
	}
	numIdx, ok := leadingNumber(name)
	if !ok {
		return o, fmt.Errorf("unrecognised operand %q", tok)
	}

	switch {
	case strings.HasPrefix(name, "x"):
		o.Type = dxbc.TypeIndexableTemp
		member := uint32(0)
		if len(idxs) > 0 {
			member = uint32(idxs[0])
		}
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}, {Absolute: true, Index: member}}
	case strings.HasPrefix(name, "cb"):
		o.Type = dxbc.TypeConstantBuffer
		member := uint32(0)
		if len(idxs) > 0 {
			member = uint32(idxs[0])
		}
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}, {Absolute: true, Index: member}}
	case prefix == 'r':
		o.Type = dxbc.TypeTemp
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	case prefix == 'o':
		o.Type = dxbc.TypeOutput
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	case prefix == 'v':
		o.Type = dxbc.TypeInput
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	case prefix == 't':
		o.Type = dxbc.TypeResource
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	case prefix == 'u':
		o.Type = dxbc.TypeUnorderedAccessView
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	case prefix == 's':
		o.Type = dxbc.TypeSampler
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	case prefix == 'g':
		o.Type = dxbc.TypeThreadGroupSharedMemory
		o.Indices = []dxbc.OperandIndex{{Absolute: true, Index: numIdx}}
	default:
		return o, fmt.Errorf("unrecognised operand %q", tok)
	}

	o.Comps = maskComps(maskStr, isDest)
	return o, nil
}

func combineModifier(neg, abs bool) dxbc.Modifier {
	switch {
	case neg && abs:
		return dxbc.ModAbsNeg
	case abs:
		return dxbc.ModAbs
	case neg:
		return dxbc.ModNeg
	default:
		return dxbc.ModNone
	}
}

// leadingNumber reads the run of digits directly after a single
// alphabetic prefix ("r0" -> 0, "cb12" -> 12).
func leadingNumber(name string) (uint32, bool) {
	i := 0
	for i < len(name) && (name[i] < '0' || name[i] > '9') {
		i++
	}
	if i >= len(name) {
		return 0, false
	}
	n, err := strconv.Atoi(name[i:])
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// splitMask separates a trailing ".mask" from the rest of the operand,
// ignoring any dot that falls inside a [...] index.
func splitMask(tok string) (base, mask string) {
	depth := 0
	for i := 0; i < len(tok); i++ {
		switch tok[i] {
		case '[':
			depth++
		case ']':
			depth--
		case '.':
			if depth == 0 {
				return tok[:i], tok[i+1:]
			}
		}
	}
	return tok, ""
}

var componentIndex = map[byte]uint8{'x': 0, 'y': 1, 'z': 2, 'w': 3}

func defaultComps(isDest bool) [4]uint8 {
	if isDest {
		return [4]uint8{0, 1, 2, 3}
	}
	return [4]uint8{0xff, 0xff, 0xff, 0xff}
}

// maskComps turns a ".xyzw"-style mask string into Operand.Comps under
// destination (write-mask) or source (swizzle) rules; see Load's doc
// comment in parse.go for the convention.
func maskComps(mask string, isDest bool) [4]uint8 {
	if mask == "" {
		return defaultComps(isDest)
	}
	comps := [4]uint8{0xff, 0xff, 0xff, 0xff}
	if isDest {
		for i := 0; i < 4; i++ {
			comps[i] = 0xff
		}
		for _, c := range []byte(mask) {
			if idx, ok := componentIndex[c]; ok {
				comps[idx] = idx
			}
		}
		return comps
	}
	for i, c := range []byte(mask) {
		if i >= 4 {
			break
		}
		if idx, ok := componentIndex[c]; ok {
			comps[i] = idx
		}
	}
	return comps
}

func parseLiteral(tok string, o dxbc.Operand) (dxbc.Operand, error) {
	inner := tok[2 : len(tok)-1]
	parts := strings.Split(inner, ",")
	o.Type = dxbc.TypeImmediate32
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		bits, err := parseLiteralWord(p)
		if err != nil {
			return o, err
		}
		o.Values = append(o.Values, bits)
	}
	switch len(o.Values) {
	case 1:
		o.NumComponents = dxbc.NumComps1
	case 4:
		o.NumComponents = dxbc.NumComps4
	default:
		return o, fmt.Errorf("l() needs 1 or 4 components, got %d", len(o.Values))
	}
	o.Comps = defaultComps(false)
	return o, nil
}

// parseLiteralWord encodes one l() component: a token with a decimal
// point or exponent is read as a float32 and stored as its bit
// pattern; a bare integer is stored verbatim as its own bit pattern,
// so the same literal can feed either a float or an integer opcode.
func parseLiteralWord(tok string) (uint32, error) {
	if strings.ContainsAny(tok, ".eE") && !strings.HasPrefix(strings.ToLower(tok), "0x") {
		f, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return 0, err
		}
		return floatBits(float32(f)), nil
	}
	n, err := strconv.ParseInt(tok, 0, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(tok, 32)
		if ferr != nil {
			return 0, err
		}
		return floatBits(float32(f)), nil
	}
	return uint32(n), nil
}
