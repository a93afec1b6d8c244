package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shaderdbg/dxbcvm/dxbc"
)

// Load parses a textual fixture at path into a Fixture. The format is a
// line-oriented assembly-like notation:
//
//	; comments start with a semicolon
//	dcl_temps 2
//	dcl_output o0
//	mov r0.xyzw, l(1.0, 2.0, 3.0, 4.0)
//	add o0.xyzw, r0.xyzw, r0.xyzw
//	ret
//
// Operands: r<N> (temp), x<N>[<M>] (indexable temp), o<N> (output),
// v<N> (input), cb<N>[<M>] (constant buffer), icb[<M>] (immediate
// constant buffer), l(a[,b,c,d]) (immediate literal), t<N>/u<N>/s<N>
// (resource/UAV/sampler slot), null. A trailing .mask (e.g. .xyzw,
// .x, .yz) selects components; absent on a destination it defaults to
// a full 4-component write, absent on a source it defaults to an
// identity 4-vector read. Prefix -operand negates, |operand| takes the
// absolute value, and -|operand| composes both. An opcode suffixed
// _sat sets the saturate flag; _nz/_z on IF/BREAKC/CONTINUEC/RETC/
// DISCARD select predicate polarity.
func Load(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// inputSetting seeds one Inputs[index] lane vector.
type inputSetting struct {
	index  uint32
	values [4]float32
}

// cbufferSetting seeds one constant-buffer member.
type cbufferSetting struct {
	reg, member uint32
	values      [4]float32
}

// Fixture is a parsed trace: a ready-to-run Container plus the harness
// values (invocation inputs, cbuffer contents, dispatch semantics) a
// real frontend would otherwise synthesise. Build produces the
// vm.State/vm.Global pair these seed.
type Fixture struct {
	Container dxbc.Container

	inputs    []inputSetting
	cbuffers  []cbufferSetting
	icb       []uint32
	semantics semanticSettings
}

// Parse reads a fixture from r (see Load for the format).
func Parse(r io.Reader) (*Fixture, error) {
	c := &staticContainer{}
	f := &Fixture{Container: c}
	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := stripComment(sc.Text())
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, " ", 2)
		mnemonic := strings.ToLower(fields[0])
		rest := ""
		if len(fields) > 1 {
			rest = fields[1]
		}

		switch {
		case strings.HasPrefix(mnemonic, "dcl_"):
			d, err := parseDecl(mnemonic, rest)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}
			c.decls = append(c.decls, d)
			if d.Kind == dxbc.DeclOutput {
				c.outputSig = append(c.outputSig, dxbc.SignatureEntry{Name: "", ComponentCount: 4})
			}
			if d.Kind == dxbc.DeclConstantBuffer {
				c.cbuffers = append(c.cbuffers, dxbc.CBuffer{Register: declSlotOf(d), Size: d.TempCount})
			}

		case mnemonic == "input":
			setting, err := parseInputSetting(rest)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}
			f.inputs = append(f.inputs, setting)

		case mnemonic == "cbuffer":
			setting, err := parseCBufferSetting(rest)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}
			f.cbuffers = append(f.cbuffers, setting)

		case mnemonic == "icb":
			words, err := parseICBWords(rest)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}
			f.icb = append(f.icb, words...)

		case mnemonic == "semantic":
			if err := applySemantic(&f.semantics, rest); err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}

		default:
			asm, err := parseInstruction(mnemonic, rest)
			if err != nil {
				return nil, fmt.Errorf("trace: line %d: %w", lineNo, err)
			}
			c.instructions = append(c.instructions, asm)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	c.icb = f.icb
	return f, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}

func declSlotOf(d dxbc.Decl) uint32 {
	if len(d.Operand.Indices) == 0 {
		return 0
	}
	return d.Operand.Indices[0].Index
}

var dimKeywords = map[string]dxbc.ResourceDimension{
	"buffer":           dxbc.DimBuffer,
	"texture1d":        dxbc.Dim1D,
	"texture1darray":   dxbc.Dim1DArray,
	"texture2d":        dxbc.Dim2D,
	"texture2darray":   dxbc.Dim2DArray,
	"texture3d":        dxbc.Dim3D,
	"texturecube":      dxbc.DimCube,
	"texturecubearray": dxbc.DimCubeArray,
}

var declKinds = map[string]dxbc.DeclKind{
	"dcl_temps":                                 dxbc.DeclTemps,
	"dcl_indexable_temp":                        dxbc.DeclIndexableTemp,
	"dcl_input":                                 dxbc.DeclInput,
	"dcl_output":                                dxbc.DeclOutput,
	"dcl_constant_buffer":                       dxbc.DeclConstantBuffer,
	"dcl_resource":                              dxbc.DeclResource,
	"dcl_resource_raw":                          dxbc.DeclResourceRaw,
	"dcl_resource_structured":                   dxbc.DeclResourceStructured,
	"dcl_unordered_access_view_typed":           dxbc.DeclUnorderedAccessViewTyped,
	"dcl_unordered_access_view_raw":             dxbc.DeclUnorderedAccessViewRaw,
	"dcl_unordered_access_view_structured":      dxbc.DeclUnorderedAccessViewStructured,
	"dcl_thread_group_shared_memory_raw":        dxbc.DeclThreadGroupSharedMemoryRaw,
	"dcl_thread_group_shared_memory_structured": dxbc.DeclThreadGroupSharedMemoryStructured,
	"dcl_thread_group":                          dxbc.DeclThreadGroup,
	"dcl_sampler":                               dxbc.DeclSampler,
}

func parseDecl(mnemonic, rest string) (dxbc.Decl, error) {
	kind, ok := declKinds[mnemonic]
	if !ok {
		return dxbc.Decl{}, fmt.Errorf("unknown declaration %q", mnemonic)
	}
	args := splitArgs(rest)

	d := dxbc.Decl{Kind: kind}
	switch kind {
	case dxbc.DeclTemps:
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return d, err
		}
		d.NumTemps = uint32(n)
	case dxbc.DeclIndexableTemp:
		reg, count, comps, err := parseIndexableArgs(args)
		if err != nil {
			return d, err
		}
		d.TempReg, d.TempCount, d.TempCompCount = reg, count, comps
	case dxbc.DeclOutput, dxbc.DeclInput, dxbc.DeclResource, dxbc.DeclResourceRaw,
		dxbc.DeclResourceStructured, dxbc.DeclUnorderedAccessViewTyped,
		dxbc.DeclUnorderedAccessViewRaw, dxbc.DeclUnorderedAccessViewStructured, dxbc.DeclSampler:
		if len(args) == 0 {
			return d, fmt.Errorf("%s needs an operand", mnemonic)
		}
		o, err := parseOperand(strings.TrimSpace(args[0]), false)
		if err != nil {
			return d, err
		}
		d.Operand = o
		for _, extra := range args[1:] {
			extra = strings.TrimSpace(extra)
			if dim, ok := dimKeywords[strings.ToLower(extra)]; ok {
				d.Dim = dim
				continue
			}
			if n, err := strconv.Atoi(extra); err == nil {
				d.Stride = uint32(n)
			}
		}
	case dxbc.DeclConstantBuffer:
		reg, size, err := parseCBufferArgs(args)
		if err != nil {
			return d, err
		}
		d.Operand = dxbc.Operand{Type: dxbc.TypeConstantBuffer, Indices: []dxbc.OperandIndex{{Absolute: true, Index: reg}}}
		d.TempCount = size
	case dxbc.DeclThreadGroup:
		for i, a := range args {
			if i >= 3 {
				break
			}
			n, err := strconv.Atoi(strings.TrimSpace(a))
			if err != nil {
				return d, err
			}
			d.GroupSize[i] = uint32(n)
		}
	}
	return d, nil
}

// parseIndexableArgs parses "x0[4,3]" style: register, count, comps.
func parseIndexableArgs(args []string) (reg, count, comps uint32, err error) {
	if len(args) == 0 {
		return 0, 0, 0, fmt.Errorf("dcl_indexable_temp needs arguments")
	}
	first := strings.TrimSpace(args[0])
	name, idxs, rerr := splitIndices(first)
	if rerr != nil {
		return 0, 0, 0, rerr
	}
	if !strings.HasPrefix(name, "x") {
		return 0, 0, 0, fmt.Errorf("expected x<N>, got %q", first)
	}
	r, rerr := strconv.Atoi(name[1:])
	if rerr != nil {
		return 0, 0, 0, rerr
	}
	reg = uint32(r)
	if len(idxs) > 0 {
		count = uint32(idxs[0])
	}
	if len(args) > 1 {
		c, cerr := strconv.Atoi(strings.TrimSpace(args[1]))
		if cerr == nil {
			comps = uint32(c)
		}
	}
	return reg, count, comps, nil
}

// parseCBufferArgs parses "cb0[16]" style: register, member count.
func parseCBufferArgs(args []string) (reg, size uint32, err error) {
	if len(args) == 0 {
		return 0, 0, fmt.Errorf("dcl_constant_buffer needs an operand")
	}
	name, idxs, rerr := splitIndices(strings.TrimSpace(args[0]))
	if rerr != nil {
		return 0, 0, rerr
	}
	if !strings.HasPrefix(name, "cb") {
		return 0, 0, fmt.Errorf("expected cb<N>, got %q", args[0])
	}
	r, rerr := strconv.Atoi(name[2:])
	if rerr != nil {
		return 0, 0, rerr
	}
	reg = uint32(r)
	if len(idxs) > 0 {
		size = uint32(idxs[0])
	}
	return reg, size, nil
}

// splitArgs splits a comma-separated operand list, respecting l(...)
// parens so literal commas inside them aren't treated as separators.
func splitArgs(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(s[start:]) != "" || len(out) > 0 {
		out = append(out, s[start:])
	}
	for i := range out {
		out[i] = strings.TrimSpace(out[i])
	}
	return out
}

// splitIndices splits "name[a][b]" into name and [a,b].
func splitIndices(s string) (name string, indices []int, err error) {
	i := strings.IndexByte(s, '[')
	if i < 0 {
		return s, nil, nil
	}
	name = s[:i]
	rest := s[i:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			break
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, fmt.Errorf("unbalanced [ in %q", s)
		}
		n, perr := strconv.Atoi(strings.TrimSpace(rest[1:end]))
		if perr != nil {
			return "", nil, perr
		}
		indices = append(indices, n)
		rest = rest[end+1:]
	}
	return name, indices, nil
}
