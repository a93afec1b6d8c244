package shadervar

// Modifier is an operand source modifier: absolute value, negation, or
// both composed (ABSNEG = Neg(Abs(x))).
type Modifier uint8

const (
	ModNone Modifier = iota
	ModAbs
	ModNeg
	ModAbsNeg
)

// Apply composes the modifier under the given interpretation type. Order
// matches the ISA: ABS is applied first, then NEG.
func Apply(v ShaderVariable, typ VarType, mod Modifier) ShaderVariable {
	switch mod {
	case ModAbs:
		return Abs(v, typ)
	case ModNeg:
		return Neg(v, typ)
	case ModAbsNeg:
		return Neg(Abs(v, typ), typ)
	default:
		return v
	}
}

// Sat applies the saturate result modifier under the given type.
func Sat(v ShaderVariable, typ VarType) ShaderVariable {
	r := v
	r.Type = typ
	switch typ {
	case SInt:
		for i := 0; i < v.Columns; i++ {
			r.SetInt(i, SatSInt(v.Int(i)))
		}
	case UInt:
		for i := 0; i < v.Columns; i++ {
			r.SetUint(i, SatUInt(v.Uint(i)))
		}
	case Float:
		for i := 0; i < v.Columns; i++ {
			r.SetFloat(i, SatFloat(v.Float(i)))
		}
	case Double:
		r.SetDouble(0, SatDouble(v.Double(0)))
		r.SetDouble(1, SatDouble(v.Double(1)))
	}
	return r
}

// Abs applies |x| under the given type. UInt is a no-op (there is no
// signed representation to flip).
func Abs(v ShaderVariable, typ VarType) ShaderVariable {
	r := v
	r.Type = typ
	switch typ {
	case SInt:
		for i := 0; i < v.Columns; i++ {
			x := v.Int(i)
			if x < 0 {
				x = -x
			}
			r.SetInt(i, x)
		}
	case Float:
		for i := 0; i < v.Columns; i++ {
			x := v.Float(i)
			if x < 0 {
				x = -x
			}
			r.SetFloat(i, x)
		}
	case Double:
		for d := 0; d < 2; d++ {
			x := v.Double(d)
			if x < 0 {
				x = -x
			}
			r.SetDouble(d, x)
		}
	}
	return r
}

// Neg applies -x under the given type. UInt is a no-op.
func Neg(v ShaderVariable, typ VarType) ShaderVariable {
	r := v
	r.Type = typ
	switch typ {
	case SInt:
		for i := 0; i < v.Columns; i++ {
			r.SetInt(i, -v.Int(i))
		}
	case Float:
		for i := 0; i < v.Columns; i++ {
			r.SetFloat(i, -v.Float(i))
		}
	case Double:
		for d := 0; d < 2; d++ {
			r.SetDouble(d, -v.Double(d))
		}
	}
	return r
}
