package jssrc

import (
	"strconv"
	"strings"

	"soyc/internal/plugin"
	"soyc/internal/types"
)

// precedence levels, loosely following the ECMAScript operator table
const (
	precOr = iota + 1
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precAtom
)

var binaryPrec = map[string]int{
	"||": precOr, "&&": precAnd,
	"==": precEquality, "!=": precEquality, "===": precEquality, "!==": precEquality,
	"<": precRelational, "<=": precRelational, ">": precRelational, ">=": precRelational,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
}

// Value is a JavaScript expression with its native type.
type Value struct {
	code string
	typ  Type
	prec int
}

func (v Value) Native() plugin.NativeType { return v.typ }
func (v Value) Code() string              { return v.code }
func (v Value) Type() Type                { return v.typ }
func (v Value) String() string            { return v.code }

// As returns v relabelled with t; the expression is unchanged.
func (v Value) As(t Type) Value {
	v.typ = t
	return v
}

func (v Value) operand(min int) string {
	if v.prec < min {
		return "(" + v.code + ")"
	}
	return v.code
}

// ValueFactory builds JavaScript values for plugin implementations.
type ValueFactory struct {
	in *types.Interner
}

func NewValueFactory(in *types.Interner) *ValueFactory {
	return &ValueFactory{in: in}
}

func atom(code string, t Type) Value { return Value{code: code, typ: t, prec: precAtom} }

func (f *ValueFactory) Null() Value { return atom("null", Null) }

func (f *ValueFactory) Bool(b bool) Value { return atom(strconv.FormatBool(b), Boolean) }

func (f *ValueFactory) Int(n int64) Value {
	v := atom(strconv.FormatInt(n, 10), Integer)
	if n < 0 {
		v.prec = precUnary
	}
	return v
}

func (f *ValueFactory) Float(x float64) Value {
	v := atom(strconv.FormatFloat(x, 'g', -1, 64), Number)
	if x < 0 {
		v.prec = precUnary
	}
	return v
}

func (f *ValueFactory) String(s string) Value { return atom(quote(s), String) }

// List builds an array literal; the element type is the common type of the
// items or "*".
func (f *ValueFactory) List(items ...Value) Value {
	parts := make([]string, len(items))
	elem := commonType(items)
	for i, it := range items {
		parts[i] = it.code
	}
	return atom("["+strings.Join(parts, ", ")+"]", ArrayOf(elem))
}

// Entry is one key/value pair of a map literal.
type Entry struct {
	Key, Value Value
}

func splitEntries(entries []Entry) (keys, values []Value) {
	keys = make([]Value, len(entries))
	values = make([]Value, len(entries))
	for i, e := range entries {
		keys[i], values[i] = e.Key, e.Value
	}
	return keys, values
}

// Map builds an ES6 Map literal.
func (f *ValueFactory) Map(entries ...Entry) Value {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = "[" + e.Key.code + ", " + e.Value.code + "]"
	}
	keys, values := splitEntries(entries)
	return atom("new Map(["+strings.Join(parts, ", ")+"])", ObjectOf(commonType(keys), commonType(values)))
}

// Param reads a template parameter of bound type t.
func (f *ValueFactory) Param(name string, t types.TypeID) Value {
	return atom("opt_data."+name, FromBound(f.in, t))
}

// Global references a global symbol.
func (f *ValueFactory) Global(name string, t Type) Value { return atom(name, t) }

// Call invokes the global function name.
func (f *ValueFactory) Call(name string, ret Type, args ...Value) Value {
	return atom(name+"("+joinCode(args)+")", ret)
}

// Method invokes a method on recv.
func (f *ValueFactory) Method(recv Value, name string, ret Type, args ...Value) Value {
	return atom(recv.operand(precAtom)+"."+name+"("+joinCode(args)+")", ret)
}

// Property reads a property of recv.
func (f *ValueFactory) Property(recv Value, name string, t Type) Value {
	return atom(recv.operand(precAtom)+"."+name, t)
}

// Binary combines two values with an infix operator.
func (f *ValueFactory) Binary(op string, lhs, rhs Value, t Type) Value {
	p, ok := binaryPrec[op]
	if !ok {
		p = precOr
	}
	return Value{code: lhs.operand(p) + " " + op + " " + rhs.operand(p+1), typ: t, prec: p}
}

// FromBound maps a template type to its native representation.
func (f *ValueFactory) FromBound(t types.TypeID) Type { return FromBound(f.in, t) }

// Coerce converts v to the representation of t. JavaScript numbers and
// strings need no conversion code, so only the type label changes.
func (f *ValueFactory) Coerce(v Value, t types.TypeID) Value { return v.As(f.FromBound(t)) }

func commonType(vs []Value) Type {
	if len(vs) == 0 {
		return Any
	}
	t := vs[0].typ
	for _, v := range vs[1:] {
		if v.typ.String() != t.String() {
			if isNumeric(v.typ) && isNumeric(t) {
				t = Number
				continue
			}
			return Any
		}
	}
	return t
}

func isNumeric(t Type) bool {
	return !t.Nullable && (t.Kind == KindInteger || t.Kind == KindNumber)
}

func joinCode(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.code
	}
	return strings.Join(parts, ", ")
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
