package pysrc

import (
	"strconv"
	"strings"

	"soyc/internal/plugin"
	"soyc/internal/types"
)

const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precAtom
)

var binaryPrec = map[string]int{
	"or": precOr, "and": precAnd,
	"==": precCompare, "!=": precCompare, "<": precCompare, "<=": precCompare,
	">": precCompare, ">=": precCompare, "in": precCompare, "not in": precCompare,
	"is": precCompare, "is not": precCompare,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "//": precMultiplicative, "%": precMultiplicative,
}

// Value is a Python expression with its native type.
type Value struct {
	code string
	typ  Type
	prec int
}

func (v Value) Native() plugin.NativeType { return v.typ }
func (v Value) Code() string              { return v.code }
func (v Value) Type() Type                { return v.typ }
func (v Value) String() string            { return v.code }

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

// ValueFactory builds Python values for plugin implementations.
type ValueFactory struct {
	in *types.Interner
}

func NewValueFactory(in *types.Interner) *ValueFactory {
	return &ValueFactory{in: in}
}

func atom(code string, t Type) Value { return Value{code: code, typ: t, prec: precAtom} }

func (f *ValueFactory) Null() Value { return atom("None", None) }

func (f *ValueFactory) Bool(b bool) Value {
	if b {
		return atom("True", Bool)
	}
	return atom("False", Bool)
}

func (f *ValueFactory) Int(n int64) Value {
	v := atom(strconv.FormatInt(n, 10), Int)
	if n < 0 {
		v.prec = precUnary
	}
	return v
}

func (f *ValueFactory) Float(x float64) Value {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	v := atom(s, Float)
	if x < 0 {
		v.prec = precUnary
	}
	return v
}

func (f *ValueFactory) String(s string) Value { return atom(quote(s), Str) }

func (f *ValueFactory) List(items ...Value) Value {
	return atom("["+joinCode(items)+"]", ListOf(commonType(items)))
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

// Map builds a dict literal.
func (f *ValueFactory) Map(entries ...Entry) Value {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Key.code + ": " + e.Value.code
	}
	keys, values := splitEntries(entries)
	return atom("{"+strings.Join(parts, ", ")+"}", DictOf(commonType(keys), commonType(values)))
}

// Param reads a template parameter of bound type t.
func (f *ValueFactory) Param(name string, t types.TypeID) Value {
	return atom("data.get("+quote(name)+")", FromBound(f.in, t))
}

func (f *ValueFactory) Global(name string, t Type) Value { return atom(name, t) }

func (f *ValueFactory) Call(name string, ret Type, args ...Value) Value {
	return atom(name+"("+joinCode(args)+")", ret)
}

func (f *ValueFactory) Method(recv Value, name string, ret Type, args ...Value) Value {
	return atom(recv.operand(precAtom)+"."+name+"("+joinCode(args)+")", ret)
}

func (f *ValueFactory) Property(recv Value, name string, t Type) Value {
	return atom(recv.operand(precAtom)+"."+name, t)
}

func (f *ValueFactory) Binary(op string, lhs, rhs Value, t Type) Value {
	p, ok := binaryPrec[op]
	if !ok {
		p = precOr
	}
	return Value{code: lhs.operand(p) + " " + op + " " + rhs.operand(p+1), typ: t, prec: p}
}

func (f *ValueFactory) FromBound(t types.TypeID) Type { return FromBound(f.in, t) }

// Coerce relabels v as the representation of t. Python ints are accepted
// wherever floats are, so no conversion code is emitted.
func (f *ValueFactory) Coerce(v Value, t types.TypeID) Value { return v.As(f.FromBound(t)) }

func commonType(vs []Value) Type {
	if len(vs) == 0 {
		return Object
	}
	t := vs[0].typ
	for _, v := range vs[1:] {
		if v.typ.String() == t.String() {
			continue
		}
		if (v.typ.Kind == KindInt || v.typ.Kind == KindFloat) && (t.Kind == KindInt || t.Kind == KindFloat) &&
			!v.typ.Optional && !t.Optional {
			t = Float
			continue
		}
		return Object
	}
	return t
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
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
