package swiftsrc

import (
	"strconv"
	"strings"

	"soyc/internal/plugin"
	"soyc/internal/types"
)

const (
	precTernary = iota + 1
	precOr
	precAnd
	precCompare
	precNilCoalesce
	precAdditive
	precMultiplicative
	precPrefix
	precAtom
)

var binaryPrec = map[string]int{
	"||": precOr, "&&": precAnd,
	"==": precCompare, "!=": precCompare, "<": precCompare, "<=": precCompare,
	">": precCompare, ">=": precCompare,
	"??": precNilCoalesce,
	"+":  precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
}

// Value is a Swift expression with its native type.
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

// ValueFactory builds Swift values for plugin implementations.
type ValueFactory struct {
	in *types.Interner
}

func NewValueFactory(in *types.Interner) *ValueFactory {
	return &ValueFactory{in: in}
}

func atom(code string, t Type) Value { return Value{code: code, typ: t, prec: precAtom} }

func (f *ValueFactory) Null() Value { return atom("nil", Nil) }

func (f *ValueFactory) Bool(b bool) Value { return atom(strconv.FormatBool(b), Bool) }

func (f *ValueFactory) Int(n int64) Value {
	v := atom(strconv.FormatInt(n, 10), Int)
	if n < 0 {
		v.prec = precPrefix
	}
	return v
}

func (f *ValueFactory) Float(x float64) Value {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	v := atom(s, Double)
	if x < 0 {
		v.prec = precPrefix
	}
	return v
}

func (f *ValueFactory) String(s string) Value { return atom(quote(s), String) }

func (f *ValueFactory) List(items ...Value) Value {
	return atom("["+joinCode(items)+"]", ArrayOf(commonType(items)))
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

// Map builds a dictionary literal.
func (f *ValueFactory) Map(entries ...Entry) Value {
	if len(entries) == 0 {
		return atom("[:]", DictionaryOf(Any, Any))
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Key.code + ": " + e.Value.code
	}
	keys, values := splitEntries(entries)
	return atom("["+strings.Join(parts, ", ")+"]", DictionaryOf(commonType(keys), commonType(values)))
}

// Param reads a template parameter of bound type t.
func (f *ValueFactory) Param(name string, t types.TypeID) Value {
	return atom("params."+name, FromBound(f.in, t))
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
		p = precTernary
	}
	return Value{code: lhs.operand(p) + " " + op + " " + rhs.operand(p+1), typ: t, prec: p}
}

func (f *ValueFactory) FromBound(t types.TypeID) Type { return FromBound(f.in, t) }

// Coerce converts v to the representation of t. Int to Double needs an
// explicit initializer; everything else only widens the static type.
func (f *ValueFactory) Coerce(v Value, t types.TypeID) Value {
	want := f.FromBound(t)
	if want.Kind == KindDouble && v.typ.Kind == KindInt {
		if v.typ.Optional {
			return atom(v.operand(precAtom)+".map(Double.init)", want)
		}
		return atom("Double("+v.code+")", want)
	}
	return v.As(want)
}

func commonType(vs []Value) Type {
	if len(vs) == 0 {
		return Any
	}
	t := vs[0].typ
	for _, v := range vs[1:] {
		if v.typ.String() != t.String() {
			return Any
		}
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
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
