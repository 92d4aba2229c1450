// Package pysrc is the Python backend.
package pysrc

import (
	"soyc/internal/backend"
	"soyc/internal/types"
)

// Kind is a Python runtime representation.
type Kind uint8

const (
	// KindObject is any Python object, None included.
	KindObject Kind = iota
	KindNone
	KindBool
	KindInt
	// KindFloat values also accept ints; Python arithmetic mixes them freely.
	KindFloat
	KindStr
	KindSanitized
	KindList
	KindDict
)

// Type is a native Python type in typing-module notation.
type Type struct {
	Kind     Kind
	Elem     *Type
	Key      *Type
	Optional bool
}

var (
	Object    = Type{Kind: KindObject}
	None      = Type{Kind: KindNone}
	Bool      = Type{Kind: KindBool}
	Int       = Type{Kind: KindInt}
	Float     = Type{Kind: KindFloat}
	Str       = Type{Kind: KindStr}
	Sanitized = Type{Kind: KindSanitized}
)

func ListOf(elem Type) Type { return Type{Kind: KindList, Elem: &elem} }

func DictOf(key, value Type) Type { return Type{Kind: KindDict, Key: &key, Elem: &value} }

func (t Type) OrNone() Type {
	if t.Kind != KindObject && t.Kind != KindNone {
		t.Optional = true
	}
	return t
}

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindObject:
		return "Any"
	case KindNone:
		return "None"
	case KindBool:
		s = "bool"
	case KindInt:
		s = "int"
	case KindFloat:
		s = "float"
	case KindStr:
		s = "str"
	case KindSanitized:
		s = "sanitize.SanitizedContent"
	case KindList:
		s = "List[" + orObject(t.Elem).String() + "]"
	case KindDict:
		s = "Dict[" + orObject(t.Key).String() + ", " + orObject(t.Elem).String() + "]"
	}
	if t.Optional {
		return "Optional[" + s + "]"
	}
	return s
}

func orObject(t *Type) Type {
	if t == nil {
		return Object
	}
	return *t
}

func (t Type) Covers(in *types.Interner, want types.TypeID) bool {
	if t.Kind == KindObject {
		return true
	}
	return backend.CoversMembers(in, want, t.Optional || t.Kind == KindNone, func(m types.Type) bool {
		switch m.Kind {
		case types.KindBool:
			return t.Kind == KindBool
		case types.KindInt:
			return t.Kind == KindInt || t.Kind == KindFloat
		case types.KindFloat:
			return t.Kind == KindFloat
		case types.KindString:
			return t.Kind == KindStr || t.Kind == KindSanitized
		case types.KindHTML, types.KindAttributes, types.KindURI,
			types.KindTrustedResourceURI, types.KindJS, types.KindCSS:
			return t.Kind == KindSanitized
		case types.KindList:
			return t.Kind == KindList && orObject(t.Elem).Covers(in, m.Elem)
		case types.KindMap:
			return t.Kind == KindDict &&
				orObject(t.Key).Covers(in, m.Key) &&
				orObject(t.Elem).Covers(in, m.Elem)
		}
		return false
	})
}

func (t Type) Bound(in *types.Interner) types.TypeID {
	b := in.Builtins()
	var id types.TypeID
	switch t.Kind {
	case KindObject:
		return b.Unknown
	case KindNone:
		return b.Null
	case KindBool:
		id = b.Bool
	case KindInt:
		id = b.Int
	case KindFloat:
		id = b.Number
	case KindStr:
		id = b.String
	case KindSanitized:
		id = backend.SanitizedBound(in)
	case KindList:
		id = in.List(orObject(t.Elem).Bound(in))
	case KindDict:
		id = in.Map(orObject(t.Key).Bound(in), orObject(t.Elem).Bound(in))
	}
	return backend.OrNull(in, id, t.Optional)
}

// FromBound picks the native type used for values of the template type t.
func FromBound(in *types.Interner, t types.TypeID) Type {
	tt, ok := in.Lookup(t)
	if !ok {
		return Object
	}
	switch tt.Kind {
	case types.KindNull:
		return None
	case types.KindBool:
		return Bool
	case types.KindInt:
		return Int
	case types.KindFloat:
		return Float
	case types.KindString:
		return Str
	case types.KindHTML, types.KindAttributes, types.KindURI,
		types.KindTrustedResourceURI, types.KindJS, types.KindCSS:
		return Sanitized
	case types.KindList:
		return ListOf(FromBound(in, tt.Elem))
	case types.KindMap:
		return DictOf(FromBound(in, tt.Key), FromBound(in, tt.Elem))
	case types.KindUnion:
		nonNull := in.NonNull(t)
		var out Type
		switch {
		case nonNull == in.Builtins().Number:
			out = Float
		case in.Kind(nonNull) == types.KindUnion:
			out = Sanitized
			for _, m := range in.Members(nonNull) {
				if !in.Kind(m).IsStringLike() {
					return Object
				}
			}
		default:
			out = FromBound(in, nonNull)
		}
		if nonNull != t {
			return out.OrNone()
		}
		return out
	}
	return Object
}
