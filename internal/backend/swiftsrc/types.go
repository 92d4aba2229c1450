// Package swiftsrc is the Swift backend. Unlike the script backends Swift
// separates Int from Double and only Optional types admit nil, so argument
// conversion emits code here.
package swiftsrc

import (
	"soyc/internal/backend"
	"soyc/internal/types"
)

type Kind uint8

const (
	KindAny Kind = iota
	// KindNil is the type of the nil literal.
	KindNil
	KindBool
	KindInt
	KindDouble
	KindString
	KindSanitized
	KindArray
	KindDictionary
)

// Type is a native Swift type.
type Type struct {
	Kind     Kind
	Elem     *Type
	Key      *Type
	Optional bool
}

var (
	Any       = Type{Kind: KindAny}
	Nil       = Type{Kind: KindNil}
	Bool      = Type{Kind: KindBool}
	Int       = Type{Kind: KindInt}
	Double    = Type{Kind: KindDouble}
	String    = Type{Kind: KindString}
	Sanitized = Type{Kind: KindSanitized}
)

func ArrayOf(elem Type) Type { return Type{Kind: KindArray, Elem: &elem} }

func DictionaryOf(key, value Type) Type { return Type{Kind: KindDictionary, Key: &key, Elem: &value} }

func (t Type) OrNil() Type {
	if t.Kind != KindNil {
		t.Optional = true
	}
	return t
}

// Wrapped strips Optional.
func (t Type) Wrapped() Type {
	t.Optional = false
	return t
}

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindAny:
		s = "Any"
	case KindNil:
		return "nil"
	case KindBool:
		s = "Bool"
	case KindInt:
		s = "Int"
	case KindDouble:
		s = "Double"
	case KindString:
		s = "String"
	case KindSanitized:
		s = "SoySanitizedContent"
	case KindArray:
		s = "[" + orAny(t.Elem).String() + "]"
	case KindDictionary:
		s = "[" + orAny(t.Key).String() + ": " + orAny(t.Elem).String() + "]"
	}
	if t.Optional {
		return s + "?"
	}
	return s
}

func orAny(t *Type) Type {
	if t == nil {
		return Any
	}
	return *t
}

func (t Type) Covers(in *types.Interner, want types.TypeID) bool {
	return backend.CoversMembers(in, want, t.Optional || t.Kind == KindNil, func(m types.Type) bool {
		if t.Kind == KindAny {
			return true
		}
		switch m.Kind {
		case types.KindBool:
			return t.Kind == KindBool
		case types.KindInt:
			return t.Kind == KindInt || t.Kind == KindDouble
		case types.KindFloat:
			return t.Kind == KindDouble
		case types.KindString:
			return t.Kind == KindString || t.Kind == KindSanitized
		case types.KindHTML, types.KindAttributes, types.KindURI,
			types.KindTrustedResourceURI, types.KindJS, types.KindCSS:
			return t.Kind == KindSanitized
		case types.KindList:
			return t.Kind == KindArray && orAny(t.Elem).Covers(in, m.Elem)
		case types.KindMap:
			return t.Kind == KindDictionary &&
				orAny(t.Key).Covers(in, m.Key) &&
				orAny(t.Elem).Covers(in, m.Elem)
		}
		return false
	})
}

func (t Type) Bound(in *types.Interner) types.TypeID {
	b := in.Builtins()
	var id types.TypeID
	switch t.Kind {
	case KindAny:
		return b.Unknown
	case KindNil:
		return b.Null
	case KindBool:
		id = b.Bool
	case KindInt:
		id = b.Int
	case KindDouble:
		id = b.Float
	case KindString:
		id = b.String
	case KindSanitized:
		id = backend.SanitizedBound(in)
	case KindArray:
		id = in.List(orAny(t.Elem).Bound(in))
	case KindDictionary:
		id = in.Map(orAny(t.Key).Bound(in), orAny(t.Elem).Bound(in))
	}
	return backend.OrNull(in, id, t.Optional)
}

// FromBound picks the native type used for values of the template type t.
// number maps to Double.
func FromBound(in *types.Interner, t types.TypeID) Type {
	tt, ok := in.Lookup(t)
	if !ok {
		return Any.OrNil()
	}
	switch tt.Kind {
	case types.KindAny, types.KindUnknown:
		return Any.OrNil()
	case types.KindNull:
		return Nil
	case types.KindBool:
		return Bool
	case types.KindInt:
		return Int
	case types.KindFloat:
		return Double
	case types.KindString:
		return String
	case types.KindHTML, types.KindAttributes, types.KindURI,
		types.KindTrustedResourceURI, types.KindJS, types.KindCSS:
		return Sanitized
	case types.KindList:
		return ArrayOf(FromBound(in, tt.Elem))
	case types.KindMap:
		return DictionaryOf(FromBound(in, tt.Key), FromBound(in, tt.Elem))
	case types.KindUnion:
		nonNull := in.NonNull(t)
		var out Type
		switch {
		case nonNull == in.Builtins().Number:
			out = Double
		case in.Kind(nonNull) == types.KindUnion:
			out = Sanitized
			for _, m := range in.Members(nonNull) {
				if !in.Kind(m).IsStringLike() {
					out = Any
					break
				}
			}
		default:
			out = FromBound(in, nonNull)
		}
		if nonNull != t {
			return out.OrNil()
		}
		return out
	}
	return Any
}
