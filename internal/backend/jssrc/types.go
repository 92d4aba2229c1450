// Package jssrc is the JavaScript backend: its native value model, the
// value factory plugin implementations build expressions with, and the
// target that lowers plugin call sites.
package jssrc

import (
	"soyc/internal/backend"
	"soyc/internal/types"
)

// Kind is a JavaScript runtime representation.
type Kind uint8

const (
	// KindAny is the closure type "*": any value including null.
	KindAny Kind = iota
	KindNull
	KindBoolean
	// KindInteger is a number known to hold an integral value.
	KindInteger
	KindNumber
	KindString
	// KindSanitized is goog.soy.data.SanitizedContent or a plain string.
	KindSanitized
	KindArray
	KindObject
)

// Type is a native JavaScript type. Elem is the array element or object
// value type, Key the object key type; nil means "*".
type Type struct {
	Kind     Kind
	Elem     *Type
	Key      *Type
	Nullable bool
}

var (
	Any       = Type{Kind: KindAny}
	Null      = Type{Kind: KindNull}
	Boolean   = Type{Kind: KindBoolean}
	Integer   = Type{Kind: KindInteger}
	Number    = Type{Kind: KindNumber}
	String    = Type{Kind: KindString}
	Sanitized = Type{Kind: KindSanitized}
)

func ArrayOf(elem Type) Type { return Type{Kind: KindArray, Elem: &elem} }

func ObjectOf(key, value Type) Type { return Type{Kind: KindObject, Key: &key, Elem: &value} }

// OrNull returns t with null admitted.
func (t Type) OrNull() Type {
	if t.Kind != KindAny && t.Kind != KindNull {
		t.Nullable = true
	}
	return t
}

func (t Type) String() string {
	var s string
	switch t.Kind {
	case KindAny:
		return "*"
	case KindNull:
		return "null"
	case KindBoolean:
		s = "boolean"
	case KindInteger:
		s = "number(int)"
	case KindNumber:
		s = "number"
	case KindString:
		s = "string"
	case KindSanitized:
		s = "goog.soy.data.SanitizedContent|string"
	case KindArray:
		s = "!Array<" + elemString(t.Elem) + ">"
	case KindObject:
		s = "!Object<" + elemString(t.Key) + "," + elemString(t.Elem) + ">"
	}
	if t.Nullable {
		return "?" + s
	}
	return s
}

func elemString(t *Type) string {
	if t == nil {
		return "*"
	}
	return t.String()
}

func elemOrAny(t *Type) Type {
	if t == nil {
		return Any
	}
	return *t
}

// Covers reports whether every value of the template type t has a
// representation as t.
func (t Type) Covers(in *types.Interner, want types.TypeID) bool {
	if t.Kind == KindAny {
		return true
	}
	return backend.CoversMembers(in, want, t.Nullable || t.Kind == KindNull, func(m types.Type) bool {
		switch m.Kind {
		case types.KindBool:
			return t.Kind == KindBoolean
		case types.KindInt:
			return t.Kind == KindInteger || t.Kind == KindNumber
		case types.KindFloat:
			return t.Kind == KindNumber
		case types.KindString:
			return t.Kind == KindString || t.Kind == KindSanitized
		case types.KindHTML, types.KindAttributes, types.KindURI,
			types.KindTrustedResourceURI, types.KindJS, types.KindCSS:
			return t.Kind == KindSanitized
		case types.KindList:
			return t.Kind == KindArray && elemOrAny(t.Elem).Covers(in, m.Elem)
		case types.KindMap:
			return t.Kind == KindObject &&
				elemOrAny(t.Key).Covers(in, m.Key) &&
				elemOrAny(t.Elem).Covers(in, m.Elem)
		}
		return false
	})
}

// Bound is the template type of the values t can hold.
func (t Type) Bound(in *types.Interner) types.TypeID {
	b := in.Builtins()
	var id types.TypeID
	switch t.Kind {
	case KindAny:
		return b.Unknown
	case KindNull:
		return b.Null
	case KindBoolean:
		id = b.Bool
	case KindInteger:
		id = b.Int
	case KindNumber:
		id = b.Number
	case KindString:
		id = b.String
	case KindSanitized:
		id = backend.SanitizedBound(in)
	case KindArray:
		id = in.List(elemOrAny(t.Elem).Bound(in))
	case KindObject:
		id = in.Map(elemOrAny(t.Key).Bound(in), elemOrAny(t.Elem).Bound(in))
	}
	return backend.OrNull(in, id, t.Nullable)
}

// FromBound picks the native type used for values of the template type t.
func FromBound(in *types.Interner, t types.TypeID) Type {
	tt, ok := in.Lookup(t)
	if !ok {
		return Any
	}
	switch tt.Kind {
	case types.KindNull:
		return Null
	case types.KindBool:
		return Boolean
	case types.KindInt:
		return Integer
	case types.KindFloat:
		return Number
	case types.KindString:
		return String
	case types.KindHTML, types.KindAttributes, types.KindURI,
		types.KindTrustedResourceURI, types.KindJS, types.KindCSS:
		return Sanitized
	case types.KindList:
		return ArrayOf(FromBound(in, tt.Elem))
	case types.KindMap:
		return ObjectOf(FromBound(in, tt.Key), FromBound(in, tt.Elem))
	case types.KindUnion:
		return fromUnion(in, t)
	}
	return Any
}

func fromUnion(in *types.Interner, t types.TypeID) Type {
	nonNull := in.NonNull(t)
	nullable := nonNull != t
	var out Type
	switch {
	case nonNull == in.Builtins().Number:
		out = Number
	case in.Kind(nonNull) == types.KindUnion:
		out = Sanitized
		for _, m := range in.Members(nonNull) {
			if !in.Kind(m).IsStringLike() {
				return Any
			}
		}
	default:
		out = FromBound(in, nonNull)
	}
	if nullable {
		return out.OrNull()
	}
	return out
}
