package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the bound types a template parameter can carry.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindUnknown is "?": statically unchecked, accepted everywhere.
	KindUnknown
	KindAny
	KindNull
	KindBool
	KindInt
	KindFloat
	KindString
	KindHTML
	KindAttributes
	KindURI
	KindTrustedResourceURI
	KindJS
	KindCSS
	KindList
	KindMap
	KindUnion
)

var kindNames = [...]string{
	KindInvalid:            "invalid",
	KindUnknown:            "?",
	KindAny:                "any",
	KindNull:               "null",
	KindBool:               "bool",
	KindInt:                "int",
	KindFloat:              "float",
	KindString:             "string",
	KindHTML:               "html",
	KindAttributes:         "attributes",
	KindURI:                "uri",
	KindTrustedResourceURI: "trusted_resource_uri",
	KindJS:                 "js",
	KindCSS:                "css",
	KindList:               "list",
	KindMap:                "map",
	KindUnion:              "union",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsSanitized reports kinds that carry escaping-context content.
func (k Kind) IsSanitized() bool {
	switch k {
	case KindHTML, KindAttributes, KindURI, KindTrustedResourceURI, KindJS, KindCSS:
		return true
	}
	return false
}

// IsStringLike reports kinds represented as text at runtime.
func (k Kind) IsStringLike() bool {
	return k == KindString || k.IsSanitized()
}

// Type is a compact descriptor for any supported type.
type Type struct {
	Kind    Kind
	Elem    TypeID // list element, map value
	Key     TypeID // map key
	Payload uint32 // union member slot
}
