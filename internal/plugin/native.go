package plugin

import "soyc/internal/types"

// NativeType is a backend's own description of what a value can hold.
// The plugin core never looks inside; it only asks the two questions of the
// type-compatibility contract.
type NativeType interface {
	String() string
	// Covers reports whether every runtime value of t can be represented.
	Covers(in *types.Interner, t types.TypeID) bool
	// Bound is the narrowest template type containing every value this
	// native type can produce.
	Bound(in *types.Interner) types.TypeID
}

// Value is an opaque backend expression handle.
type Value interface {
	Native() NativeType
	// Code renders the expression in the backend's language.
	Code() string
}

// NativeSignature is an implementation's native view of one Signature.
type NativeSignature struct {
	Params []NativeType
	Return NativeType
}

// NativeSigner is implemented by plugin implementations that declare their
// native types up front, so incompatibilities surface at registration.
type NativeSigner interface {
	NativeSignatures(b Backend) []NativeSignature
}
