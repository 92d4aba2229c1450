package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingImplementation is matched by every *MissingImplementationError.
	ErrMissingImplementation = errors.New("missing implementation")
	// ErrIncompatible is matched by every *CompatError.
	ErrIncompatible = errors.New("incompatible native type")
	ErrSealed       = errors.New("dispatcher is sealed")
	ErrDuplicate    = errors.New("duplicate registration")
	ErrNoSignature  = errors.New("no matching signature")
)

// MissingImplementationError reports a function used on a backend for
// which neither a direct nor a registered implementation exists.
type MissingImplementationError struct {
	Function string
	Backend  Backend
}

func (e *MissingImplementationError) Error() string {
	return fmt.Sprintf("function %s has no %s implementation", e.Function, e.Backend)
}

func (e *MissingImplementationError) Unwrap() error { return ErrMissingImplementation }

// ReturnPosition marks a CompatError about the return value.
const ReturnPosition = -1

// CompatError reports a violation of the type-compatibility contract.
type CompatError struct {
	Function string
	Backend  Backend
	// Position is the argument index or ReturnPosition.
	Position int
	Declared string
	Native   string
}

func (e *CompatError) Error() string {
	if e.Position == ReturnPosition {
		return fmt.Sprintf("function %s (%s): native return type %s is not compatible with declared %s",
			e.Function, e.Backend, e.Native, e.Declared)
	}
	return fmt.Sprintf("function %s (%s): argument %d: native type %s cannot represent declared %s",
		e.Function, e.Backend, e.Position, e.Native, e.Declared)
}

func (e *CompatError) Unwrap() error { return ErrIncompatible }
