package plugin

import (
	"fmt"

	"soyc/internal/types"
)

// CheckArgs enforces the argument half of the type-compatibility contract
// on the values a code generator is about to hand to an implementation.
func CheckArgs(in *types.Interner, fn Function, b Backend, sig BoundSignature, args []Value) error {
	if len(args) != len(sig.Params) {
		return fmt.Errorf("plugin: %s (%s): %d argument(s) for signature of arity %d: %w",
			fn.Name(), b, len(args), len(sig.Params), ErrNoSignature)
	}
	for i, a := range args {
		if a == nil || !a.Native().Covers(in, sig.Params[i]) {
			native := "<nil>"
			if a != nil {
				native = a.Native().String()
			}
			return &CompatError{Function: fn.Name(), Backend: b, Position: i,
				Declared: in.Format(sig.Params[i]), Native: native}
		}
	}
	return nil
}

// CheckReturn enforces the return half of the contract.
func CheckReturn(in *types.Interner, fn Function, b Backend, sig BoundSignature, ret Value) error {
	if ret == nil {
		return &CompatError{Function: fn.Name(), Backend: b, Position: ReturnPosition,
			Declared: in.Format(sig.Return), Native: "<nil>"}
	}
	if !in.Assignable(sig.Return, ret.Native().Bound(in)) {
		return &CompatError{Function: fn.Name(), Backend: b, Position: ReturnPosition,
			Declared: in.Format(sig.Return), Native: ret.Native().String()}
	}
	return nil
}

// Applier adapts one backend's Apply method into a uniform call.
type Applier func(args []Value) (Value, error)

// Apply runs impl between the two halves of the boundary check.
func Apply(in *types.Interner, fn Function, b Backend, sig BoundSignature, args []Value, impl Applier) (Value, error) {
	if err := CheckArgs(in, fn, b, sig, args); err != nil {
		return nil, err
	}
	ret, err := impl(args)
	if err != nil {
		return nil, fmt.Errorf("plugin: %s (%s): %w", fn.Name(), b, err)
	}
	if err := CheckReturn(in, fn, b, sig, ret); err != nil {
		return nil, err
	}
	return ret, nil
}
