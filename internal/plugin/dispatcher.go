package plugin

import (
	"fmt"
	"sort"

	"soyc/internal/types"
)

type implKey struct {
	name    string
	backend Backend
}

// Dispatcher maps (function, backend) to the implementation used when
// compiling for that backend.
//
// The table is filled by a single goroutine while plugins load, then Seal
// is called; from then on the dispatcher is read-only and Resolve is safe
// for concurrent use by every backend pass.
type Dispatcher struct {
	functions map[string]Function
	impls     map[implKey]any
	sealed    bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		functions: make(map[string]Function),
		impls:     make(map[implKey]any),
	}
}

// Declare adds fn to the function catalog without an external
// implementation. Functions implementing backend capabilities directly are
// made known this way. Declaring the same name again is a no-op.
func (d *Dispatcher) Declare(fn Function) error {
	if d.sealed {
		return ErrSealed
	}
	if err := validateFunction(fn); err != nil {
		return err
	}
	if _, ok := d.functions[fn.Name()]; ok {
		return nil
	}
	if signer, ok := fn.(NativeSigner); ok {
		for _, b := range Backends {
			if err := ValidateNative(fn, b, signer.NativeSignatures(b)); err != nil {
				return err
			}
		}
	}
	d.functions[fn.Name()] = fn
	return nil
}

// Register installs impl as the backend implementation of fn. I is the
// backend's capability interface; backend packages wrap this with a typed
// Register so callers cannot pass the wrong capability.
func Register[I any](d *Dispatcher, fn Function, b Backend, impl I) error {
	if d.sealed {
		return ErrSealed
	}
	if b == BackendInvalid {
		return fmt.Errorf("plugin: register %s: invalid backend", fn.Name())
	}
	if err := d.Declare(fn); err != nil {
		return err
	}
	key := implKey{name: fn.Name(), backend: b}
	if _, dup := d.impls[key]; dup {
		return fmt.Errorf("plugin: %s for %s: %w", fn.Name(), b, ErrDuplicate)
	}
	if signer, ok := any(impl).(NativeSigner); ok {
		if err := ValidateNative(fn, b, signer.NativeSignatures(b)); err != nil {
			return err
		}
	}
	d.impls[key] = impl
	return nil
}

// Seal ends registration.
func (d *Dispatcher) Seal() {
	d.sealed = true
}

func (d *Dispatcher) Sealed() bool {
	return d.sealed
}

// Lookup finds a declared function by name.
func (d *Dispatcher) Lookup(name string) (Function, bool) {
	fn, ok := d.functions[name]
	return fn, ok
}

// Functions returns the declared function names, sorted.
func (d *Dispatcher) Functions() []string {
	names := make([]string, 0, len(d.functions))
	for n := range d.functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Handle is a resolved implementation of a function for one backend.
type Handle[I any] struct {
	Function Function
	Backend  Backend
	Impl     I
	// Direct is set when the function object itself implements I.
	Direct bool
}

// Resolve finds the implementation of fn for backend b. A function that
// implements the capability I itself wins over the registration table.
// When neither exists the error is a *MissingImplementationError.
func Resolve[I any](d *Dispatcher, fn Function, b Backend) (Handle[I], error) {
	if impl, ok := fn.(I); ok {
		return Handle[I]{Function: fn, Backend: b, Impl: impl, Direct: true}, nil
	}
	if raw, ok := d.impls[implKey{name: fn.Name(), backend: b}]; ok {
		if impl, ok := raw.(I); ok {
			return Handle[I]{Function: fn, Backend: b, Impl: impl}, nil
		}
	}
	return Handle[I]{}, &MissingImplementationError{Function: fn.Name(), Backend: b}
}

// Implements reports whether fn can be resolved for b as capability I.
func Implements[I any](d *Dispatcher, fn Function, b Backend) bool {
	_, err := Resolve[I](d, fn, b)
	return err == nil
}

// capabilities holds, per backend, a check that a function resolves as
// that backend's capability interface. Filled from backend package init.
var capabilities = map[Backend]func(*Dispatcher, Function) bool{}

// DefineCapability records I as the capability interface of backend b.
// Backend packages call it from init.
func DefineCapability[I any](b Backend) {
	capabilities[b] = func(d *Dispatcher, fn Function) bool {
		return Implements[I](d, fn, b)
	}
}

// Backends lists, in Backends order, the backends on which the function
// name resolves: by a table entry or by implementing a capability itself.
// Backends whose package is not linked in are never listed.
func (d *Dispatcher) Backends(name string) []Backend {
	fn, ok := d.functions[name]
	if !ok {
		return nil
	}
	var out []Backend
	for _, b := range Backends {
		if resolves, ok := capabilities[b]; ok && resolves(d, fn) {
			out = append(out, b)
		}
	}
	return out
}

// ValidateNative checks declared native signatures of fn against its
// template signatures. Every native signature must match a declared arity,
// each native parameter must cover its declared type and each native return
// must fit the declared return type.
func ValidateNative(fn Function, b Backend, natives []NativeSignature) error {
	if len(natives) == 0 {
		return nil
	}
	in := types.NewInterner()
	r := types.NewResolver(in, nil)
	for _, ns := range natives {
		sig, ok := SignatureFor(fn, len(ns.Params))
		if !ok {
			return fmt.Errorf("plugin: %s (%s): native signature with %d parameter(s): %w",
				fn.Name(), b, len(ns.Params), ErrNoSignature)
		}
		bound := sig.Bind(r)
		for i, nt := range ns.Params {
			if !nt.Covers(in, bound.Params[i]) {
				return &CompatError{Function: fn.Name(), Backend: b, Position: i,
					Declared: in.Format(bound.Params[i]), Native: nt.String()}
			}
		}
		if ns.Return != nil && !in.Assignable(bound.Return, ns.Return.Bound(in)) {
			return &CompatError{Function: fn.Name(), Backend: b, Position: ReturnPosition,
				Declared: in.Format(bound.Return), Native: ns.Return.String()}
		}
	}
	return nil
}
