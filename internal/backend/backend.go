// Package backend is the per-backend half of a compilation pass: it turns
// plugin function call sites into backend values through the dispatcher.
// Each target package (jssrc, pysrc, swiftsrc) supplies the value model and
// the capability interface; this package holds what they share.
package backend

import (
	"errors"
	"fmt"

	"soyc/internal/bidi"
	"soyc/internal/diag"
	"soyc/internal/expr"
	"soyc/internal/param"
	"soyc/internal/plugin"
	"soyc/internal/source"
	"soyc/internal/template"
	"soyc/internal/types"
)

// Env is the state of one backend pass visible to call lowering.
type Env struct {
	In         *types.Interner
	Dispatcher *plugin.Dispatcher
	Dir        bidi.Dir
	Template   *template.Template
	Reporter   diag.Reporter
}

// Target lowers expressions for one backend.
type Target interface {
	Backend() plugin.Backend
	Lower(env *Env, n expr.Node) (plugin.Value, error)
}

var (
	ErrUnknownFunction = errors.New("unknown function")
	ErrUnknownParam    = errors.New("unknown parameter")
	ErrArity           = errors.New("wrong number of arguments")
	ErrUnbound         = errors.New("parameter type not bound")
)

// Error attaches the call-site location to a lowering failure.
type Error struct {
	Span source.Span
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func errorAt(span source.Span, err error) error {
	var le *Error
	if errors.As(err, &le) {
		return err
	}
	return &Error{Span: span, Err: err}
}

// Capability is the backend-specific part of lowering a call: which backend
// is compiled, how its capability interface is invoked and how an argument
// is converted to the native representation of a declared parameter type.
type Capability[I any, V plugin.Value] struct {
	Backend plugin.Backend
	Apply   func(impl I, args []V) V
	Coerce  func(v V, t types.TypeID) V
}

// LowerCall resolves call through the dispatcher, lowers the arguments with
// lower and applies the implementation.
func LowerCall[I any, V plugin.Value](env *Env, call *expr.Call, c Capability[I, V], lower func(expr.Node) (V, error)) (V, error) {
	var zero V
	fn, ok := env.Dispatcher.Lookup(call.Name)
	if !ok {
		return zero, errorAt(call.Loc, fmt.Errorf("%w %s", ErrUnknownFunction, call.Name))
	}
	if _, ok := plugin.SignatureFor(fn, len(call.Args)); !ok {
		return zero, errorAt(call.Loc, fmt.Errorf("%s: %w: got %d, accepts %v",
			call.Name, ErrArity, len(call.Args), plugin.Arities(fn)))
	}
	h, err := plugin.Resolve[I](env.Dispatcher, fn, c.Backend)
	if err != nil {
		return zero, errorAt(call.Loc, err)
	}
	args := make([]V, len(call.Args))
	for i, a := range call.Args {
		v, err := lower(a)
		if err != nil {
			return zero, errorAt(a.Span(), err)
		}
		args[i] = v
	}
	v, err := ApplyHandle(env, h, args, c)
	if err != nil {
		return zero, errorAt(call.Loc, err)
	}
	return v, nil
}

// ApplyHandle runs a resolved implementation on already lowered arguments.
// Arguments whose template type is assignable to the declared parameter are
// first converted to its native representation; anything else is left as is
// and rejected by the boundary check.
func ApplyHandle[I any, V plugin.Value](env *Env, h plugin.Handle[I], args []V, c Capability[I, V]) (V, error) {
	var zero V
	fn := h.Function
	sig, ok := plugin.SignatureFor(fn, len(args))
	if !ok {
		return zero, fmt.Errorf("%s: %w: got %d, accepts %v", fn.Name(), ErrArity, len(args), plugin.Arities(fn))
	}
	bound := sig.Bind(types.NewResolver(env.In, env.Reporter))
	coerced := make([]V, len(args))
	generic := make([]plugin.Value, len(args))
	for i, a := range args {
		want := bound.Params[i]
		if c.Coerce != nil && !a.Native().Covers(env.In, want) && env.In.Assignable(want, a.Native().Bound(env.In)) {
			a = c.Coerce(a, want)
		}
		coerced[i] = a
		generic[i] = a
	}
	ret, err := plugin.Apply(env.In, fn, h.Backend, bound, generic, func([]plugin.Value) (plugin.Value, error) {
		return c.Apply(h.Impl, coerced), nil
	})
	if err != nil {
		return zero, err
	}
	v, ok := ret.(V)
	if !ok {
		return zero, fmt.Errorf("plugin: %s (%s): foreign value %T", fn.Name(), h.Backend, ret)
	}
	return v, nil
}

// CoversMembers applies one to every non-null member of t. Null members
// need nullable.
func CoversMembers(in *types.Interner, t types.TypeID, nullable bool, one func(types.Type) bool) bool {
	members := in.Members(t)
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		tt, ok := in.Lookup(m)
		if !ok {
			return false
		}
		if tt.Kind == types.KindNull {
			if !nullable {
				return false
			}
			continue
		}
		if !one(tt) {
			return false
		}
	}
	return true
}

// OrNull adds null to t when nullable is set.
func OrNull(in *types.Interner, t types.TypeID, nullable bool) types.TypeID {
	if !nullable {
		return t
	}
	return in.Union(t, in.Builtins().Null)
}

// SanitizedBound is every kind a sanitized-content object can carry.
func SanitizedBound(in *types.Interner) types.TypeID {
	b := in.Builtins()
	return in.Union(b.String, b.HTML, b.Attributes, b.URI, b.TrustedResourceURI, b.JS, b.CSS)
}

// ParamType returns the bound type of $name in the current template.
func (env *Env) ParamType(ref *expr.Ref) (*param.Parameter, types.TypeID, error) {
	if env.Template == nil {
		return nil, types.NoTypeID, errorAt(ref.Loc, fmt.Errorf("%w $%s", ErrUnknownParam, ref.Name))
	}
	p, ok := env.Template.Param(ref.Name)
	if !ok {
		return nil, types.NoTypeID, errorAt(ref.Loc, fmt.Errorf("%w $%s", ErrUnknownParam, ref.Name))
	}
	t, ok := p.ResolvedType()
	if !ok {
		return nil, types.NoTypeID, errorAt(ref.Loc, fmt.Errorf("$%s: %w", ref.Name, ErrUnbound))
	}
	return p, t, nil
}

// LiteralType is the bound type of a literal expression; ok is false for
// parameter references and calls.
func LiteralType(in *types.Interner, n expr.Node) (types.TypeID, bool) {
	b := in.Builtins()
	switch t := n.(type) {
	case *expr.Null:
		return b.Null, true
	case *expr.Bool:
		return b.Bool, true
	case *expr.Int:
		return b.Int, true
	case *expr.Float:
		return b.Float, true
	case *expr.String:
		return b.String, true
	case *expr.List:
		elems := make([]types.TypeID, 0, len(t.Items))
		for _, it := range t.Items {
			et, ok := LiteralType(in, it)
			if !ok {
				return types.NoTypeID, false
			}
			elems = append(elems, et)
		}
		if len(elems) == 0 {
			return in.List(b.Unknown), true
		}
		return in.List(in.Union(elems...)), true
	case *expr.Map:
		keys := make([]types.TypeID, 0, len(t.Entries))
		vals := make([]types.TypeID, 0, len(t.Entries))
		for _, e := range t.Entries {
			kt, ok := LiteralType(in, e.Key)
			if !ok {
				return types.NoTypeID, false
			}
			vt, ok := LiteralType(in, e.Value)
			if !ok {
				return types.NoTypeID, false
			}
			keys = append(keys, kt)
			vals = append(vals, vt)
		}
		if len(keys) == 0 {
			return in.Map(b.Unknown, b.Unknown), true
		}
		return in.Map(in.Union(keys...), in.Union(vals...)), true
	}
	return types.NoTypeID, false
}

// Unsupported reports an expression kind a target cannot lower.
func Unsupported(n expr.Node) error {
	if n == nil {
		return fmt.Errorf("backend: nil expression")
	}
	return errorAt(n.Span(), fmt.Errorf("backend: cannot lower %T", n))
}
