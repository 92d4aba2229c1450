package jssrc

import (
	"soyc/internal/backend"
	"soyc/internal/plugin"
)

// SourceFunction is the JavaScript capability of a plugin function.
type SourceFunction interface {
	ApplyForJsSrc(f *ValueFactory, args []Value, ctx Context) Value
}

func init() {
	plugin.DefineCapability[SourceFunction](plugin.JSSrc)
}

// Register installs impl as the JavaScript implementation of fn.
func Register(d *plugin.Dispatcher, fn plugin.Function, impl SourceFunction) error {
	return plugin.Register[SourceFunction](d, fn, plugin.JSSrc, impl)
}

// Resolve finds the JavaScript implementation of fn.
func Resolve(d *plugin.Dispatcher, fn plugin.Function) (plugin.Handle[SourceFunction], error) {
	return plugin.Resolve[SourceFunction](d, fn, plugin.JSSrc)
}

// Apply calls a resolved implementation under the type-compatibility
// contract.
func Apply(env *backend.Env, h plugin.Handle[SourceFunction], args []Value) (Value, error) {
	return backend.ApplyHandle(env, h, args, capability(env))
}

func capability(env *backend.Env) backend.Capability[SourceFunction, Value] {
	f := NewValueFactory(env.In)
	ctx := Context{Dir: env.Dir}
	return backend.Capability[SourceFunction, Value]{
		Backend: plugin.JSSrc,
		Apply: func(impl SourceFunction, args []Value) Value {
			return impl.ApplyForJsSrc(f, args, ctx)
		},
		Coerce: f.Coerce,
	}
}
