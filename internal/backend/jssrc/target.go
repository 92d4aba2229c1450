package jssrc

import (
	"soyc/internal/backend"
	"soyc/internal/expr"
	"soyc/internal/plugin"
)

// Target lowers template expressions to JavaScript.
type Target struct{}

func (Target) Backend() plugin.Backend { return plugin.JSSrc }

func (t Target) Lower(env *backend.Env, n expr.Node) (plugin.Value, error) {
	v, err := lower(env, NewValueFactory(env.In), n)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func lower(env *backend.Env, f *ValueFactory, n expr.Node) (Value, error) {
	switch n := n.(type) {
	case *expr.Null:
		return f.Null(), nil
	case *expr.Bool:
		return f.Bool(n.Value), nil
	case *expr.Int:
		return f.Int(n.Value), nil
	case *expr.Float:
		return f.Float(n.Value), nil
	case *expr.String:
		return f.String(n.Value), nil
	case *expr.List:
		items := make([]Value, len(n.Items))
		for i, it := range n.Items {
			v, err := lower(env, f, it)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return f.List(items...), nil
	case *expr.Map:
		entries := make([]Entry, len(n.Entries))
		for i, e := range n.Entries {
			k, err := lower(env, f, e.Key)
			if err != nil {
				return Value{}, err
			}
			v, err := lower(env, f, e.Value)
			if err != nil {
				return Value{}, err
			}
			entries[i] = Entry{Key: k, Value: v}
		}
		return f.Map(entries...), nil
	case *expr.Ref:
		_, t, err := env.ParamType(n)
		if err != nil {
			return Value{}, err
		}
		return f.Param(n.Name, t), nil
	case *expr.Call:
		return backend.LowerCall(env, n, capability(env), func(a expr.Node) (Value, error) {
			return lower(env, f, a)
		})
	}
	return Value{}, backend.Unsupported(n)
}
