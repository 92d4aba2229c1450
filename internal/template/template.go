package template

import (
	"soyc/internal/expr"
	"soyc/internal/param"
	"soyc/internal/source"
)

// Template is the part of a compiled template the parameter core cares
// about: its signature and the plugin function calls found in its body.
type Template struct {
	Name   string
	Span   source.Span
	Params []*param.Parameter
	Calls  []*expr.Call
}

// Param finds a parameter by name.
func (t *Template) Param(name string) (*param.Parameter, bool) {
	for _, p := range t.Params {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Copy clones the template for one compilation pass.
func (t *Template) Copy() *Template {
	cp := &Template{
		Name:   t.Name,
		Span:   t.Span,
		Params: make([]*param.Parameter, len(t.Params)),
		Calls:  make([]*expr.Call, len(t.Calls)),
	}
	for i, p := range t.Params {
		cp.Params[i] = p.Copy()
	}
	for i, c := range t.Calls {
		cp.Calls[i] = expr.CopyCall(c)
	}
	return cp
}

// CopyAll clones a template set.
func CopyAll(ts []*Template) []*Template {
	out := make([]*Template, len(ts))
	for i, t := range ts {
		out[i] = t.Copy()
	}
	return out
}

// Functions returns the distinct function names called by t, in call order.
// Nested calls inside arguments are included.
func (t *Template) Functions() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range t.Calls {
		expr.Walk(c, func(n expr.Node) {
			call, ok := n.(*expr.Call)
			if !ok {
				return
			}
			if _, dup := seen[call.Name]; dup {
				return
			}
			seen[call.Name] = struct{}{}
			out = append(out, call.Name)
		})
	}
	return out
}
