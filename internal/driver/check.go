package driver

import (
	"fmt"

	"soyc/internal/backend"
	"soyc/internal/diag"
	"soyc/internal/expr"
	"soyc/internal/plugin"
	"soyc/internal/template"
	"soyc/internal/types"
)

// checker type-checks one template clone inside a backend pass. It is the
// only place that binds parameter types.
type checker struct {
	in  *types.Interner
	res *types.Resolver
	d   *plugin.Dispatcher
	rep diag.Reporter
	t   *template.Template
}

func newChecker(in *types.Interner, d *plugin.Dispatcher, rep diag.Reporter) *checker {
	return &checker{in: in, res: types.NewResolver(in, rep), d: d, rep: rep}
}

// check binds every parameter and validates the call sites. The returned
// set holds calls whose problems are already reported; lowering skips them.
func (c *checker) check(t *template.Template) map[*expr.Call]bool {
	c.t = t
	c.bindParams()
	bad := make(map[*expr.Call]bool)
	for _, call := range t.Calls {
		if _, ok := c.call(call); !ok {
			bad[call] = true
		}
	}
	return bad
}

func (c *checker) bindParams() {
	for _, p := range c.t.Params {
		var id types.TypeID
		if p.Type() == nil {
			diag.ReportWarning(c.rep, diag.SemaMissingType, p.NameSpan(),
				fmt.Sprintf("parameter %q of %s has no usable type; it is checked as ?", p.Name(), c.t.Name)).Emit()
			id = c.in.Builtins().Unknown
		} else {
			id = c.res.Resolve(p.Type())
		}
		if err := p.BindType(id); err != nil {
			diag.ReportError(c.rep, diag.SemaTypeAlreadyBound, p.NameSpan(), err.Error()).Emit()
			continue
		}
		def := p.Default()
		if def == nil {
			continue
		}
		if lt, ok := backend.LiteralType(c.in, def); ok && !c.in.Assignable(id, lt) {
			diag.ReportError(c.rep, diag.SemaDefaultMismatch, def.Span(),
				fmt.Sprintf("default %s of parameter %q is not a %s", def, p.Name(), c.in.Format(id))).Emit()
		}
	}
}

func (c *checker) call(call *expr.Call) (types.TypeID, bool) {
	unknown := c.in.Builtins().Unknown
	fn, found := c.d.Lookup(call.Name)
	if !found {
		diag.ReportError(c.rep, diag.SemaUnknownFunction, call.Loc,
			fmt.Sprintf("unknown function %s in %s", call.Name, c.t.Name)).Emit()
		return unknown, false
	}
	sig, found := plugin.SignatureFor(fn, len(call.Args))
	if !found {
		diag.ReportError(c.rep, diag.SemaArityMismatch, call.Loc,
			fmt.Sprintf("%s called with %d argument(s); accepts %v", call.Name, len(call.Args), plugin.Arities(fn))).Emit()
		return unknown, false
	}
	bound := sig.Bind(c.res)
	ok := true
	for i, a := range call.Args {
		at, aok := c.expr(a)
		if !aok {
			ok = false
			continue
		}
		if !c.in.Assignable(bound.Params[i], at) {
			diag.ReportError(c.rep, diag.SemaArgMismatch, a.Span(),
				fmt.Sprintf("argument %d of %s: %s is not assignable to %s",
					i, call.Name, c.in.Format(at), c.in.Format(bound.Params[i]))).Emit()
			ok = false
		}
	}
	return bound.Return, ok
}

func (c *checker) expr(n expr.Node) (types.TypeID, bool) {
	b := c.in.Builtins()
	switch n := n.(type) {
	case *expr.Ref:
		p, found := c.t.Param(n.Name)
		if !found {
			diag.ReportError(c.rep, diag.SemaUnknownParam, n.Loc,
				fmt.Sprintf("unknown parameter $%s in %s", n.Name, c.t.Name)).Emit()
			return b.Unknown, false
		}
		if id, bound := p.ResolvedType(); bound {
			return id, true
		}
		return b.Unknown, true
	case *expr.Call:
		return c.call(n)
	case *expr.List:
		elems, ok := c.exprs(n.Items)
		if len(elems) == 0 {
			return c.in.List(b.Unknown), ok
		}
		return c.in.List(c.in.Union(elems...)), ok
	case *expr.Map:
		keys := make([]expr.Node, len(n.Entries))
		vals := make([]expr.Node, len(n.Entries))
		for i, e := range n.Entries {
			keys[i], vals[i] = e.Key, e.Value
		}
		kt, kok := c.exprs(keys)
		vt, vok := c.exprs(vals)
		if len(kt) == 0 {
			return c.in.Map(b.Unknown, b.Unknown), kok && vok
		}
		return c.in.Map(c.in.Union(kt...), c.in.Union(vt...)), kok && vok
	}
	if lt, ok := backend.LiteralType(c.in, n); ok {
		return lt, true
	}
	return b.Unknown, true
}

func (c *checker) exprs(ns []expr.Node) ([]types.TypeID, bool) {
	out := make([]types.TypeID, 0, len(ns))
	ok := true
	for _, n := range ns {
		t, nok := c.expr(n)
		ok = ok && nok
		out = append(out, t)
	}
	return out, ok
}
