package types

import (
	"fmt"

	"soyc/internal/diag"
	"soyc/internal/typenode"
)

// Resolver binds declared type syntax to interned types. Unknown names and
// malformed generics are reported and resolve to ?, so one bad parameter
// does not cascade into every use site.
type Resolver struct {
	In       *Interner
	Reporter diag.Reporter
}

// NewResolver returns a resolver reporting into r (nil drops diagnostics).
func NewResolver(in *Interner, r diag.Reporter) *Resolver {
	if r == nil {
		r = diag.NopReporter{}
	}
	return &Resolver{In: in, Reporter: r}
}

// Resolve returns NoTypeID only for a nil node.
func (r *Resolver) Resolve(n typenode.Node) TypeID {
	b := r.In.Builtins()
	switch t := n.(type) {
	case nil:
		return NoTypeID
	case *typenode.Named:
		if id, ok := r.named(t.Name()); ok {
			return id
		}
		if _, generic := genericArity[t.Name()]; generic {
			diag.ReportError(r.Reporter, diag.SemaBadTypeArgs, t.Span(),
				fmt.Sprintf("%s requires type arguments", t.Name())).Emit()
			return b.Unknown
		}
		diag.ReportError(r.Reporter, diag.SemaUnknownType, t.Span(),
			fmt.Sprintf("unknown type %q", t.Name())).Emit()
		return b.Unknown
	case *typenode.Union:
		members := make([]TypeID, 0, t.Len())
		for _, c := range t.Candidates() {
			members = append(members, r.Resolve(c))
		}
		return r.In.Union(members...)
	case *typenode.Generic:
		return r.generic(t)
	}
	panic(fmt.Sprintf("types: unexpected type node %T", n))
}

var genericArity = map[string]int{
	"list":     1,
	"iterable": 1,
	"map":      2,
}

func (r *Resolver) named(name string) (TypeID, bool) {
	b := r.In.Builtins()
	switch name {
	case "?":
		return b.Unknown, true
	case "any":
		return b.Any, true
	case typenode.NullName:
		return b.Null, true
	case "bool":
		return b.Bool, true
	case "int":
		return b.Int, true
	case "float":
		return b.Float, true
	case "number":
		return b.Number, true
	case "string":
		return b.String, true
	case "html":
		return b.HTML, true
	case "attributes":
		return b.Attributes, true
	case "uri":
		return b.URI, true
	case "trusted_resource_uri":
		return b.TrustedResourceURI, true
	case "js":
		return b.JS, true
	case "css":
		return b.CSS, true
	}
	return NoTypeID, false
}

func (r *Resolver) generic(g *typenode.Generic) TypeID {
	b := r.In.Builtins()
	want, ok := genericArity[g.Name()]
	if !ok {
		diag.ReportError(r.Reporter, diag.SemaUnknownType, g.Span(),
			fmt.Sprintf("unknown generic type %q", g.Name())).Emit()
		return b.Unknown
	}
	args := g.Args()
	if len(args) != want {
		diag.ReportError(r.Reporter, diag.SemaBadTypeArgs, g.Span(),
			fmt.Sprintf("%s expects %d type argument(s), got %d", g.Name(), want, len(args))).Emit()
		return b.Unknown
	}
	ids := make([]TypeID, len(args))
	for i, a := range args {
		ids[i] = r.Resolve(a)
	}
	switch g.Name() {
	case "map":
		return r.In.Map(ids[0], ids[1])
	default:
		// iterable<T> is read through the same runtime representation as list<T>.
		return r.In.List(ids[0])
	}
}
