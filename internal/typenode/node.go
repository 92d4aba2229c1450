// Package typenode holds declared type syntax: what the author wrote after
// the colon of a parameter declaration, before any name resolution.
//
// Trees are immutable. Constructors copy their inputs and accessors hand out
// copies, so a tree can be shared freely between goroutines; Copy exists for
// passes that must own their nodes outright.
package typenode

import (
	"strings"

	"soyc/internal/source"
)

// NullName is the reserved identifier of the null type.
const NullName = "null"

// Node is a declared type: *Named, *Union or *Generic.
type Node interface {
	Span() source.Span
	// Copy returns a structurally equal tree sharing no nodes with the receiver.
	Copy() Node
	String() string
	isNode()
}

// Named is an atomic type referenced by identifier.
type Named struct {
	name string
	span source.Span
}

func NewNamed(name string, span source.Span) *Named {
	return &Named{name: name, span: span}
}

// Null builds the null type anchored at span.
func Null(span source.Span) *Named {
	return NewNamed(NullName, span)
}

func (n *Named) Name() string      { return n.name }
func (n *Named) Span() source.Span { return n.span }
func (n *Named) String() string    { return n.name }
func (n *Named) isNode()           {}

func (n *Named) Copy() Node {
	return &Named{name: n.name, span: n.span}
}

// Union is "one of" its ordered candidates. It always has at least one.
type Union struct {
	candidates []Node
	span       source.Span
}

// NewUnion panics on an empty candidate list: a union without candidates is
// not representable in the declaration syntax.
func NewUnion(span source.Span, candidates ...Node) *Union {
	if len(candidates) == 0 {
		panic("typenode: union needs at least one candidate")
	}
	cs := make([]Node, len(candidates))
	copy(cs, candidates)
	return &Union{candidates: cs, span: span}
}

// Candidates returns a copy of the candidate list.
func (u *Union) Candidates() []Node {
	out := make([]Node, len(u.candidates))
	copy(out, u.candidates)
	return out
}

func (u *Union) Len() int          { return len(u.candidates) }
func (u *Union) At(i int) Node     { return u.candidates[i] }
func (u *Union) Span() source.Span { return u.span }
func (u *Union) isNode()           {}

func (u *Union) Copy() Node {
	cs := make([]Node, len(u.candidates))
	for i, c := range u.candidates {
		cs[i] = c.Copy()
	}
	return &Union{candidates: cs, span: u.span}
}

func (u *Union) String() string {
	parts := make([]string, len(u.candidates))
	for i, c := range u.candidates {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

// Generic is a parameterized type such as list<int> or map<string, html>.
type Generic struct {
	name string
	args []Node
	span source.Span
}

func NewGeneric(name string, span source.Span, args ...Node) *Generic {
	as := make([]Node, len(args))
	copy(as, args)
	return &Generic{name: name, args: as, span: span}
}

func (g *Generic) Name() string      { return g.name }
func (g *Generic) Span() source.Span { return g.span }
func (g *Generic) isNode()           {}

// Args returns a copy of the type arguments.
func (g *Generic) Args() []Node {
	out := make([]Node, len(g.args))
	copy(out, g.args)
	return out
}

func (g *Generic) Copy() Node {
	as := make([]Node, len(g.args))
	for i, a := range g.args {
		as[i] = a.Copy()
	}
	return &Generic{name: g.name, args: as, span: g.span}
}

func (g *Generic) String() string {
	var sb strings.Builder
	sb.WriteString(g.name)
	sb.WriteByte('<')
	for i, a := range g.args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte('>')
	return sb.String()
}

// Copy is a nil-safe Node.Copy.
func Copy(n Node) Node {
	if n == nil {
		return nil
	}
	return n.Copy()
}

// Format is a nil-safe Node.String; absent types print as "<none>".
func Format(n Node) string {
	if n == nil {
		return "<none>"
	}
	return n.String()
}
