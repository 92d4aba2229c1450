// Package expr models the small expression subtrees the parameter core owns:
// default values and the argument lists of plugin function calls.
// Evaluation is the business of code generators.
package expr

import (
	"strconv"
	"strings"

	"soyc/internal/source"
)

// Node is an expression tree node.
type Node interface {
	Span() source.Span
	String() string
	exprNode()
}

type (
	Null struct {
		Loc source.Span
	}
	Bool struct {
		Value bool
		Loc   source.Span
	}
	Int struct {
		Value int64
		Loc   source.Span
	}
	Float struct {
		Value float64
		Loc   source.Span
	}
	String struct {
		Value string
		Loc   source.Span
	}
	List struct {
		Items []Node
		Loc   source.Span
	}
	MapEntry struct {
		Key   Node
		Value Node
	}
	Map struct {
		Entries []MapEntry
		Loc     source.Span
	}
	// Ref reads a template parameter: $name.
	Ref struct {
		Name string
		Loc  source.Span
	}
	// Call invokes a plugin function.
	Call struct {
		Name string
		Args []Node
		Loc  source.Span
	}
)

func (n *Null) Span() source.Span   { return n.Loc }
func (n *Bool) Span() source.Span   { return n.Loc }
func (n *Int) Span() source.Span    { return n.Loc }
func (n *Float) Span() source.Span  { return n.Loc }
func (n *String) Span() source.Span { return n.Loc }
func (n *List) Span() source.Span   { return n.Loc }
func (n *Map) Span() source.Span    { return n.Loc }
func (n *Ref) Span() source.Span    { return n.Loc }
func (n *Call) Span() source.Span   { return n.Loc }

func (*Null) exprNode()   {}
func (*Bool) exprNode()   {}
func (*Int) exprNode()    {}
func (*Float) exprNode()  {}
func (*String) exprNode() {}
func (*List) exprNode()   {}
func (*Map) exprNode()    {}
func (*Ref) exprNode()    {}
func (*Call) exprNode()   {}

func (n *Null) String() string { return "null" }
func (n *Bool) String() string { return strconv.FormatBool(n.Value) }
func (n *Int) String() string  { return strconv.FormatInt(n.Value, 10) }

func (n *Float) String() string {
	s := strconv.FormatFloat(n.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func (n *String) String() string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(n.Value, `\`, `\\`), "'", `\'`) + "'"
}

func (n *List) String() string {
	return "[" + joinNodes(n.Items) + "]"
}

func (n *Map) String() string {
	var sb strings.Builder
	sb.WriteString("map(")
	for i, e := range n.Entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.Key.String())
		sb.WriteString(": ")
		sb.WriteString(e.Value.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (n *Ref) String() string { return "$" + n.Name }

func (n *Call) String() string {
	return n.Name + "(" + joinNodes(n.Args) + ")"
}

func joinNodes(nodes []Node) string {
	parts := make([]string, len(nodes))
	for i, it := range nodes {
		parts[i] = it.String()
	}
	return strings.Join(parts, ", ")
}

// Format is a nil-safe String.
func Format(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}
