package typenode

// IsNullable reports whether n admits null: n is the null type itself or a
// union with a null candidate. Nested unions are scanned too, since UnionWith
// appends a union argument as a single candidate.
func IsNullable(n Node) bool {
	switch t := n.(type) {
	case *Named:
		return t.name == NullName
	case *Union:
		for _, c := range t.candidates {
			if IsNullable(c) {
				return true
			}
		}
	}
	return false
}

// UnionWith adds extra as a candidate. A union receiver yields a new union with
// extra appended (no deduplication); anything else yields {n, extra}.
// Neither input is modified.
func UnionWith(n, extra Node) Node {
	if u, ok := n.(*Union); ok {
		cs := make([]Node, 0, len(u.candidates)+1)
		cs = append(cs, u.candidates...)
		cs = append(cs, extra)
		return &Union{candidates: cs, span: u.span.Cover(extra.Span())}
	}
	return &Union{candidates: []Node{n, extra}, span: n.Span().Cover(extra.Span())}
}

// Equal compares trees structurally. Spans do not participate.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Named:
		y, ok := b.(*Named)
		return ok && x.name == y.name
	case *Union:
		y, ok := b.(*Union)
		return ok && equalLists(x.candidates, y.candidates)
	case *Generic:
		y, ok := b.(*Generic)
		return ok && x.name == y.name && equalLists(x.args, y.args)
	}
	return false
}

func equalLists(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
