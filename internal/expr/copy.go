package expr

// Copy deep-copies a tree; nil stays nil.
func Copy(n Node) Node {
	switch t := n.(type) {
	case nil:
		return nil
	case *Null:
		c := *t
		return &c
	case *Bool:
		c := *t
		return &c
	case *Int:
		c := *t
		return &c
	case *Float:
		c := *t
		return &c
	case *String:
		c := *t
		return &c
	case *Ref:
		c := *t
		return &c
	case *List:
		return &List{Items: copyNodes(t.Items), Loc: t.Loc}
	case *Map:
		entries := make([]MapEntry, len(t.Entries))
		for i, e := range t.Entries {
			entries[i] = MapEntry{Key: Copy(e.Key), Value: Copy(e.Value)}
		}
		return &Map{Entries: entries, Loc: t.Loc}
	case *Call:
		return CopyCall(t)
	}
	panic("expr: unknown node type")
}

// CopyCall is Copy for call sites, keeping the concrete type.
func CopyCall(c *Call) *Call {
	if c == nil {
		return nil
	}
	return &Call{Name: c.Name, Args: copyNodes(c.Args), Loc: c.Loc}
}

func copyNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = Copy(n)
	}
	return out
}

// Equal compares trees structurally, ignoring spans.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.Value == y.Value
	case *Int:
		y, ok := b.(*Int)
		return ok && x.Value == y.Value
	case *Float:
		y, ok := b.(*Float)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Ref:
		y, ok := b.(*Ref)
		return ok && x.Name == y.Name
	case *List:
		y, ok := b.(*List)
		return ok && equalNodes(x.Items, y.Items)
	case *Map:
		y, ok := b.(*Map)
		if !ok || len(x.Entries) != len(y.Entries) {
			return false
		}
		for i := range x.Entries {
			if !Equal(x.Entries[i].Key, y.Entries[i].Key) || !Equal(x.Entries[i].Value, y.Entries[i].Value) {
				return false
			}
		}
		return true
	case *Call:
		y, ok := b.(*Call)
		return ok && x.Name == y.Name && equalNodes(x.Args, y.Args)
	}
	return false
}

func equalNodes(a, b []Node) bool {
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

// Walk visits n and its descendants in pre-order.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch t := n.(type) {
	case *List:
		for _, it := range t.Items {
			Walk(it, fn)
		}
	case *Map:
		for _, e := range t.Entries {
			Walk(e.Key, fn)
			Walk(e.Value, fn)
		}
	case *Call:
		for _, a := range t.Args {
			Walk(a, fn)
		}
	}
}
