package expr

import (
	"fmt"
	"sort"
	"strings"

	"soyc/internal/source"
)

// FromValue converts a value decoded from a TOML or YAML declaration file
// into a literal tree. Strings of the form "$name" become parameter references
// when refs is true. Map keys are sorted so that the result is deterministic.
func FromValue(v any, loc source.Span, refs bool) (Node, error) {
	switch t := v.(type) {
	case nil:
		return &Null{Loc: loc}, nil
	case bool:
		return &Bool{Value: t, Loc: loc}, nil
	case int:
		return &Int{Value: int64(t), Loc: loc}, nil
	case int64:
		return &Int{Value: t, Loc: loc}, nil
	case uint64:
		if t > 1<<63-1 {
			return nil, fmt.Errorf("integer %d out of range", t)
		}
		return &Int{Value: int64(t), Loc: loc}, nil
	case float64:
		return &Float{Value: t, Loc: loc}, nil
	case string:
		if refs && isRef(t) {
			return &Ref{Name: t[1:], Loc: loc}, nil
		}
		return &String{Value: t, Loc: loc}, nil
	case []any:
		items := make([]Node, 0, len(t))
		for i, it := range t {
			n, err := FromValue(it, loc, refs)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, n)
		}
		return &List{Items: items, Loc: loc}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]MapEntry, 0, len(keys))
		for _, k := range keys {
			val, err := FromValue(t[k], loc, refs)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			entries = append(entries, MapEntry{Key: &String{Value: k, Loc: loc}, Value: val})
		}
		return &Map{Entries: entries, Loc: loc}, nil
	}
	return nil, fmt.Errorf("unsupported literal of type %T", v)
}

func isRef(s string) bool {
	if len(s) < 2 || s[0] != '$' {
		return false
	}
	return !strings.ContainsAny(s[1:], " \t$.()[]")
}

// Refs returns the parameter names referenced in n, in visit order.
func Refs(n Node) []string {
	var out []string
	Walk(n, func(c Node) {
		if r, ok := c.(*Ref); ok {
			out = append(out, r.Name)
		}
	})
	return out
}
