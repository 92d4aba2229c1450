package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"soyc/internal/source"
)

func sampleTree() Node {
	sp := source.Span{File: 1, Start: 2, End: 9}
	return &Map{Loc: sp, Entries: []MapEntry{
		{Key: &String{Value: "k"}, Value: &List{Items: []Node{&Int{Value: 1}, &Ref{Name: "p"}, &Null{}}}},
		{Key: &String{Value: "f"}, Value: &Call{Name: "strLen", Args: []Node{&String{Value: "it's"}}}},
	}}
}

func TestCopyDeep(t *testing.T) {
	orig := sampleTree()
	cp := Copy(orig)
	if !Equal(orig, cp) {
		t.Fatalf("copy differs: %s vs %s", orig, cp)
	}
	if diff := cmp.Diff(orig, cp); diff != "" {
		t.Fatalf("copy differs structurally (-orig +copy):\n%s", diff)
	}

	// Mutating the copy must not reach the original.
	m := cp.(*Map)
	m.Entries[0].Value.(*List).Items[0].(*Int).Value = 42
	m.Entries[1].Value.(*Call).Args = nil
	if Equal(orig, cp) {
		t.Fatalf("original observed mutation of copy")
	}
	if got := orig.(*Map).Entries[0].Value.(*List).Items[0].(*Int).Value; got != 1 {
		t.Fatalf("original int changed to %d", got)
	}
	if Copy(nil) != nil {
		t.Fatalf("nil must copy to nil")
	}
	if CopyCall(nil) != nil {
		t.Fatalf("nil call must copy to nil")
	}
}

func TestString(t *testing.T) {
	want := "map('k': [1, $p, null], 'f': strLen('it\\'s'))"
	if got := sampleTree().String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if got := (&Float{Value: 2}).String(); got != "2.0" {
		t.Fatalf("float String() = %q", got)
	}
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		refs bool
		want string
	}{
		{name: "nil", in: nil, want: "null"},
		{name: "toml int", in: int64(3), want: "3"},
		{name: "yaml int", in: 3, want: "3"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "string", in: "hi", want: "'hi'"},
		{name: "ref", in: "$name", refs: true, want: "$name"},
		{name: "dollar literal without refs", in: "$name", want: "'$name'"},
		{name: "bare dollar", in: "$", refs: true, want: "'$'"},
		{name: "list", in: []any{true, "x"}, want: "[true, 'x']"},
		{name: "map sorted", in: map[string]any{"b": 1, "a": 2}, want: "map('a': 2, 'b': 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := FromValue(tt.in, source.Span{}, tt.refs)
			if err != nil {
				t.Fatalf("FromValue: %v", err)
			}
			if n.String() != tt.want {
				t.Fatalf("got %s, want %s", n, tt.want)
			}
		})
	}
	if _, err := FromValue(struct{}{}, source.Span{}, false); err == nil {
		t.Fatalf("expected error for unsupported value")
	}
}

func TestRefs(t *testing.T) {
	got := Refs(sampleTree())
	if diff := cmp.Diff([]string{"p"}, got); diff != "" {
		t.Fatalf("Refs mismatch (-want +got):\n%s", diff)
	}
}
