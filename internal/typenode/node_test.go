package typenode

import (
	"testing"

	"soyc/internal/source"
)

func mustParse(t *testing.T, text string) Node {
	t.Helper()
	n, err := Parse(0, 0, text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return n
}

func TestIsNullable(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "plain", text: "string", want: false},
		{name: "null only", text: "null", want: true},
		{name: "union with null", text: "int|null", want: true},
		{name: "null first", text: "null|int", want: true},
		{name: "nested union", text: "int|(html|null)", want: true},
		{name: "null inside generic is not nullable", text: "list<null>", want: false},
		{name: "union without null", text: "int|string", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNullable(mustParse(t, tt.text)); got != tt.want {
				t.Fatalf("IsNullable(%s) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestUnionWithAppendsToUnion(t *testing.T) {
	base := mustParse(t, "int|string")
	got := UnionWith(base, Null(source.Span{}))
	want := mustParse(t, "int|string|null")
	if !Equal(got, want) {
		t.Fatalf("UnionWith = %s, want %s", got, want)
	}
	if base.String() != "int|string" {
		t.Fatalf("receiver mutated: %s", base)
	}
}

func TestUnionWithWrapsNonUnion(t *testing.T) {
	got := UnionWith(mustParse(t, "list<int>"), mustParse(t, "null"))
	u, ok := got.(*Union)
	if !ok || u.Len() != 2 {
		t.Fatalf("expected two-candidate union, got %s", got)
	}
	if !Equal(u.At(0), mustParse(t, "list<int>")) || !Equal(u.At(1), Null(source.Span{})) {
		t.Fatalf("unexpected candidates in %s", got)
	}
}

func TestUnionWithKeepsDuplicates(t *testing.T) {
	got := UnionWith(mustParse(t, "int|null"), Null(source.Span{}))
	if got.String() != "int|null|null" {
		t.Fatalf("UnionWith must not deduplicate, got %s", got)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	orig := mustParse(t, "map<string, list<int>>|null")
	cp := orig.Copy()
	if !Equal(orig, cp) {
		t.Fatalf("copy differs: %s vs %s", orig, cp)
	}
	if orig == cp {
		t.Fatalf("copy returned the same root")
	}
	ou, cu := orig.(*Union), cp.(*Union)
	for i := 0; i < ou.Len(); i++ {
		if ou.At(i) == cu.At(i) {
			t.Fatalf("candidate %d shared between original and copy", i)
		}
	}
	og := ou.At(0).(*Generic)
	cg := cu.At(0).(*Generic)
	if og.Args()[1] == cg.Args()[1] {
		t.Fatalf("generic argument shared between original and copy")
	}
}

func TestCandidatesReturnsCopy(t *testing.T) {
	u := mustParse(t, "int|string").(*Union)
	cs := u.Candidates()
	cs[0] = Null(source.Span{})
	if u.At(0).String() != "int" {
		t.Fatalf("union mutated through Candidates()")
	}
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := NewNamed("int", source.Span{Start: 1, End: 4})
	b := NewNamed("int", source.Span{Start: 20, End: 23})
	if !Equal(a, b) {
		t.Fatalf("spans must not affect equality")
	}
	if Equal(a, nil) || !Equal(nil, nil) {
		t.Fatalf("nil handling broken")
	}
	if Equal(mustParse(t, "list<int>"), mustParse(t, "list|int")) {
		t.Fatalf("generic and union compared equal")
	}
}
