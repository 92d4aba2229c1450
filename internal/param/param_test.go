package param

import (
	"errors"
	"testing"

	"soyc/internal/expr"
	"soyc/internal/source"
	"soyc/internal/typenode"
	"soyc/internal/types"
)

func parseType(t *testing.T, text string) typenode.Node {
	t.Helper()
	n, err := typenode.Parse(0, 0, text)
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return n
}

func TestOptionalWidensToNullable(t *testing.T) {
	for _, text := range []string{"string", "list<int>", "int|html", "?"} {
		t.Run(text, func(t *testing.T) {
			declared := parseType(t, text)
			p := New(Decl{Name: "p", Type: declared, Optional: true})

			want := typenode.UnionWith(parseType(t, text), typenode.Null(source.Span{}))
			if !typenode.Equal(p.Type(), want) {
				t.Fatalf("Type() = %s, want %s", p.Type(), want)
			}
			if !typenode.Equal(p.OriginalType(), parseType(t, text)) {
				t.Fatalf("OriginalType() = %s, want %s", p.OriginalType(), text)
			}
			if p.OriginalType() != declared {
				t.Fatalf("original type must be the declared tree")
			}
			if declared.String() != parseType(t, text).String() {
				t.Fatalf("declared tree mutated to %s", declared)
			}
			if !p.Widened() || p.IsRequired() {
				t.Fatalf("widened=%v required=%v", p.Widened(), p.IsRequired())
			}
		})
	}
}

func TestWideningIsIdempotent(t *testing.T) {
	for _, text := range []string{"string|null", "null", "null|int", "int|(html|null)"} {
		t.Run(text, func(t *testing.T) {
			declared := parseType(t, text)
			p := New(Decl{Name: "p", Type: declared, Optional: true})
			if p.Type() != declared || p.OriginalType() != declared {
				t.Fatalf("already nullable type must be kept as is")
			}
			if !typenode.Equal(p.Type(), parseType(t, text)) {
				t.Fatalf("Type() = %s, want %s", p.Type(), text)
			}
			if p.Widened() {
				t.Fatalf("nullable type reported as widened")
			}

			again := New(Decl{Name: "p", Type: p.Type(), Optional: true})
			if !typenode.Equal(again.Type(), p.Type()) {
				t.Fatalf("re-widening changed the type: %s", again.Type())
			}
		})
	}
}

func TestNonOptionalKeepsType(t *testing.T) {
	declared := parseType(t, "string")
	p := New(Decl{Name: "p", Type: declared})
	if p.Type() != declared || p.OriginalType() != declared {
		t.Fatalf("non-optional parameter type changed")
	}
}

func TestMissingTypeSkipsWidening(t *testing.T) {
	p := New(Decl{Name: "p", Optional: true})
	if p.Type() != nil || p.OriginalType() != nil {
		t.Fatalf("absent type must stay absent")
	}
	if p.IsRequired() {
		t.Fatalf("optional parameter must not be required")
	}
	q := New(Decl{Name: "q"})
	if !q.IsRequired() {
		t.Fatalf("untyped non-optional parameter without default is required")
	}
}

func TestIsRequired(t *testing.T) {
	def := &expr.String{Value: "x"}
	tests := []struct {
		name     string
		typ      string
		optional bool
		def      expr.Node
		want     bool
	}{
		{name: "plain string", typ: "string", want: true},
		{name: "nullable string", typ: "string|null", want: false},
		{name: "optional", typ: "string", optional: true, want: false},
		{name: "default", typ: "string", def: def, want: false},
		{name: "optional with default", typ: "string", optional: true, def: def, want: false},
		{name: "null type", typ: "null", want: false},
		{name: "unknown type", typ: "?", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(Decl{Name: "p", Type: parseType(t, tt.typ), Optional: tt.optional, Default: tt.def})
			if p.IsRequired() != tt.want {
				t.Fatalf("IsRequired() = %v, want %v", p.IsRequired(), tt.want)
			}
		})
	}
}

func TestCopyIsDeepAndUnbound(t *testing.T) {
	src := New(Decl{
		Name:        "items",
		NameSpan:    source.Span{File: 1, Start: 3, End: 8},
		Span:        source.Span{File: 1, Start: 0, End: 30},
		Type:        parseType(t, "list<string>"),
		Optional:    true,
		Injected:    true,
		Description: "things to render",
		Default:     &expr.List{Items: []expr.Node{&expr.String{Value: "a"}}},
	})
	if err := src.BindType(types.TypeID(7)); err != nil {
		t.Fatalf("BindType: %v", err)
	}

	cp := src.Copy()
	if cp.Type() == src.Type() || cp.OriginalType() == src.OriginalType() || cp.Default() == src.Default() {
		t.Fatalf("copy shares trees with its source")
	}
	if !typenode.Equal(cp.Type(), src.Type()) || !typenode.Equal(cp.OriginalType(), src.OriginalType()) {
		t.Fatalf("copy types differ: %s / %s", cp.Type(), cp.OriginalType())
	}
	if !expr.Equal(cp.Default(), src.Default()) {
		t.Fatalf("copy default differs")
	}
	if cp.Name() != src.Name() || cp.NameSpan() != src.NameSpan() || cp.Span() != src.Span() ||
		cp.IsInjected() != src.IsInjected() || cp.IsRequired() != src.IsRequired() ||
		cp.IsOptional() != src.IsOptional() || cp.Description() != src.Description() {
		t.Fatalf("copy scalars differ")
	}
	if _, ok := cp.ResolvedType(); ok {
		t.Fatalf("copy must start unbound")
	}
	if !cp.Widened() {
		t.Fatalf("copy lost the widened/original distinction")
	}

	if err := cp.BindType(types.TypeID(9)); err != nil {
		t.Fatalf("binding the copy: %v", err)
	}
	if got, _ := src.ResolvedType(); got != 7 {
		t.Fatalf("binding the copy changed the source to %d", got)
	}

	cp.Default().(*expr.List).Items[0] = &expr.Int{Value: 1}
	if src.Default().(*expr.List).Items[0].String() != "'a'" {
		t.Fatalf("mutating the copy default reached the source")
	}
}

func TestCopyKeepsSharedTypeIdentity(t *testing.T) {
	src := New(Decl{Name: "p", Type: parseType(t, "int")})
	cp := src.Copy()
	if cp.Type() != cp.OriginalType() {
		t.Fatalf("unwidened copy must keep type and original type identical")
	}
	none := New(Decl{Name: "n"}).Copy()
	if none.Type() != nil || none.OriginalType() != nil || none.Default() != nil {
		t.Fatalf("nil fields must stay nil on copy")
	}
}

func TestBindTypeOnce(t *testing.T) {
	p := New(Decl{Name: "title", Type: parseType(t, "string")})
	if _, ok := p.ResolvedType(); ok {
		t.Fatalf("fresh parameter must be unbound")
	}
	if err := p.BindType(types.TypeID(3)); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	if got, ok := p.ResolvedType(); !ok || got != 3 {
		t.Fatalf("ResolvedType() = %d, %v", got, ok)
	}
	if p.MustResolvedType() != 3 {
		t.Fatalf("MustResolvedType mismatch")
	}

	err := p.BindType(types.TypeID(4))
	if !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("second bind error = %v, want ErrAlreadyBound", err)
	}
	var be *BindError
	if !errors.As(err, &be) || be.Param != "title" {
		t.Fatalf("error does not name the parameter: %v", err)
	}
	if got, _ := p.ResolvedType(); got != 3 {
		t.Fatalf("second bind overwrote the type with %d", got)
	}
}

func TestMustResolvedTypePanicsWhenUnbound(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	New(Decl{Name: "p"}).MustResolvedType()
}
