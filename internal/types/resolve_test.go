package types

import (
	"testing"

	"soyc/internal/diag"
	"soyc/internal/typenode"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     string
		wantCode diag.Code
	}{
		{name: "primitive", text: "string", want: "string"},
		{name: "nullable", text: "null|html", want: "html|null"},
		{name: "number", text: "number", want: "int|float"},
		{name: "list", text: "list<int|null>", want: "list<int|null>"},
		{name: "iterable as list", text: "iterable<string>", want: "list<string>"},
		{name: "map", text: "map<string, list<uri>>", want: "map<string, list<uri>>"},
		{name: "unknown name", text: "strnig", want: "?", wantCode: diag.SemaUnknownType},
		{name: "bare generic", text: "list", want: "?", wantCode: diag.SemaBadTypeArgs},
		{name: "wrong arity", text: "map<string>", want: "?", wantCode: diag.SemaBadTypeArgs},
		{name: "unknown generic", text: "set<int>", want: "?", wantCode: diag.SemaUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := typenode.Parse(0, 0, tt.text)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			bag := diag.NewBag(10)
			in := NewInterner()
			id := NewResolver(in, diag.BagReporter{Bag: bag}).Resolve(node)
			if got := in.Format(id); got != tt.want {
				t.Fatalf("Resolve(%s) = %s, want %s", tt.text, got, tt.want)
			}
			if tt.wantCode == diag.UnknownCode {
				if bag.Len() != 0 {
					t.Fatalf("unexpected diagnostics: %+v", bag.Items())
				}
				return
			}
			if bag.Len() != 1 || bag.Items()[0].Code != tt.wantCode {
				t.Fatalf("expected %s, got %+v", tt.wantCode.ID(), bag.Items())
			}
		})
	}
}

func TestResolveNil(t *testing.T) {
	if id := NewResolver(NewInterner(), nil).Resolve(nil); id != NoTypeID {
		t.Fatalf("nil node must resolve to NoTypeID, got %d", id)
	}
}
