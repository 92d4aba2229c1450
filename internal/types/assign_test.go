package types

import "testing"

func TestAssignable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	strOrNull := in.Union(b.String, b.Null)

	tests := []struct {
		name     string
		to, from TypeID
		want     bool
	}{
		{name: "same", to: b.Int, from: b.Int, want: true},
		{name: "int to float", to: b.Float, from: b.Int, want: true},
		{name: "float to int", to: b.Int, from: b.Float, want: false},
		{name: "anything to any", to: b.Any, from: strOrNull, want: true},
		{name: "unknown source", to: b.Bool, from: b.Unknown, want: true},
		{name: "any source to int", to: b.Int, from: b.Any, want: false},
		{name: "member into union", to: strOrNull, from: b.String, want: true},
		{name: "nullable into non-null", to: b.String, from: strOrNull, want: false},
		{name: "html is not string", to: b.String, from: b.HTML, want: false},
		{name: "number into float", to: b.Float, from: b.Number, want: true},
		{name: "list covariance", to: in.List(b.Float), from: in.List(b.Int), want: true},
		{name: "list contravariance rejected", to: in.List(b.Int), from: in.List(b.Float), want: false},
		{name: "map", to: in.Map(b.String, b.Any), from: in.Map(b.String, b.Int), want: true},
		{name: "map key mismatch", to: in.Map(b.String, b.Any), from: in.Map(b.Int, b.Int), want: false},
		{name: "invalid", to: NoTypeID, from: NoTypeID, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.Assignable(tt.to, tt.from); got != tt.want {
				t.Fatalf("Assignable(%s, %s) = %v, want %v", in.Format(tt.to), in.Format(tt.from), got, tt.want)
			}
		})
	}
}
