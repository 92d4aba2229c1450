package pysrc

import (
	"errors"
	"testing"

	"soyc/internal/backend"
	"soyc/internal/bidi"
	"soyc/internal/expr"
	"soyc/internal/param"
	"soyc/internal/plugin"
	"soyc/internal/template"
	"soyc/internal/typenode"
	"soyc/internal/types"
)

type containsFn struct{ *plugin.Func }

func (containsFn) ApplyForPySrc(f *ValueFactory, args []Value, _ Context) Value {
	return f.Binary("in", args[1], args[0], Bool)
}

type dirFn struct{}

func (dirFn) ApplyForPySrc(_ *ValueFactory, _ []Value, ctx Context) Value {
	return ctx.BidiDirection()
}

func newEnv(t *testing.T, d *plugin.Dispatcher, dir bidi.Dir, names ...string) *backend.Env {
	t.Helper()
	in := types.NewInterner()
	params := make([]*param.Parameter, len(names))
	for i, name := range names {
		n, err := typenode.Parse(0, 0, "string")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		p := param.New(param.Decl{Name: name, Type: n})
		if err := p.BindType(in.Builtins().String); err != nil {
			t.Fatalf("bind: %v", err)
		}
		params[i] = p
	}
	return &backend.Env{In: in, Dispatcher: d, Dir: dir, Template: &template.Template{Name: "ns.test", Params: params}}
}

func TestBidiDirection(t *testing.T) {
	d := plugin.NewDispatcher()
	fn := plugin.NewFunc("bidiDirSign", plugin.MustSignature("int"))
	if err := Register(d, fn, dirFn{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	d.Seal()
	tests := []struct {
		name string
		dir  bidi.Dir
		want string
	}{
		{name: "rtl", dir: bidi.RTL, want: "-1"},
		{name: "ltr", dir: bidi.LTR, want: "1"},
		{name: "runtime", dir: bidi.Unknown, want: "bidi.get_bidi_dir()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Target{}.Lower(newEnv(t, d, tt.dir), &expr.Call{Name: "bidiDirSign"})
			if err != nil {
				t.Fatalf("Lower: %v", err)
			}
			if v.Code() != tt.want {
				t.Fatalf("code = %q, want %q", v.Code(), tt.want)
			}
		})
	}
}

func TestLowerDirect(t *testing.T) {
	d := plugin.NewDispatcher()
	fn := containsFn{plugin.NewFunc("strContains", plugin.MustSignature("bool", "string", "string"))}
	if err := d.Declare(fn); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	d.Seal()
	env := newEnv(t, d, bidi.LTR, "haystack")

	h, err := Resolve(d, fn)
	if err != nil || !h.Direct {
		t.Fatalf("Resolve = %+v, %v; want direct handle", h, err)
	}
	v, err := Target{}.Lower(env, &expr.Call{Name: "strContains", Args: []expr.Node{
		&expr.Ref{Name: "haystack"}, &expr.String{Value: "x"},
	}})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	if want := "'x' in data.get('haystack')"; v.Code() != want {
		t.Fatalf("code = %q, want %q", v.Code(), want)
	}
}

func TestApplyArity(t *testing.T) {
	d := plugin.NewDispatcher()
	fn := containsFn{plugin.NewFunc("strContains", plugin.MustSignature("bool", "string", "string"))}
	if err := d.Declare(fn); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	d.Seal()
	h, err := Resolve(d, fn)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	f := NewValueFactory(types.NewInterner())
	_, err = Apply(newEnv(t, d, bidi.LTR), h, []Value{f.String("a")})
	if !errors.Is(err, backend.ErrArity) {
		t.Fatalf("err = %v, want ErrArity", err)
	}
}

func TestLowerArityMismatch(t *testing.T) {
	d := plugin.NewDispatcher()
	if err := d.Declare(containsFn{plugin.NewFunc("strContains", plugin.MustSignature("bool", "string", "string"))}); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	d.Seal()
	_, err := Target{}.Lower(newEnv(t, d, bidi.LTR), &expr.Call{Name: "strContains"})
	if !errors.Is(err, backend.ErrArity) {
		t.Fatalf("err = %v, want ErrArity", err)
	}
	_, err = Target{}.Lower(newEnv(t, d, bidi.LTR), &expr.Call{Name: "nope"})
	if !errors.Is(err, backend.ErrUnknownFunction) {
		t.Fatalf("err = %v, want ErrUnknownFunction", err)
	}
}

func TestTypes(t *testing.T) {
	in := types.NewInterner()
	b := in.Builtins()
	tests := []struct {
		name  string
		bound types.TypeID
		want  string
	}{
		{name: "number", bound: b.Number, want: "float"},
		{name: "optional int", bound: in.Union(b.Int, b.Null), want: "Optional[int]"},
		{name: "map", bound: in.Map(b.String, b.Int), want: "Dict[str, int]"},
		{name: "unknown", bound: b.Unknown, want: "Any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nt := FromBound(in, tt.bound)
			if nt.String() != tt.want {
				t.Fatalf("FromBound = %s, want %s", nt, tt.want)
			}
			if !nt.Covers(in, tt.bound) {
				t.Fatalf("%s does not cover %s", nt, in.Format(tt.bound))
			}
		})
	}
}

func TestLiterals(t *testing.T) {
	f := NewValueFactory(types.NewInterner())
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{name: "none", v: f.Null(), want: "None"},
		{name: "true", v: f.Bool(true), want: "True"},
		{name: "float", v: f.Float(1), want: "1.0"},
		{name: "dict", v: f.Map(Entry{Key: f.String("a"), Value: f.Int(1)}), want: "{'a': 1}"},
		{name: "list", v: f.List(f.Int(1), f.Float(1.5)), want: "[1, 1.5]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Code() != tt.want {
				t.Fatalf("code = %q, want %q", tt.v.Code(), tt.want)
			}
		})
	}
}
