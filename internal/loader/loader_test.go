package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"soyc/internal/diag"
	"soyc/internal/expr"
	"soyc/internal/source"
	"soyc/internal/template"
	"soyc/internal/typenode"
)

const greetingTOML = `
[[template]]
name = "ns.greeting"

[[template.param]]
name = "name"
type = "string"
description = "who to greet"

[[template.param]]
name = "count"
type = "int"
optional = true

[[template.param]]
name = "tone"
type = "string|null"
default = "warm"

[[template.param]]
name = "locale"
type = "string"
injected = true

[[template.call]]
function = "strLen"
args = ["$name"]

[[template.call]]
function = "floor"
args = [{ call = "strLen", args = ["$name"] }]
`

const greetingYAML = `
template:
  - name: ns.greeting
    param:
      - name: name
        type: string
        description: who to greet
      - name: count
        type: int
        optional: true
      - name: tone
        type: string|null
        default: warm
      - name: locale
        type: string
        injected: true
    call:
      - function: strLen
        args: ["$name"]
      - function: floor
        args:
          - call: strLen
            args: ["$name"]
`

type paramSummary struct {
	Name     string
	Type     string
	Original string
	Required bool
	Injected bool
	Default  string
}

type templateSummary struct {
	Name   string
	Params []paramSummary
	Calls  []string
}

func summarize(ts []*template.Template) []templateSummary {
	out := make([]templateSummary, 0, len(ts))
	for _, t := range ts {
		s := templateSummary{Name: t.Name}
		for _, p := range t.Params {
			s.Params = append(s.Params, paramSummary{
				Name:     p.Name(),
				Type:     typenode.Format(p.Type()),
				Original: typenode.Format(p.OriginalType()),
				Required: p.IsRequired(),
				Injected: p.IsInjected(),
				Default:  expr.Format(p.Default()),
			})
		}
		for _, c := range t.Calls {
			s.Calls = append(s.Calls, c.String())
		}
		out = append(out, s)
	}
	return out
}

func parse(t *testing.T, name, content string) ([]*template.Template, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(0)
	id := fs.AddVirtual(name, []byte(content))
	ts, err := New(fs, diag.BagReporter{Bag: bag}).Parse(id)
	if err != nil {
		t.Fatalf("Parse(%s): %v", name, err)
	}
	return ts, bag, fs
}

func TestParseFormats(t *testing.T) {
	want := []templateSummary{{
		Name: "ns.greeting",
		Params: []paramSummary{
			{Name: "name", Type: "string", Original: "string", Required: true},
			{Name: "count", Type: "int|null", Original: "int"},
			{Name: "tone", Type: "string|null", Original: "string|null", Default: "'warm'"},
			{Name: "locale", Type: "string", Original: "string", Required: true, Injected: true},
		},
		Calls: []string{"strLen($name)", "floor(strLen($name))"},
	}}
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "toml", file: "greeting.toml", content: greetingTOML},
		{name: "yaml", file: "greeting.yaml", content: greetingYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, bag, _ := parse(t, tt.file, tt.content)
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", bag.Items())
			}
			if diff := cmp.Diff(want, summarize(ts)); diff != "" {
				t.Fatalf("templates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBadTypeIsDeferred(t *testing.T) {
	content := `
[[template]]
name = "ns.t"

[[template.param]]
name = "p"
type = "list<int"
optional = true
`
	ts, bag, fs := parse(t, "bad.toml", content)
	if len(ts) != 1 || len(ts[0].Params) != 1 {
		t.Fatalf("templates = %v", summarize(ts))
	}
	p := ts[0].Params[0]
	if p.Type() != nil || p.OriginalType() != nil {
		t.Fatalf("type = %v, want absent", p.Type())
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynBadType {
		t.Fatalf("diagnostics = %v, want one SynBadType", items)
	}
	if got := fs.Position(items[0].Primary); got != "bad.toml:7:17" {
		t.Fatalf("position = %s", got)
	}
}

func TestDuplicateParam(t *testing.T) {
	content := `
[[template]]
name = "ns.t"

[[template.param]]
name = "p"
type = "int"

[[template.param]]
name = "p"
type = "string"
`
	ts, bag, _ := parse(t, "dup.toml", content)
	if len(ts[0].Params) != 1 {
		t.Fatalf("params = %d, want 1", len(ts[0].Params))
	}
	items := bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaDuplicateParam {
		t.Fatalf("diagnostics = %v", items)
	}
	if len(items[0].Notes) != 1 {
		t.Fatalf("notes = %v, want first declaration note", items[0].Notes)
	}
}

func TestMalformedDeclarations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    diag.Code
	}{
		{name: "unnamed template", content: "[[template]]\nparam = []\n", code: diag.SynBadDecl},
		{name: "unnamed param", content: "[[template]]\nname = \"t\"\n[[template.param]]\ntype = \"int\"\n", code: diag.SynBadDecl},
		{name: "call without function", content: "[[template]]\nname = \"t\"\n[[template.call]]\nargs = [1]\n", code: diag.SynBadCallArgs},
		{name: "unknown key", content: "[[template]]\nname = \"t\"\ncolour = \"red\"\n", code: diag.SynBadDecl},
		{name: "no templates", content: "# empty\n", code: diag.SynBadDecl},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag, _ := parse(t, "m.toml", tt.content)
			items := bag.Items()
			if len(items) == 0 || items[0].Code != tt.code {
				t.Fatalf("diagnostics = %v, want %s", items, tt.code)
			}
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "decl.toml")
	if err := os.WriteFile(path, []byte(greetingTOML), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	l := New(source.NewFileSet(), nil)
	ts, err := l.LoadAll([]string{path})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(ts) != 1 || ts[0].Name != "ns.greeting" {
		t.Fatalf("templates = %v", summarize(ts))
	}
	if _, err := l.Load(filepath.Join(dir, "decl.json")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := l.Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not exist", err)
	}
}

func TestYAMLRejectsUnknownField(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("x.yaml", []byte("template:\n  - name: t\n    colour: red\n"))
	if _, err := New(fs, nil).Parse(id); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestYAMLNullDefaultIsKept(t *testing.T) {
	content := `
template:
  - name: ns.t
    param:
      - name: s
        type: string
        default: null
      - name: plain
        type: string
`
	ts, bag, _ := parse(t, "null.yaml", content)
	if bag.Len() != 0 {
		t.Fatalf("diagnostics = %v", bag.Items())
	}
	if len(ts) != 1 || len(ts[0].Params) != 2 {
		t.Fatalf("templates = %v", summarize(ts))
	}
	s, plain := ts[0].Params[0], ts[0].Params[1]
	if !s.HasDefault() || s.IsRequired() {
		t.Fatalf("s: HasDefault=%v IsRequired=%v, want true/false", s.HasDefault(), s.IsRequired())
	}
	if _, ok := s.Default().(*expr.Null); !ok {
		t.Fatalf("s default = %T, want *expr.Null", s.Default())
	}
	if plain.HasDefault() || !plain.IsRequired() {
		t.Fatalf("plain: HasDefault=%v IsRequired=%v, want false/true", plain.HasDefault(), plain.IsRequired())
	}
}
