package manifest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"soyc/internal/driver"
	"soyc/internal/expr"
	"soyc/internal/param"
	"soyc/internal/plugin"
	"soyc/internal/plugins/std"
	"soyc/internal/template"
	"soyc/internal/typenode"
)

func compileSample(t *testing.T) *driver.Result {
	t.Helper()
	d := plugin.NewDispatcher()
	if err := std.Install(d); err != nil {
		t.Fatalf("Install: %v", err)
	}
	d.Seal()
	str, err := typenode.Parse(0, 0, "string")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tmpl := &template.Template{
		Name: "ns.greet",
		Params: []*param.Parameter{
			param.New(param.Decl{Name: "name", Type: str, Default: &expr.String{Value: "x"}}),
			param.New(param.Decl{Name: "title", Type: typenode.NewNamed("string", str.Span()), Optional: true, Injected: true}),
		},
		Calls: []*expr.Call{{Name: "strLen", Args: []expr.Node{&expr.Ref{Name: "name"}}}},
	}
	res, err := driver.Compile(context.Background(), &driver.Request{
		Templates:  []*template.Template{tmpl},
		Backends:   []plugin.Backend{plugin.JSSrc},
		Dispatcher: d,
		Locale:     "he",
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return res
}

func TestBuild(t *testing.T) {
	m := Build(compileSample(t), "he")
	if _, err := uuid.Parse(m.BuildID); err != nil {
		t.Fatalf("build id %q: %v", m.BuildID, err)
	}
	want := []Backend{{
		Name: "jssrc",
		Templates: []Template{{
			Name: "ns.greet",
			Params: []Param{
				{
					Name:         "name",
					Type:         "string",
					OriginalType: "string",
					Resolved:     "string",
					Default:      `'x'`,
				},
				{
					Name:         "title",
					Type:         "string|null",
					OriginalType: "string",
					Resolved:     "string|null",
					Optional:     true,
					Widened:      true,
					Injected:     true,
				},
			},
			Functions: []string{"strLen"},
		}},
		Calls: []Call{{
			Template: "ns.greet",
			Function: "strLen",
			Params:   []string{"name"},
			Code:     "opt_data.name.length",
			Native:   "number(int)",
		}},
	}}
	if diff := cmp.Diff(want, m.Backends); diff != "" {
		t.Fatalf("backends mismatch (-want +got):\n%s", diff)
	}
	if m.Dir != -1 {
		t.Fatalf("dir: got %d", m.Dir)
	}
}

func TestRoundTrip(t *testing.T) {
	m := Build(compileSample(t), "he")
	for _, f := range []Format{FormatMsgpack, FormatJSON} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, m, f); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf, f)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(m, got); diff != "" {
				t.Fatalf("round trip (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRejectsSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&Manifest{Schema: SchemaVersion + 1}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(&buf, FormatMsgpack); !errors.Is(err, ErrSchema) {
		t.Fatalf("want ErrSchema, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	m := Build(compileSample(t), "")
	path, err := WriteFile(dir, "manifest", m, FormatJSON)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if filepath.Base(path) != "manifest.json" {
		t.Fatalf("path %q", path)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("leftover temp files: %v", entries)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatMsgpack {
		t.Fatalf("default: %v %v", f, err)
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
}
