package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"soyc/internal/plugin"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadFindsConfigAbove(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), `
[sources]
include = ["templates/*.toml"]

[compile]
backends = ["swift", "js"]
locale = "fa-IR"
jobs = 2

[output]
format = "json"
dir = "out"
`)
	writeFile(t, filepath.Join(root, "templates", "b.toml"), "")
	writeFile(t, filepath.Join(root, "templates", "a.toml"), "")
	sub := filepath.Join(root, "templates", "deep")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	p, ok, err := Load(sub)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	want := Config{
		Sources: SourcesConfig{Include: []string{"templates/*.toml"}},
		Compile: CompileConfig{Backends: []string{"swift", "js"}, Locale: "fa-IR", Jobs: 2, MaxDiagnostics: 200},
		Output:  OutputConfig{Format: "json", Dir: "out"},
	}
	if diff := cmp.Diff(want, p.Config); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	backends, err := p.Config.Backends()
	if err != nil {
		t.Fatalf("Backends: %v", err)
	}
	if diff := cmp.Diff([]plugin.Backend{plugin.SwiftSrc, plugin.JSSrc}, backends); diff != "" {
		t.Fatalf("backends (-want +got):\n%s", diff)
	}
	srcs, err := p.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	wantSrcs := []string{filepath.Join(root, "templates", "a.toml"), filepath.Join(root, "templates", "b.toml")}
	if diff := cmp.Diff(wantSrcs, srcs); diff != "" {
		t.Fatalf("sources (-want +got):\n%s", diff)
	}
}

func TestDefaultSourcesSkipConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ConfigName), "")
	writeFile(t, filepath.Join(root, "t.yaml"), "")
	p, ok, err := Load(root)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	srcs, err := p.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(srcs) != 1 || filepath.Base(srcs[0]) != "t.yaml" {
		t.Fatalf("sources: %v", srcs)
	}
	all, err := p.Config.Backends()
	if err != nil || len(all) != len(plugin.Backends) {
		t.Fatalf("default backends: %v %v", all, err)
	}
}

func TestLoadWithoutConfig(t *testing.T) {
	_, ok, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Skip("a soyc.toml exists above the temp dir")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[compile\n", "failed to parse TOML"},
		{"unknown key", "[compile]\nspeed = 3\n", "unknown key compile.speed"},
		{"backend", "[compile]\nbackends = [\"cobol\"]\n", "[compile].backends"},
		{"locale", "[compile]\nlocale = \"??\"\n", "[compile].locale"},
		{"jobs", "[compile]\njobs = -1\n", "[compile].jobs"},
		{"format", "[output]\nformat = \"xml\"\n", "[output].format"},
		{"empty dir", "[output]\ndir = \" \"\n", "[output].dir"},
		{"empty include", "[sources]\ninclude = []\n", "[sources].include"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ConfigName)
			writeFile(t, path, tt.body)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error containing %q, got %v", tt.want, err)
			}
		})
	}
}
