package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"soyc/internal/manifest"
)

func TestCollectFunctions(t *testing.T) {
	d, err := newDispatcher()
	if err != nil {
		t.Fatalf("newDispatcher: %v", err)
	}
	got := map[string][]string{}
	for _, info := range collectFunctions(d) {
		got[info.Name] = info.Backends
	}
	all := []string{"jssrc", "pysrc", "swiftsrc"}
	want := map[string][]string{
		"bidiDirSign": all,
		"floor":       all,
		"isRtl":       {"swiftsrc"},
		"keys":        all,
		"strContains": all,
		"strLen":      all,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("functions (-want +got):\n%s", diff)
	}
}

const sampleDecl = `
[[template]]
name = "ns.greeting"

[[template.param]]
name = "name"
type = "string"

[[template.param]]
name = "count"
type = "int"
optional = true

[[template.call]]
function = "strLen"
args = ["$name"]

[[template.call]]
function = "bidiDirSign"
`

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompileWritesManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.toml"), []byte(sampleDecl), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, dir, "compile", "--ui", "off", "--locale", "ar", "--emit", "json", "--out", "gen", "greeting.toml")
	if err != nil {
		t.Fatalf("compile: %v\n%s", err, out)
	}
	f, err := os.Open(filepath.Join(dir, "gen", "manifest.json"))
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer f.Close()
	m, err := manifest.Decode(f, manifest.FormatJSON)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(m.Backends) != 3 || m.Dir != -1 {
		t.Fatalf("manifest: %+v", m)
	}
	for _, b := range m.Backends {
		var code string
		for _, c := range b.Calls {
			if c.Function == "bidiDirSign" {
				code = c.Code
			}
		}
		if code != "-1" {
			t.Fatalf("%s: bidiDirSign lowered to %q", b.Name, code)
		}
	}
}

func TestCheckReportsErrors(t *testing.T) {
	dir := t.TempDir()
	decl := strings.Replace(sampleDecl, `function = "bidiDirSign"`, `function = "isRtl"`, 1)
	if err := os.WriteFile(filepath.Join(dir, "rtl.toml"), []byte(decl), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, dir, "check", "--ui", "off", "--backend", "jssrc", "rtl.toml")
	if err == nil {
		t.Fatalf("expected failure, got:\n%s", out)
	}
	if !strings.Contains(out, "PLG4001") {
		t.Fatalf("missing implementation not reported:\n%s", out)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := run(t, t.TempDir(), "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, `"tool": "soyc"`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestCheckPrintsProgressLines(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "greeting.toml"), []byte(sampleDecl), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, dir, "check", "--ui", "off", "--progress", "--backend", "pysrc", "greeting.toml")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	for _, want := range []string{"pysrc    clone  queued", "pysrc    check  working", "pysrc    lower  done"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFunctionsTable(t *testing.T) {
	out, err := run(t, t.TempDir(), "functions")
	if err != nil {
		t.Fatalf("functions: %v", err)
	}
	var rtl string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "isRtl") {
			rtl = line
		}
	}
	if !strings.Contains(rtl, "swiftsrc") || strings.Contains(rtl, "jssrc") {
		t.Fatalf("isRtl row = %q in:\n%s", rtl, out)
	}
	if !strings.Contains(out, "jssrc,pysrc,swiftsrc") {
		t.Fatalf("strLen backends missing:\n%s", out)
	}
}

func TestReadUIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{in: "", want: uiModeAuto},
		{in: " ON ", want: uiModeOn},
		{in: "off", want: uiModeOff},
		{in: "sometimes", wantErr: true},
	}
	for _, tt := range tests {
		got, err := readUIMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Fatalf("readUIMode(%q) = %q, %v", tt.in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff) || !shouldUseTUI(uiModeOn) {
		t.Fatalf("explicit modes ignored")
	}
}
