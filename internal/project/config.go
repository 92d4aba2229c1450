// Package project reads soyc.toml, the per-project compile settings that
// command line flags override.
package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"soyc/internal/bidi"
	"soyc/internal/manifest"
	"soyc/internal/plugin"
)

type Config struct {
	Sources SourcesConfig `toml:"sources"`
	Compile CompileConfig `toml:"compile"`
	Output  OutputConfig  `toml:"output"`
}

type SourcesConfig struct {
	// Include holds glob patterns relative to the project root.
	Include []string `toml:"include"`
}

type CompileConfig struct {
	Backends       []string `toml:"backends"`
	Locale         string   `toml:"locale"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max_diagnostics"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Dir    string `toml:"dir"`
}

// Project is a loaded soyc.toml.
type Project struct {
	Path   string
	Root   string
	Config Config
}

// Default is the configuration used without a soyc.toml.
func Default() Config {
	return Config{
		Sources: SourcesConfig{Include: []string{"*.toml", "*.yaml", "*.yml"}},
		Compile: CompileConfig{MaxDiagnostics: 200},
		Output:  OutputConfig{Format: string(manifest.FormatMsgpack), Dir: "build"},
	}
}

// Load finds and reads soyc.toml above startDir. ok is false when there is
// none.
func Load(startDir string) (*Project, bool, error) {
	path, ok, err := FindSoycToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Project{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes path over Default and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("sources", "include") && len(cfg.Sources.Include) == 0 {
		return Config{}, fmt.Errorf("%s: [sources].include is empty", path)
	}
	if _, err := cfg.Backends(); err != nil {
		return Config{}, fmt.Errorf("%s: [compile].backends: %w", path, err)
	}
	if _, err := bidi.FromLocale(cfg.Compile.Locale); err != nil {
		return Config{}, fmt.Errorf("%s: [compile].locale: %w", path, err)
	}
	if cfg.Compile.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [compile].jobs must not be negative", path)
	}
	if cfg.Compile.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [compile].max_diagnostics must not be negative", path)
	}
	if _, err := manifest.ParseFormat(cfg.Output.Format); err != nil {
		return Config{}, fmt.Errorf("%s: [output].format: %w", path, err)
	}
	if meta.IsDefined("output", "dir") && strings.TrimSpace(cfg.Output.Dir) == "" {
		return Config{}, fmt.Errorf("%s: [output].dir is empty", path)
	}
	return cfg, nil
}

// Backends parses [compile].backends; empty means all.
func (c Config) Backends() ([]plugin.Backend, error) {
	if len(c.Compile.Backends) == 0 {
		return slices.Clone(plugin.Backends), nil
	}
	return plugin.ParseBackends(c.Compile.Backends)
}

// Sources expands the include globs under root, sorted and without
// duplicates.
func (p *Project) Sources() ([]string, error) {
	var out []string
	for _, pattern := range p.Config.Sources.Include {
		matches, err := filepath.Glob(filepath.Join(p.Root, filepath.FromSlash(pattern)))
		if err != nil {
			return nil, fmt.Errorf("%s: bad include pattern %q: %w", p.Path, pattern, err)
		}
		out = append(out, matches...)
	}
	out = slices.DeleteFunc(out, func(path string) bool { return filepath.Base(path) == ConfigName })
	slices.Sort(out)
	return slices.Compact(out), nil
}
