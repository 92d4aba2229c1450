package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"soyc/internal/plugin"
	"soyc/internal/project"
)

// settings is soyc.toml with command line overrides applied.
type settings struct {
	root     string
	sources  []string
	backends []plugin.Backend
	locale   string
	jobs     int
	maxDiag  int
	outDir   string
	outFmt   string
}

func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("backend", nil, "backends to compile for (jssrc|pysrc|swiftsrc), default all")
	cmd.Flags().String("locale", "", "fix the writing direction for this locale at compile time")
	cmd.Flags().Int("jobs", 0, "max parallel backend passes (0=auto)")
	cmd.Flags().String("format", "pretty", "diagnostic format (pretty|json)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("progress", false, "report backend pass progress on stderr when the interactive view is off")
	cmd.Flags().String("ui", "auto", "interactive progress view (auto|on|off)")
}

// loadSettings merges the project config with flags. Files named on the
// command line replace the configured sources.
func loadSettings(cmd *cobra.Command, args []string) (*settings, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	s := &settings{root: wd}
	cfg := project.Default()
	proj, ok, err := project.Load(wd)
	if err != nil {
		return nil, err
	}
	if ok {
		cfg = proj.Config
		s.root = proj.Root
	}

	if len(args) > 0 {
		s.sources = args
	} else if ok {
		if s.sources, err = proj.Sources(); err != nil {
			return nil, err
		}
	}
	if len(s.sources) == 0 {
		return nil, fmt.Errorf("no declaration files given and no %s found", project.ConfigName)
	}

	flags := cmd.Flags()
	if flags.Changed("backend") {
		names, err := flags.GetStringSlice("backend")
		if err != nil {
			return nil, err
		}
		cfg.Compile.Backends = names
	}
	if flags.Changed("locale") {
		if cfg.Compile.Locale, err = flags.GetString("locale"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("jobs") {
		if cfg.Compile.Jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return nil, err
	} else if n > 0 {
		cfg.Compile.MaxDiagnostics = n
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		if cfg.Output.Dir, err = flags.GetString("out"); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("emit") != nil && flags.Changed("emit") {
		if cfg.Output.Format, err = flags.GetString("emit"); err != nil {
			return nil, err
		}
	}

	if s.backends, err = cfg.Backends(); err != nil {
		return nil, err
	}
	s.locale = cfg.Compile.Locale
	s.jobs = cfg.Compile.Jobs
	s.maxDiag = cfg.Compile.MaxDiagnostics
	s.outFmt = cfg.Output.Format
	s.outDir = cfg.Output.Dir
	if !filepath.IsAbs(s.outDir) {
		s.outDir = filepath.Join(s.root, s.outDir)
	}
	return s, nil
}
