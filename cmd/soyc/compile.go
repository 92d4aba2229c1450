package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"soyc/internal/diag"
	"soyc/internal/diagfmt"
	"soyc/internal/driver"
	"soyc/internal/loader"
	"soyc/internal/manifest"
	"soyc/internal/plugin"
	"soyc/internal/plugins/std"
	"soyc/internal/source"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] [files...]",
	Short: "Check templates and write the lowered-call manifest",
	Long:  `Check template declarations for every backend and write a manifest of synthesized parameter types and lowered plugin calls`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd, args, true)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [flags] [files...]",
	Short: "Check templates without writing output",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompile(cmd, args, false)
	},
}

func init() {
	addCompileFlags(compileCmd)
	addCompileFlags(checkCmd)
	compileCmd.Flags().String("out", "", "manifest output directory (default from soyc.toml or ./build)")
	compileCmd.Flags().String("emit", "", "manifest encoding (msgpack|json)")
}

// newDispatcher installs the built-in library and seals the table.
func newDispatcher() (*plugin.Dispatcher, error) {
	d := plugin.NewDispatcher()
	if err := std.Install(d); err != nil {
		return nil, err
	}
	d.Seal()
	return d, nil
}

func runCompile(cmd *cobra.Command, args []string, emit bool) error {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	showProgress, err := cmd.Flags().GetBool("progress")
	if err != nil {
		return err
	}
	outFmt, err := manifest.ParseFormat(s.outFmt)
	if err != nil {
		return err
	}

	files := source.NewFileSet()
	loadBag := diag.NewBag(s.maxDiag)
	templates, err := loader.New(files, diag.BagReporter{Bag: loadBag}).LoadAll(s.sources)
	if err != nil {
		return err
	}
	d, err := newDispatcher()
	if err != nil {
		return err
	}

	req := &driver.Request{
		Templates:      templates,
		Backends:       s.backends,
		Dispatcher:     d,
		Locale:         s.locale,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiag,
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	var res *driver.Result
	switch {
	case !quiet && format == "pretty" && shouldUseTUI(mode):
		title := fmt.Sprintf("compiling %d template(s)", len(templates))
		res, err = compileWithUI(cmd.Context(), cmd.OutOrStdout(), title, req)
	case showProgress:
		res, err = compileWithLines(cmd.Context(), cmd.ErrOrStderr(), req)
	default:
		res, err = driver.Compile(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	bag := res.Diagnostics()
	bag.Merge(loadBag)
	bag.Dedup()
	bag.Sort()
	if err := printDiagnostics(cmd, bag, files, s.root, format); err != nil {
		return err
	}
	if showTimings {
		for _, p := range res.Passes {
			fmt.Fprint(cmd.ErrOrStderr(), p.Timings.Summary(p.Backend.String()))
		}
	}
	if bag.HasErrors() {
		return errFailed
	}
	if !emit {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "checked %d template(s) for %d backend(s)\n", len(templates), len(res.Passes))
		}
		return nil
	}
	path, err := manifest.WriteFile(s.outDir, "manifest", manifest.Build(res, s.locale), outFmt)
	if err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if !quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	}
	return nil
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, files *source.FileSet, root, format string) error {
	if bag.Len() == 0 {
		return nil
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return err
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return err
	}
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if format == "json" {
		return diagfmt.JSON(cmd.OutOrStdout(), bag, files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			BaseDir:          root,
			IncludeNotes:     withNotes,
		})
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}
	diagfmt.Pretty(cmd.OutOrStdout(), bag, files, diagfmt.PrettyOpts{
		Color:     color,
		Context:   1,
		PathMode:  pathMode,
		BaseDir:   root,
		ShowNotes: withNotes,
	})
	return nil
}
