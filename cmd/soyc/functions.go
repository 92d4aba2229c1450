package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"soyc/internal/plugin"
	"soyc/internal/ui"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List plugin functions and the backends implementing them",
	Args:  cobra.NoArgs,
	RunE:  runFunctions,
}

func init() {
	functionsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type functionInfo struct {
	Name       string   `json:"name"`
	Signatures []string `json:"signatures"`
	Backends   []string `json:"backends"`
}

func collectFunctions(d *plugin.Dispatcher) []functionInfo {
	names := d.Functions()
	out := make([]functionInfo, 0, len(names))
	for _, name := range names {
		fn, _ := d.Lookup(name)
		info := functionInfo{Name: name}
		for _, sig := range fn.Signatures() {
			info.Signatures = append(info.Signatures, sig.String())
		}
		for _, b := range d.Backends(name) {
			info.Backends = append(info.Backends, b.String())
		}
		out = append(out, info)
	}
	return out
}

func runFunctions(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	d, err := newDispatcher()
	if err != nil {
		return err
	}
	infos := collectFunctions(d)
	switch format {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	case "pretty":
		rows := make([]ui.FunctionRow, len(infos))
		for i, info := range infos {
			rows[i] = ui.FunctionRow{Name: info.Name, Signatures: info.Signatures, Backends: info.Backends}
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), ui.FunctionTable(rows))
		return err
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}
