package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// FunctionRow is one line of the function catalog.
type FunctionRow struct {
	Name       string
	Signatures []string
	Backends   []string
}

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// FunctionTable renders the catalog as a bordered table. Functions without
// any implementation show "-" in the backends column.
func FunctionTable(rows []FunctionRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		Headers("FUNCTION", "SIGNATURES", "BACKENDS")
	for _, r := range rows {
		backends := strings.Join(r.Backends, ",")
		if backends == "" {
			backends = "-"
		}
		t.Row(r.Name, strings.Join(r.Signatures, "; "), backends)
	}
	return t.String()
}
