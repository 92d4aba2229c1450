// Package ui renders interactive terminal views of a compilation: live
// per-backend pass progress and the plugin function catalog.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"soyc/internal/driver"
	"soyc/internal/plugin"
)

// passStages is the number of stages every backend pass goes through.
const passStages = 3

type progressModel struct {
	title       string
	events      <-chan driver.Event
	spinner     spinner.Model
	prog        progress.Model
	items       []passItem
	index       map[plugin.Backend]int
	width       int
	done        bool
	interrupted bool
}

type passItem struct {
	backend   plugin.Backend
	status    string
	completed int
	failed    bool
	elapsed   time.Duration
}

func (it passItem) finished() bool { return it.completed >= passStages }

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model showing one row per backend
// pass. It quits when events is closed.
func NewProgressModel(title string, backends []plugin.Backend, events <-chan driver.Event) tea.Model {
	return newProgressModel(title, backends, events)
}

func newProgressModel(title string, backends []plugin.Backend, events <-chan driver.Event) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]passItem, 0, len(backends))
	index := make(map[plugin.Backend]int, len(backends))
	for i, b := range backends {
		items = append(items, passItem{backend: b, status: "queued"})
		index[b] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.interrupted:
		header = "interrupted: " + header
	case m.done:
		header = "done: " + header
	default:
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")

	nameWidth := max(m.width-12-4-12, 8)
	for _, it := range m.items {
		status := styleStatus(it.status).Render(fmt.Sprintf("%12s", it.status))
		line := fmt.Sprintf("  %s %s", status, truncate(it.backend.String(), nameWidth))
		if it.finished() {
			line += fmt.Sprintf("  %.1f ms", float64(it.elapsed)/float64(time.Millisecond))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.Backend]
	if !ok {
		return nil
	}
	it := &m.items[idx]
	switch ev.Status {
	case driver.StatusQueued:
		it.status = "queued"
	case driver.StatusWorking:
		it.status = stageLabel(ev.Stage)
	case driver.StatusDone, driver.StatusError:
		it.completed++
		it.elapsed += ev.Elapsed
		if ev.Status == driver.StatusError {
			it.failed = true
		}
		if it.finished() {
			it.status = "done"
			if it.failed {
				it.status = "error"
			}
		}
	}
	return m.prog.SetPercent(m.percent())
}

// percent is the share of completed stages over all passes.
func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, it := range m.items {
		total += float64(min(it.completed, passStages)) / passStages
	}
	return total / float64(len(m.items))
}

func stageLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageClone:
		return "cloning"
	case driver.StageCheck:
		return "checking"
	case driver.StageLower:
		return "lowering"
	default:
		return string(stage)
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "cloning", "checking", "lowering":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
