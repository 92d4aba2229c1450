package ui

import (
	"strings"
	"testing"
	"time"

	"soyc/internal/driver"
	"soyc/internal/plugin"
)

func feed(m *progressModel, events ...driver.Event) {
	for _, ev := range events {
		m.Update(eventMsg(ev))
	}
}

func finishPass(b plugin.Backend, failAt driver.Stage) []driver.Event {
	var out []driver.Event
	for _, s := range []driver.Stage{driver.StageClone, driver.StageCheck, driver.StageLower} {
		status := driver.StatusDone
		if s == failAt {
			status = driver.StatusError
		}
		out = append(out,
			driver.Event{Backend: b, Stage: s, Status: driver.StatusWorking},
			driver.Event{Backend: b, Stage: s, Status: status, Elapsed: time.Millisecond},
		)
	}
	return out
}

func TestProgressModelTracksPasses(t *testing.T) {
	backends := []plugin.Backend{plugin.JSSrc, plugin.SwiftSrc}
	m := newProgressModel("compiling", backends, nil)

	feed(m, driver.Event{Backend: plugin.JSSrc, Stage: driver.StageClone, Status: driver.StatusWorking})
	if got := m.items[0].status; got != "cloning" {
		t.Fatalf("jssrc status = %q, want cloning", got)
	}
	if got := m.percent(); got != 0 {
		t.Fatalf("percent = %v, want 0", got)
	}

	feed(m, finishPass(plugin.SwiftSrc, driver.StageCheck)...)
	if got := m.items[1].status; got != "error" {
		t.Fatalf("swiftsrc status = %q, want error", got)
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent = %v, want 0.5", got)
	}
	if !m.items[1].finished() || m.items[0].finished() {
		t.Fatalf("finished flags wrong: %+v", m.items)
	}

	feed(m, finishPass(plugin.JSSrc, "")...)
	if got := m.items[0].status; got != "done" {
		t.Fatalf("jssrc status = %q, want done", got)
	}
	if got := m.percent(); got != 1 {
		t.Fatalf("percent = %v, want 1", got)
	}
}

func TestProgressModelIgnoresUnknownBackend(t *testing.T) {
	m := newProgressModel("compiling", []plugin.Backend{plugin.PySrc}, nil)
	feed(m, finishPass(plugin.JSSrc, "")...)
	if m.items[0].status != "queued" || m.percent() != 0 {
		t.Fatalf("unexpected state %+v", m.items[0])
	}
}

func TestProgressModelQuitsWhenEventsClose(t *testing.T) {
	events := make(chan driver.Event)
	close(events)
	m := newProgressModel("compiling", []plugin.Backend{plugin.PySrc}, events)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T, want doneMsg", msg)
	}
	m.Update(msg)
	if !m.done {
		t.Fatalf("model not done")
	}
	if view := m.View(); !strings.Contains(view, "done: compiling") || !strings.Contains(view, "pysrc") {
		t.Fatalf("view = %q", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "pysrc", width: 8, want: "pysrc"},
		{name: "ellipsis", in: "swiftsrc-long", width: 8, want: "swift..."},
		{name: "narrow", in: "swiftsrc", width: 3, want: "swi"},
		{name: "unbounded", in: "jssrc", width: 0, want: "jssrc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.width); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestFunctionTable(t *testing.T) {
	out := FunctionTable([]FunctionRow{
		{Name: "isRtl", Signatures: []string{"() -> bool"}, Backends: []string{"swiftsrc"}},
		{Name: "orphan", Signatures: []string{"() -> int"}},
	})
	for _, want := range []string{"FUNCTION", "BACKENDS", "isRtl", "() -> bool", "swiftsrc", "orphan"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(out, "\n")
	var orphan string
	for _, l := range lines {
		if strings.Contains(l, "orphan") {
			orphan = l
		}
	}
	if !strings.Contains(orphan, " - ") {
		t.Fatalf("orphan row lacks placeholder: %q", orphan)
	}
}
