package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestStreamTracerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeDriver, "compile", 0)
	pass := Begin(tr, ScopePass, "pass:jssrc", root.ID())
	tmpl := Begin(tr, ScopeTemplate, "template:ns.t", pass.ID())
	tmpl.End("")
	pass.End("ok")
	root.End("")

	out := buf.String()
	if strings.Contains(out, "template:ns.t") {
		t.Fatalf("template scope emitted at phase level:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", got, out)
	}
	if !strings.Contains(out, "← pass:jssrc (ok)") {
		t.Fatalf("missing pass end:\n%s", out)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Begin(tr, ScopeCall, "call:strLen", 7).WithExtra("backend", "pysrc").End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Kind != "end" || ev.Scope != "call" || ev.ParentID != 7 || ev.Extra["backend"] != "pysrc" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeCall, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot = %d events, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Fatalf("snapshot[%d] = %s, want %s", i, snap[i].Name, want)
		}
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("empty context should yield Nop")
	}
	r := NewRingTracer(8, LevelDebug)
	ctx := WithTracer(context.Background(), r)
	s := Begin(FromContext(ctx), ScopeDriver, "compile", 0)
	ctx = WithSpan(ctx, s)
	if ParentSpan(ctx) != s.ID() || s.ID() == 0 {
		t.Fatalf("ParentSpan = %d, want %d", ParentSpan(ctx), s.ID())
	}
	if got, ok := Ring(NewMultiTracer(LevelDebug, Nop, r)); !ok || got != r {
		t.Fatalf("Ring did not find the ring tracer")
	}
}

func TestParse(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("ParseMode accepted disk")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}
