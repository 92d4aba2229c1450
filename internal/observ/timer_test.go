package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.Measure("check", func() string { return "2 templates" })
	idx := tm.Begin("lower")
	tm.End(idx, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(r.Phases))
	}
	if r.Phases[0].Name != "check" || r.Phases[0].Note != "2 templates" {
		t.Fatalf("phase 0 = %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %.3f below phase %.3f", r.TotalMS, r.Phases[0].DurationMS)
	}
	s := r.Summary("jssrc")
	if !strings.HasPrefix(s, "jssrc:\n") || !strings.Contains(s, "// 2 templates") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}

func TestEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("empty report = %+v", r)
	}
}
