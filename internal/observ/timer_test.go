package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	done := timer.Track("collect")
	done("3 files")
	idx := timer.Begin("check")
	timer.End(idx, "")
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "collect" || report.Phases[0].Note != "3 files" {
		t.Fatalf("unexpected first phase %+v", report.Phases[0])
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatal("total smaller than a phase")
	}

	summary := timer.Summary()
	for _, want := range []string{"timings:", "collect", "// 3 files", "check", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var timer *Timer
	timer.Track("noop")("")
	if len(timer.Report().Phases) != 0 {
		t.Fatal("nil timer should report nothing")
	}
}
