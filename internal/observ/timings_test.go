package observ

import (
	"strings"
	"testing"
)

func TestNilTimingsAreInert(t *testing.T) {
	var tm *RunTimings
	stop := tm.Track(StageParse)
	stop(3)
	if got := tm.Summary(); got != "" {
		t.Errorf("Summary() = %q, want empty", got)
	}
	if rep := tm.Report(); len(rep.Stages) != 0 || rep.TotalMS != 0 {
		t.Errorf("Report() = %+v, want zero", rep)
	}
}

func TestStagesAccumulate(t *testing.T) {
	tm := new(RunTimings)
	tm.Track(StageParse)(2)
	tm.Track(StageParse)(1)
	tm.Track(StageWrite)(4)

	rep := tm.Report()
	if len(rep.Stages) != 2 {
		t.Fatalf("stages = %+v, want parse and write", rep.Stages)
	}
	if rep.Stages[0].Stage != "parse" || rep.Stages[0].Items != 3 {
		t.Errorf("parse stage = %+v, want 3 items", rep.Stages[0])
	}
	if rep.Stages[1].Stage != "write" || rep.Stages[1].Items != 4 {
		t.Errorf("write stage = %+v, want 4 items", rep.Stages[1])
	}

	summary := tm.Summary()
	for _, sub := range []string{"timings:", "parse", "(3 file(s))", "write", "(4 file(s))", "total"} {
		if !strings.Contains(summary, sub) {
			t.Errorf("Summary() missing %q\n%s", sub, summary)
		}
	}
	// Configure and generate never ran and stay out of the report.
	if strings.Contains(summary, "configure") || strings.Contains(summary, "generate") {
		t.Errorf("Summary() lists a stage that never ran\n%s", summary)
	}
}

func TestEmptySummary(t *testing.T) {
	if got := new(RunTimings).Summary(); got != "" {
		t.Errorf("Summary() = %q, want empty", got)
	}
}
