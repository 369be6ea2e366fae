// Package observ measures where a generation run spends its time.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Stage identifies one segment of a run.
type Stage int

const (
	StageConfigure Stage = iota
	StageParse
	StageGenerate
	StageWrite
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageConfigure:
		return "configure"
	case StageParse:
		return "parse"
	case StageGenerate:
		return "generate"
	case StageWrite:
		return "write"
	}
	return "unknown"
}

// unit names what a stage's item count measures.
func (s Stage) unit() string {
	switch s {
	case StageParse, StageWrite:
		return "file(s)"
	case StageGenerate:
		return "group(s)"
	}
	return ""
}

// RunTimings accumulates wall time and item counts per run stage. A
// stage entered twice accumulates. A nil receiver is inert, so callers
// that do not ask for timings pass nil and skip every check.
type RunTimings struct {
	mu    sync.Mutex
	ran   [stageCount]bool
	durs  [stageCount]time.Duration
	items [stageCount]int
}

// Track starts measuring a stage and returns its stop function. The
// stop argument records how many units the stage processed.
func (t *RunTimings) Track(stage Stage) func(items int) {
	if t == nil {
		return func(int) {}
	}
	start := time.Now()
	return func(items int) {
		d := time.Since(start)
		t.mu.Lock()
		t.ran[stage] = true
		t.durs[stage] += d
		t.items[stage] += items
		t.mu.Unlock()
	}
}

// StageReport is the serializable form of one run stage.
type StageReport struct {
	Stage      string  `json:"stage"`
	DurationMS float64 `json:"duration_ms"`
	Items      int     `json:"items,omitempty"`
}

// Report aggregates the stages that ran, in pipeline order.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Stages  []StageReport `json:"stages"`
}

func (t *RunTimings) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var report Report
	var total time.Duration
	for s := Stage(0); s < stageCount; s++ {
		if !t.ran[s] {
			continue
		}
		total += t.durs[s]
		report.Stages = append(report.Stages, StageReport{
			Stage:      s.String(),
			DurationMS: millis(t.durs[s]),
			Items:      t.items[s],
		})
	}
	report.TotalMS = millis(total)
	return report
}

// Summary renders the accumulated stages for the --timings flag.
// Empty when no stage ran.
func (t *RunTimings) Summary() string {
	if t == nil {
		return ""
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	var total time.Duration
	for s := Stage(0); s < stageCount; s++ {
		if !t.ran[s] {
			continue
		}
		total += t.durs[s]
		fmt.Fprintf(&b, "  %-10s %8.2f ms", s.String(), millis(t.durs[s]))
		if unit := s.unit(); unit != "" && t.items[s] > 0 {
			fmt.Fprintf(&b, "  (%d %s)", t.items[s], unit)
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return ""
	}
	return "timings:\n" + b.String() + fmt.Sprintf("  %-10s %8.2f ms\n", "total", millis(total))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
