package driver

// Stage identifies where a progress event originated.
type Stage uint8

const (
	StageParse Stage = iota
	StageGenerate
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageGenerate:
		return "generate"
	case StageWrite:
		return "write"
	}
	return "unknown"
}

// Event is one unit of progress. Name is a file path during parse and
// write, an operation name during generation.
type Event struct {
	Stage  Stage
	Name   string
	Cached bool
	Err    error
	// Total is set on the first event of a stage so the UI can size
	// its progress bar.
	Total int
}

// emit drops events when nobody listens or the sink lags; progress is
// advisory.
func emit(events chan<- Event, ev Event) {
	if events == nil {
		return
	}
	select {
	case events <- ev:
	default:
	}
}
