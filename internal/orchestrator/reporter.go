package orchestrator

// Progress is emitted after every chunk and once more, with Fraction 1.0
// and Label "complete", when the job finishes.
type Progress struct {
	Fraction float64
	Label    string
	Chunk    int
	Total    int
}

// Reporter receives user-facing job events.
type Reporter interface {
	Progress(p Progress)
	Warn(msg string)
	Error(msg string)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) Progress(Progress) {}
func (NopReporter) Warn(string)       {}
func (NopReporter) Error(string)      {}
