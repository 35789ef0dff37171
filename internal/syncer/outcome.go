package syncer

import "time"

// Outcome classifies how one activity ended a sync run.
type Outcome int

const (
	OutcomeSynced Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSynced:
		return "synced"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ActivityResult is the per-activity outcome of a run. Err is set only for
// failed outcomes.
type ActivityResult struct {
	ActivityID int64
	Name       string
	Outcome    Outcome
	Err        error
}

// Result aggregates one run. A failed activity never fails the run; callers
// inspect Failures to decide what to report.
type Result struct {
	RunID    string
	Total    int
	Synced   int
	Skipped  int
	Failed   int
	Failures []ActivityResult
	Started  time.Time
	Finished time.Time
}

func (r *Result) record(res ActivityResult) {
	switch res.Outcome {
	case OutcomeSynced:
		r.Synced++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
		r.Failures = append(r.Failures, res)
	}
}

// Observer receives progress callbacks during a run. Implementations must be
// fast; they are called from the batch loop. BatchCompleted carries the
// cumulative outcome counts so far, so a watcher can spot a degrading run
// before it finishes.
type Observer interface {
	RunStarted(runID string, total, batches int)
	BatchStarted(index, batches, size int)
	BatchCompleted(index, batches, synced, skipped, failed int)
	ActivityCompleted(res ActivityResult)
	RunCompleted(res *Result)
}

// NopObserver discards all progress callbacks.
type NopObserver struct{}

func (NopObserver) RunStarted(string, int, int)            {}
func (NopObserver) BatchStarted(int, int, int)             {}
func (NopObserver) BatchCompleted(int, int, int, int, int) {}
func (NopObserver) ActivityCompleted(ActivityResult)       {}
func (NopObserver) RunCompleted(*Result)                   {}
