package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/gitjpk/strydcmd/internal/syncer"
)

const timeRounding = 10 * time.Millisecond

// ProgressPrinter renders sync progress to the console as batches complete.
type ProgressPrinter struct {
	out io.Writer
}

// NewProgressPrinter writes progress to out, usually stdout.
func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{out: out}
}

func (p *ProgressPrinter) RunStarted(runID string, total, batches int) {
	if total == 0 {
		fmt.Fprintln(p.out, "Nothing to sync: no activities in the requested window.")
		return
	}
	fmt.Fprintf(p.out, "Syncing %d activities in %d batches (run %s)\n", total, batches, runID)
}

func (p *ProgressPrinter) BatchStarted(index, batches, size int) {
	fmt.Fprintf(p.out, "Batch %d/%d (%d activities)\n", index, batches, size)
}

func (p *ProgressPrinter) BatchCompleted(index, batches, synced, skipped, failed int) {
	fmt.Fprintf(p.out, "Batch %d/%d done: %d synced, %d skipped, %d failed so far\n",
		index, batches, synced, skipped, failed)
}

func (p *ProgressPrinter) ActivityCompleted(res syncer.ActivityResult) {
	name := res.Name
	if name == "" {
		name = "(unnamed)"
	}
	switch res.Outcome {
	case syncer.OutcomeSynced:
		fmt.Fprintf(p.out, "  synced  %d %s\n", res.ActivityID, name)
	case syncer.OutcomeSkipped:
		fmt.Fprintf(p.out, "  skipped %d %s\n", res.ActivityID, name)
	case syncer.OutcomeFailed:
		fmt.Fprintf(p.out, "  failed  %d %s: %v\n", res.ActivityID, name, res.Err)
	}
}

func (p *ProgressPrinter) RunCompleted(res *syncer.Result) {
	fmt.Fprintf(p.out, "\nDone in %s: %d synced, %d skipped, %d failed\n",
		res.Finished.Sub(res.Started).Round(timeRounding), res.Synced, res.Skipped, res.Failed)
	for _, f := range res.Failures {
		fmt.Fprintf(p.out, "  failure: activity %d: %v\n", f.ActivityID, f.Err)
	}
}

// StoreTotal reports the row count of the local store after a run.
func (p *ProgressPrinter) StoreTotal(count int64) {
	fmt.Fprintf(p.out, "Total in store: %d activities\n", count)
}
