// Package syncer drives batch-wise synchronization of vendor activities into
// the local store. Runs are idempotent: already-persisted activities are
// skipped unless a forced run asks for a full refresh, and one failing
// activity never aborts the rest of the run.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gitjpk/strydcmd/internal/domain"
	"github.com/gitjpk/strydcmd/internal/observability"
)

// API is the vendor surface a run needs.
type API interface {
	ActivityDetail(ctx context.Context, activityID int64) (*domain.ActivityDetail, error)
}

// Store is the persistence surface a run needs.
type Store interface {
	Exists(ctx context.Context, activityID int64) (bool, error)
	Upsert(ctx context.Context, rows *domain.Rows) error
}

const defaultBatchSize = 10

// Options tune one run.
type Options struct {
	// BatchSize is the number of activities processed per batch.
	BatchSize int
	// Force refetches and rewrites activities that are already persisted.
	Force bool
	// FetchConcurrency bounds parallel detail fetches within a batch,
	// defaulting to the batch size. Store writes are always serialized.
	FetchConcurrency int
}

func (o Options) withDefaults() Options {
	if o.BatchSize < 1 {
		o.BatchSize = defaultBatchSize
	}
	if o.FetchConcurrency < 1 {
		o.FetchConcurrency = o.BatchSize
	}
	return o
}

// Engine runs sync batches against an API and a store.
type Engine struct {
	api      API
	store    Store
	opts     Options
	observer Observer
	logger   zerolog.Logger
	now      func() time.Time
}

// New builds an Engine. A nil observer is replaced with a no-op.
func New(api API, store Store, opts Options, observer Observer, logger zerolog.Logger) *Engine {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{
		api:      api,
		store:    store,
		opts:     opts.withDefaults(),
		observer: observer,
		logger:   logger,
		now:      time.Now,
	}
}

// Run synchronizes the given summaries, oldest first, in batches. Per-activity
// failures are recorded in the result; Run itself returns an error only when
// the run cannot continue at all, such as context cancellation.
func (e *Engine) Run(ctx context.Context, summaries []domain.ActivitySummary) (*Result, error) {
	result := &Result{
		RunID:   uuid.NewString(),
		Total:   len(summaries),
		Started: e.now(),
	}

	batches := partition(summaries, e.opts.BatchSize)
	e.observer.RunStarted(result.RunID, result.Total, len(batches))
	e.logger.Info().
		Str("run_id", result.RunID).
		Int("activities", result.Total).
		Int("batches", len(batches)).
		Bool("force", e.opts.Force).
		Msg("sync run started")

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			result.Finished = e.now()
			return result, err
		}
		e.observer.BatchStarted(i+1, len(batches), len(batch))
		e.runBatch(ctx, batch, result)
		e.observer.BatchCompleted(i+1, len(batches), result.Synced, result.Skipped, result.Failed)
	}

	result.Finished = e.now()
	e.observer.RunCompleted(result)
	e.logger.Info().
		Str("run_id", result.RunID).
		Int("synced", result.Synced).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Dur("elapsed", result.Finished.Sub(result.Started)).
		Msg("sync run finished")
	return result, nil
}

func partition(summaries []domain.ActivitySummary, size int) [][]domain.ActivitySummary {
	var batches [][]domain.ActivitySummary
	for start := 0; start < len(summaries); start += size {
		end := start + size
		if end > len(summaries) {
			end = len(summaries)
		}
		batches = append(batches, summaries[start:end])
	}
	return batches
}

type fetched struct {
	summary domain.ActivitySummary
	rows    *domain.Rows
	skipped bool
	err     error
}

// runBatch resolves every activity of one batch. Detail fetches run in
// parallel up to FetchConcurrency; store writes happen afterwards in batch
// order so the single-writer store sees a deterministic sequence.
func (e *Engine) runBatch(ctx context.Context, batch []domain.ActivitySummary, result *Result) {
	results := make([]fetched, len(batch))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.opts.FetchConcurrency)
	for i, summary := range batch {
		wg.Add(1)
		go func(i int, summary domain.ActivitySummary) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = e.resolve(ctx, summary)
		}(i, summary)
	}
	wg.Wait()

	for _, f := range results {
		result.record(e.commit(ctx, f))
	}
}

func (e *Engine) resolve(ctx context.Context, summary domain.ActivitySummary) fetched {
	f := fetched{summary: summary}

	if !e.opts.Force {
		exists, err := e.store.Exists(ctx, summary.ID)
		if err != nil {
			f.err = err
			return f
		}
		if exists {
			f.skipped = true
			return f
		}
	}

	start := e.now()
	detail, err := e.api.ActivityDetail(ctx, summary.ID)
	observability.ObserveDetailFetch(e.now().Sub(start))
	if err != nil {
		f.err = err
		return f
	}

	f.rows, f.err = domain.Normalize(detail, e.now())
	return f
}

func (e *Engine) commit(ctx context.Context, f fetched) ActivityResult {
	res := ActivityResult{ActivityID: f.summary.ID, Name: f.summary.Name}

	switch {
	case f.err != nil:
		res.Outcome, res.Err = OutcomeFailed, f.err
	case f.skipped:
		res.Outcome = OutcomeSkipped
	default:
		if err := e.store.Upsert(ctx, f.rows); err != nil {
			res.Outcome, res.Err = OutcomeFailed, err
		} else {
			res.Outcome = OutcomeSynced
			observability.RecordActivityPersisted(time.Unix(f.rows.Activity.Timestamp, 0))
		}
	}

	observability.RecordOutcome(res.Outcome.String())
	e.observer.ActivityCompleted(res)

	evt := e.logger.Debug()
	if res.Err != nil {
		evt = e.logger.Warn().Err(res.Err)
	}
	evt.Int64("activity_id", res.ActivityID).
		Str("outcome", res.Outcome.String()).
		Msg("activity handled")
	return res
}
