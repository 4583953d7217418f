package aggregator

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/sourcegraph/conc/pool"

	"rateconv/internal/fetcher"
	"rateconv/internal/logger"
	"rateconv/internal/metrics"
)

// Result is the combined snapshot handed to the caller once every fetch has
// settled. The caller owns it.
type Result struct {
	// Table maps each base that was fetched successfully to its snapshot.
	Table map[string]fetcher.Snapshot

	// Errors holds one entry per failed fetch, in completion order.
	Errors []*fetcher.FetchError
}

// Succeeded returns the bases present in the table in lexical order.
func (r *Result) Succeeded() []string {
	return slices.Sorted(maps.Keys(r.Table))
}

// Failed reports whether any fetch for base failed.
func (r *Result) Failed(base string) bool {
	for _, err := range r.Errors {
		if err.Base == base {
			return true
		}
	}
	return false
}

// Err joins every per-base error, or returns nil if there were none.
func (r *Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, err := range r.Errors {
		errs[i] = err
	}
	return errors.Join(errs...)
}

// Aggregator fans out one fetch per base currency and joins the outcomes
type Aggregator struct {
	fetcher        fetcher.RateFetcher
	maxConcurrency int
	metrics        *metrics.Metrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxConcurrency bounds the number of fetches in flight. Zero means
// every base is fetched at once.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.maxConcurrency = n
	}
}

// WithMetrics records every settled fetch in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) {
		a.metrics = m
	}
}

// New creates a new Aggregator over the given fetcher
func New(f fetcher.RateFetcher, opts ...Option) *Aggregator {
	a := &Aggregator{fetcher: f}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FetchAll fetches rates for every base concurrently and returns once all of
// them have settled. A failed fetch never cancels the others; it is recorded
// in Result.Errors. Each outcome is sent to a shared channel and folded into
// the result by this goroutine only, as it arrives.
func (a *Aggregator) FetchAll(ctx context.Context, bases []string) *Result {
	result := &Result{
		Table: make(map[string]fetcher.Snapshot, len(bases)),
	}
	if len(bases) == 0 {
		return result
	}

	outcomes := make(chan fetcher.Outcome, len(bases))

	p := pool.New()
	if a.maxConcurrency > 0 {
		p = p.WithMaxGoroutines(a.maxConcurrency)
	}

	started := time.Now()
	for _, base := range bases {
		p.Go(func() {
			outcomes <- a.fetchOne(ctx, base)
		})
	}

	// Close the outcome channel when all workers are done
	go func() {
		p.Wait()
		close(outcomes)
	}()

	for outcome := range outcomes {
		if outcome.OK() {
			result.Table[outcome.Base] = outcome.Snapshot
			continue
		}
		result.Errors = append(result.Errors, outcome.Err)
	}

	logger.Log.Infow("fetched rate table",
		"requested", len(bases),
		"succeeded", len(result.Table),
		"failed", len(result.Errors),
		"elapsed", time.Since(started))

	return result
}

// fetchOne runs a single fetch, turning a panic into a failed outcome.
func (a *Aggregator) fetchOne(ctx context.Context, base string) (outcome fetcher.Outcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome = fetcher.Outcome{
				Base: base,
				Err:  fetcher.NewUnknownError(base, fmt.Sprintf("fetcher panicked: %v", r), nil),
			}
		}

		label := metrics.OutcomeSuccess
		if !outcome.OK() {
			label = string(outcome.Err.Type)
			logger.Log.Warnw("rate fetch failed", "base", base, "error", outcome.Err.Error())
		} else {
			logger.Log.Debugw("rate fetch succeeded", "base", base, "rates", outcome.Snapshot.Len())
		}
		a.metrics.ObserveFetch(base, label, time.Since(start))
	}()

	snapshot, err := a.fetcher.Fetch(ctx, base)
	if err != nil {
		return fetcher.Outcome{Base: base, Err: fetcher.AsFetchError(base, err)}
	}

	return fetcher.Outcome{Base: base, Snapshot: snapshot}
}
