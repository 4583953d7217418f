package aggregator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateconv/internal/fetcher"
	"rateconv/internal/metrics"
	"rateconv/internal/testutil"
)

func TestNew(t *testing.T) {
	f := testutil.NewStaticFetcher(nil)

	agg := New(f, WithMaxConcurrency(2))
	require.NotNil(t, agg)
	assert.Equal(t, 2, agg.maxConcurrency)
	assert.Nil(t, agg.metrics)
}

func TestFetchAll_Empty(t *testing.T) {
	f := testutil.NewStaticFetcher(nil)

	result := New(f).FetchAll(context.Background(), nil)

	assert.Empty(t, result.Table)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
	assert.Zero(t, f.Calls())
}

func TestFetchAll_TwoBases(t *testing.T) {
	f := testutil.NewStaticFetcher(map[string]map[string]float64{
		"USD": {"EUR": 0.9, "USD": 1.0},
		"EUR": {"USD": 1.1, "EUR": 1.0},
	})

	result := New(f).FetchAll(context.Background(), []string{"USD", "EUR"})

	assert.Equal(t, map[string]fetcher.Snapshot{
		"USD": testutil.MustSnapshot("USD", map[string]float64{"EUR": 0.9, "USD": 1.0}),
		"EUR": testutil.MustSnapshot("EUR", map[string]float64{"USD": 1.1, "EUR": 1.0}),
	}, result.Table)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"EUR", "USD"}, result.Succeeded())
}

func TestFetchAll_AllFail(t *testing.T) {
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			return fetcher.Snapshot{}, fetcher.NewNetworkError(base, errors.New("offline"))
		},
	}
	bases := []string{"USD", "EUR", "INR", "GBP"}

	result := New(f).FetchAll(context.Background(), bases)

	assert.Empty(t, result.Table)
	assert.Len(t, result.Errors, len(bases))
	for _, base := range bases {
		assert.True(t, result.Failed(base), "expected %s to be reported", base)
	}
	assert.Error(t, result.Err())
}

func TestFetchAll_PartialSuccess(t *testing.T) {
	f := testutil.NewStaticFetcher(map[string]map[string]float64{
		"USD": {"EUR": 0.9},
		"GBP": {"EUR": 1.17},
		"JPY": {"EUR": 0.006},
	})
	bases := []string{"USD", "EUR", "GBP", "JPY", "CAD"}

	result := New(f).FetchAll(context.Background(), bases)

	assert.Len(t, result.Table, 3)
	assert.Len(t, result.Errors, 2)
	assert.True(t, result.Failed("EUR"))
	assert.True(t, result.Failed("CAD"))
	assert.False(t, result.Failed("USD"))

	for _, err := range result.Errors {
		assert.Equal(t, fetcher.ErrorTypeClient, err.Type)
	}
}

func TestFetchAll_WaitsForSlowest(t *testing.T) {
	var settled atomic.Int32
	delays := map[string]time.Duration{
		"USD": 10 * time.Millisecond,
		"EUR": 80 * time.Millisecond,
		"INR": 30 * time.Millisecond,
	}

	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			time.Sleep(delays[base])
			defer settled.Add(1)
			if base == "INR" {
				return fetcher.Snapshot{}, fetcher.NewTimeoutError(base, context.DeadlineExceeded)
			}
			return testutil.MustSnapshot(base, map[string]float64{base: 1}), nil
		},
	}

	result := New(f).FetchAll(context.Background(), []string{"USD", "EUR", "INR"})

	assert.Equal(t, int32(3), settled.Load(), "result observed before every fetch settled")
	assert.Len(t, result.Table, 2)
	assert.Len(t, result.Errors, 1)
}

func TestFetchAll_ConcurrentExecution(t *testing.T) {
	const n = 5
	var inFlight, peak atomic.Int32

	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			inFlight.Add(-1)
			return testutil.MustSnapshot(base, nil), nil
		},
	}

	start := time.Now()
	result := New(f).FetchAll(context.Background(), []string{"USD", "EUR", "INR", "GBP", "JPY"})
	elapsed := time.Since(start)

	assert.Len(t, result.Table, n)
	assert.Equal(t, int32(n), peak.Load(), "all fetches should be in flight together")
	assert.Less(t, elapsed, 250*time.Millisecond, "fetches were serialized")
}

func TestFetchAll_MaxConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32

	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
			return testutil.MustSnapshot(base, nil), nil
		},
	}

	result := New(f, WithMaxConcurrency(2)).FetchAll(context.Background(), []string{"USD", "EUR", "INR", "GBP", "JPY"})

	assert.Len(t, result.Table, 5)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFetchAll_ErrorsInCompletionOrder(t *testing.T) {
	delays := map[string]time.Duration{
		"USD": 60 * time.Millisecond,
		"EUR": 0,
		"GBP": 30 * time.Millisecond,
	}
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			time.Sleep(delays[base])
			return fetcher.Snapshot{}, fetcher.ClassifyHTTPError(base, 500)
		},
	}

	result := New(f).FetchAll(context.Background(), []string{"USD", "EUR", "GBP"})

	require.Len(t, result.Errors, 3)
	got := []string{result.Errors[0].Base, result.Errors[1].Base, result.Errors[2].Base}
	assert.Equal(t, []string{"EUR", "GBP", "USD"}, got)
}

func TestFetchAll_NoCrossContamination(t *testing.T) {
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			rates := map[string]float64{}
			for i, c := range []string{"USD", "EUR", "INR", "GBP"} {
				rates[c] = float64(len(base)*10 + i)
			}
			rates[base] = 1
			return fetcher.NewSnapshot(base, rates)
		},
	}

	result := New(f).FetchAll(context.Background(), []string{"USD", "EUR", "INR", "GBP"})

	for base, snap := range result.Table {
		assert.Equal(t, base, snap.Base())
		rate, ok := snap.Rate(base)
		assert.True(t, ok)
		assert.Equal(t, 1.0, rate)
	}
}

func TestFetchAll_Idempotent(t *testing.T) {
	f := testutil.NewStaticFetcher(map[string]map[string]float64{
		"USD": {"EUR": 0.9, "USD": 1.0},
		"EUR": {"USD": 1.1, "EUR": 1.0},
	})
	agg := New(f)
	bases := []string{"USD", "EUR", "CAD"}

	first := agg.FetchAll(context.Background(), bases)
	second := agg.FetchAll(context.Background(), bases)

	assert.Equal(t, first, second)
}

func TestFetchAll_RecoversPanics(t *testing.T) {
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			if base == "EUR" {
				panic("boom")
			}
			return testutil.MustSnapshot(base, nil), nil
		},
	}

	var result *Result
	require.NotPanics(t, func() {
		result = New(f).FetchAll(context.Background(), []string{"USD", "EUR"})
	})

	assert.Len(t, result.Table, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "EUR", result.Errors[0].Base)
	assert.Equal(t, fetcher.ErrorTypeUnknown, result.Errors[0].Type)
	assert.Contains(t, result.Errors[0].Message, "boom")
}

func TestFetchAll_PlainErrorsAreWrapped(t *testing.T) {
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			return fetcher.Snapshot{}, errors.New("unexpected")
		},
	}

	result := New(f).FetchAll(context.Background(), []string{"AUD"})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "AUD", result.Errors[0].Base)
	assert.Equal(t, fetcher.ErrorTypeUnknown, result.Errors[0].Type)
}

func TestFetchAll_Duplicates(t *testing.T) {
	f := testutil.NewStaticFetcher(map[string]map[string]float64{
		"USD": {"EUR": 0.9},
	})

	result := New(f).FetchAll(context.Background(), []string{"USD", "USD"})

	assert.Equal(t, 2, f.Calls(), "duplicates are fetched, not deduplicated")
	assert.Len(t, result.Table, 1)
	assert.Empty(t, result.Errors)
}

func TestFetchAll_ContextCancellation(t *testing.T) {
	f := &testutil.MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			select {
			case <-ctx.Done():
				return fetcher.Snapshot{}, fetcher.ClassifyTransportError(base, ctx.Err())
			case <-time.After(5 * time.Second):
				return testutil.MustSnapshot(base, nil), nil
			}
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := New(f).FetchAll(ctx, []string{"USD", "EUR"})

	assert.Empty(t, result.Table)
	require.Len(t, result.Errors, 2)
	for _, err := range result.Errors {
		assert.Equal(t, fetcher.ErrorTypeTimeout, err.Type)
	}
}

func TestFetchAll_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	f := testutil.NewStaticFetcher(map[string]map[string]float64{
		"USD": {"EUR": 0.9},
	})

	New(f, WithMetrics(m)).FetchAll(context.Background(), []string{"USD", "EUR"})

	assert.Equal(t, 1.0, promtest.ToFloat64(m.FetchTotal.WithLabelValues("USD", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.FetchTotal.WithLabelValues("EUR", string(fetcher.ErrorTypeClient))))
}
