package testutil

import (
	"context"
	"sync/atomic"

	"rateconv/internal/fetcher"
)

// MockFetcher is a mock implementation of the RateFetcher interface for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, base string) (fetcher.Snapshot, error)

	calls atomic.Int32
}

// Fetch implements the RateFetcher interface
func (m *MockFetcher) Fetch(ctx context.Context, base string) (fetcher.Snapshot, error) {
	m.calls.Add(1)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, base)
	}
	return MustSnapshot(base, nil), nil
}

// Calls returns how many times Fetch was invoked.
func (m *MockFetcher) Calls() int {
	return int(m.calls.Load())
}

// NewStaticFetcher returns a mock that serves fixed rates per base and a
// client error for any base it does not know.
func NewStaticFetcher(rates map[string]map[string]float64) *MockFetcher {
	return &MockFetcher{
		FetchFunc: func(ctx context.Context, base string) (fetcher.Snapshot, error) {
			r, ok := rates[base]
			if !ok {
				return fetcher.Snapshot{}, fetcher.ClassifyHTTPError(base, 404)
			}
			return fetcher.NewSnapshot(base, r)
		},
	}
}

// MustSnapshot builds a snapshot and panics on invalid rates.
func MustSnapshot(base string, rates map[string]float64) fetcher.Snapshot {
	snap, err := fetcher.NewSnapshot(base, rates)
	if err != nil {
		panic(err)
	}
	return snap
}
