package fetcher

import "context"

// RateFetcher is the core interface that all rate sources must implement.
// A fetcher owns the lifecycle of a single network call for one base
// currency and returns the complete set of target rates for it.
type RateFetcher interface {
	// Fetch retrieves the current rates denominated in base.
	// Returns a *FetchError describing the failure otherwise.
	Fetch(ctx context.Context, base string) (Snapshot, error)
}
