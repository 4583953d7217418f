package fetcher

// Outcome is the settled result of fetching one base currency.
// It's sent through a channel from a worker goroutine to the aggregator,
// which folds it into the rate table or the error list and discards it.
type Outcome struct {
	// Base is the currency that was requested
	Base string

	// Snapshot holds the decoded rates when Err is nil
	Snapshot Snapshot

	// Err describes why the fetch failed.
	// If Err is not nil, Snapshot should be considered invalid.
	Err *FetchError
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}
