package fetcher

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Snapshot is one fetch's complete set of target rates for a single base
// currency. It is immutable once built.
type Snapshot struct {
	base  string
	rates map[string]float64
}

// NewSnapshot copies rates into a new Snapshot for base. Every rate must be
// a finite, non-negative number.
func NewSnapshot(base string, rates map[string]float64) (Snapshot, error) {
	copied := make(map[string]float64, len(rates))
	for code, rate := range rates {
		if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
			return Snapshot{}, NewDecodeError(base, fmt.Sprintf("invalid rate %v for %s", rate, code), nil)
		}
		copied[code] = rate
	}
	return Snapshot{base: base, rates: copied}, nil
}

// Base returns the currency the rates are denominated in.
func (s Snapshot) Base() string {
	return s.base
}

// Rate returns the rate for target and whether it was present.
func (s Snapshot) Rate(target string) (float64, bool) {
	rate, ok := s.rates[target]
	return rate, ok
}

// Len returns the number of target rates.
func (s Snapshot) Len() int {
	return len(s.rates)
}

// Codes returns the target codes in lexical order.
func (s Snapshot) Codes() []string {
	return slices.Sorted(maps.Keys(s.rates))
}

// Rates returns a copy of the underlying mapping.
func (s Snapshot) Rates() map[string]float64 {
	return maps.Clone(s.rates)
}
