package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// API represents the different external APIs we interact with
type API string

const (
	// APIExchangeRate represents the exchangerate-api.com rates endpoint
	APIExchangeRate API = "exchangerate"
)

// Limiter manages outbound request rates for different APIs.
// The set of limiters is fixed at construction, so lookups need no locking.
type Limiter struct {
	limiters map[API]*rate.Limiter
}

// NewLimiter builds a Limiter with one token bucket per API.
// A limit of zero (or below) means the API is not limited.
func NewLimiter(limits map[API]rate.Limit) *Limiter {
	l := &Limiter{limiters: make(map[API]*rate.Limiter, len(limits))}
	for api, limit := range limits {
		if limit <= 0 {
			limit = rate.Inf
		}
		l.limiters[api] = rate.NewLimiter(limit, 1)
	}
	return l
}

// Wait blocks until the rate limiter permits an event for the given API
// It returns an error if the context is canceled before the event can proceed
func (l *Limiter) Wait(ctx context.Context, api API) error {
	limiter, exists := l.limiters[api]
	if !exists {
		return nil
	}
	return limiter.Wait(ctx)
}

// Allow reports whether an event for the given API may happen now
func (l *Limiter) Allow(api API) bool {
	limiter, exists := l.limiters[api]
	if !exists {
		return true
	}
	return limiter.Allow()
}
