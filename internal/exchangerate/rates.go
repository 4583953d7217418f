package exchangerate

import (
	"bytes"
	"context"
	"encoding/json"

	"resty.dev/v3"

	"rateconv/internal/currency"
	"rateconv/internal/fetcher"
	"rateconv/internal/ratelimit"
)

// DefaultBaseURL is the public exchangerate-api.com v4 endpoint.
const DefaultBaseURL = "https://api.exchangerate-api.com/v4"

// LatestResponse represents the exchangerate-api.com response for the latest rates
type LatestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// RatesFetcher fetches the latest rates for a base currency from exchangerate-api.com
type RatesFetcher struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
}

// NewRatesFetcher creates a new rates fetcher. limiter may be nil.
func NewRatesFetcher(client *resty.Client, limiter *ratelimit.Limiter) *RatesFetcher {
	return &RatesFetcher{
		client:  client,
		limiter: limiter,
	}
}

// Fetch retrieves every rate denominated in base
func (f *RatesFetcher) Fetch(ctx context.Context, base string) (fetcher.Snapshot, error) {
	code, err := currency.Normalize(base)
	if err != nil {
		return fetcher.Snapshot{}, fetcher.NewInvalidInputError(base, err)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, ratelimit.APIExchangeRate); err != nil {
			return fetcher.Snapshot{}, fetcher.ClassifyTransportError(code, err)
		}
	}

	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("base", code).
		Get("/latest/{base}")

	if err != nil {
		return fetcher.Snapshot{}, fetcher.ClassifyTransportError(code, err)
	}

	if !resp.IsSuccess() {
		return fetcher.Snapshot{}, fetcher.ClassifyHTTPError(code, resp.StatusCode())
	}

	body := resp.Bytes()
	if len(bytes.TrimSpace(body)) == 0 {
		return fetcher.Snapshot{}, fetcher.NewDecodeError(code, "empty response body", nil)
	}

	var result LatestResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fetcher.Snapshot{}, fetcher.NewDecodeError(code, "malformed response body", err)
	}

	if result.Rates == nil {
		return fetcher.Snapshot{}, fetcher.NewDecodeError(code, "rates not found in response", nil)
	}

	return fetcher.NewSnapshot(code, result.Rates)
}
