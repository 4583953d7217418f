package conversion

import (
	"context"
	"errors"

	"rateconv/internal/currency"
	"rateconv/internal/fetcher"
	"rateconv/internal/logger"
	"rateconv/internal/metrics"
)

// Converter runs the single conversion path: validate, fetch the base
// snapshot, convert.
type Converter struct {
	fetcher fetcher.RateFetcher
	metrics *metrics.Metrics
}

// NewConverter creates a Converter. m may be nil.
func NewConverter(f fetcher.RateFetcher, m *metrics.Metrics) *Converter {
	return &Converter{fetcher: f, metrics: m}
}

// Convert converts amount from one currency to another using the current
// rates for from. Input is validated before any request is made.
func (c *Converter) Convert(ctx context.Context, amount, from, to string) (Conversion, error) {
	conv, err := c.convert(ctx, amount, from, to)
	c.metrics.ObserveConversion(outcomeLabel(err))
	if err != nil {
		logger.Log.Debugw("conversion failed", "amount", amount, "from", from, "to", to, "error", err)
		return Conversion{}, err
	}
	return conv, nil
}

func (c *Converter) convert(ctx context.Context, amount, from, to string) (Conversion, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return Conversion{}, err
	}

	target, err := currency.Normalize(to)
	if err != nil {
		return Conversion{}, fetcher.NewInvalidInputError(to, err)
	}

	snapshot, err := c.fetcher.Fetch(ctx, from)
	if err != nil {
		return Conversion{}, err
	}

	return Convert(value, target, snapshot)
}

func outcomeLabel(err error) string {
	var fe *fetcher.FetchError
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrRateNotFound):
		return "rate_not_found"
	case errors.As(err, &fe):
		return string(fe.Type)
	default:
		return string(fetcher.ErrorTypeUnknown)
	}
}
