package conversion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rateconv/internal/fetcher"
)

var (
	// ErrInvalidAmount is returned for amounts that are not numbers or are negative.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrRateNotFound is matched by every *RateNotFoundError.
	ErrRateNotFound = errors.New("rate not found")
)

// RateNotFoundError reports a target currency missing from a snapshot.
type RateNotFoundError struct {
	Base   string
	Target string
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("rate for %s not found in %s rates", e.Target, e.Base)
}

// Is makes errors.Is(err, ErrRateNotFound) hold.
func (e *RateNotFoundError) Is(target error) bool {
	return target == ErrRateNotFound
}

// Conversion is one completed conversion of an amount from one currency to another.
type Conversion struct {
	ID     uuid.UUID
	From   string
	To     string
	Amount decimal.Decimal
	Rate   float64
	Value  decimal.Decimal
}

// String formats the converted value to two decimals followed by the
// target code, e.g. "8300.00 INR".
func (c Conversion) String() string {
	return c.Value.StringFixed(2) + " " + c.To
}

// ParseAmount parses a user-entered amount. Non-numeric and negative
// amounts are rejected with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, s)
	}
	return amount, nil
}

// Convert multiplies amount by the snapshot's rate for target.
func Convert(amount decimal.Decimal, target string, snapshot fetcher.Snapshot) (Conversion, error) {
	rate, ok := snapshot.Rate(target)
	if !ok {
		return Conversion{}, &RateNotFoundError{Base: snapshot.Base(), Target: target}
	}

	return Conversion{
		ID:     uuid.New(),
		From:   snapshot.Base(),
		To:     target,
		Amount: amount,
		Rate:   rate,
		Value:  amount.Mul(decimal.NewFromFloat(rate)),
	}, nil
}
