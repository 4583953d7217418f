package currency

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCode is returned when a value is not a 3-letter currency code.
var ErrInvalidCode = errors.New("invalid currency code")

// DefaultCodes is the ordered list of currencies offered when none are configured.
var DefaultCodes = []string{"USD", "EUR", "INR", "GBP", "JPY", "CAD", "AUD"}

// Normalize trims and upper-cases code and checks that it is exactly three
// ASCII letters.
func Normalize(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	for i := 0; i < len(normalized); i++ {
		if normalized[i] < 'A' || normalized[i] > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return normalized, nil
}

// NormalizeList normalizes every code in codes, preserving order, and rejects
// duplicates.
func NormalizeList(codes []string) ([]string, error) {
	seen := make(map[string]struct{}, len(codes))
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		c, err := Normalize(code)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("duplicate currency code %s", c)
		}
		seen[c] = struct{}{}
		normalized = append(normalized, c)
	}
	return normalized, nil
}
