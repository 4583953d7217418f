package conversion

import (
	"errors"
	"fmt"

	"rateconv/internal/fetcher"
)

// Message turns any error from the conversion or fetch path into the line
// shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var notFound *RateNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Sprintf("Rate for %s not found", notFound.Target)
	}
	if errors.Is(err, ErrInvalidAmount) {
		return "Invalid amount"
	}

	var fe *fetcher.FetchError
	if !errors.As(err, &fe) {
		return "Error: " + err.Error()
	}

	switch {
	case fe.Type == fetcher.ErrorTypeInvalidInput:
		return fmt.Sprintf("Invalid currency: %q", fe.Base)
	case fe.Type == fetcher.ErrorTypeDecode:
		return "Decode error: " + fe.Detail()
	case fe.IsHTTP():
		return "HTTP error: " + fe.Detail()
	case fe.Type == fetcher.ErrorTypeNetwork, fe.Type == fetcher.ErrorTypeTimeout:
		return "Network error: " + fe.Detail()
	default:
		return "Error: " + fe.Error()
	}
}
