package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeInvalidInput indicates the request could not be built from the given base
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit indicates the request was rejected due to rate limiting (HTTP 429)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 429)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeDecode indicates the body was empty, malformed or missing the rates
	ErrorTypeDecode ErrorType = "decode"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError represents a structured error from a fetch operation for one
// base currency.
type FetchError struct {
	Type       ErrorType
	Base       string
	Retryable  bool
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Base, e.Reason())
}

// Reason describes the failure without the base currency prefix.
func (e *FetchError) Reason() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s error: %s", e.Type, e.Message)
	}
}

// Detail describes the failure without the base currency or error type,
// for callers that print their own category prefix.
func (e *FetchError) Detail() string {
	switch {
	case e.StatusCode > 0:
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	default:
		return e.Message
	}
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// IsHTTP reports whether the server answered with a non-success status.
func (e *FetchError) IsHTTP() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeServer, ErrorTypeClient:
		return true
	}
	return e.StatusCode > 0
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(base string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeInvalidInput,
		Base:    base,
		Message: "cannot build request",
		Cause:   cause,
	}
}

// NewNetworkError creates a network error
func NewNetworkError(base string, cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeNetwork,
		Base:      base,
		Retryable: true,
		Message:   "network request failed",
		Cause:     cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(base string, cause error) *FetchError {
	return &FetchError{
		Type:      ErrorTypeTimeout,
		Base:      base,
		Retryable: true,
		Message:   "request timed out",
		Cause:     cause,
	}
}

// NewDecodeError creates a decode error
func NewDecodeError(base, message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeDecode,
		Base:    base,
		Message: message,
		Cause:   cause,
	}
}

// NewUnknownError creates an error of unknown type
func NewUnknownError(base, message string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeUnknown,
		Base:    base,
		Message: message,
		Cause:   cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate FetchError
func ClassifyHTTPError(base string, statusCode int) *FetchError {
	e := &FetchError{Base: base, StatusCode: statusCode}
	switch {
	case statusCode == 429:
		e.Type, e.Retryable, e.Message = ErrorTypeRateLimit, true, "rate limit exceeded"
	case statusCode >= 500:
		e.Type, e.Retryable, e.Message = ErrorTypeServer, true, "server returned an error"
	case statusCode >= 400:
		e.Type, e.Message = ErrorTypeClient, "request rejected"
	default:
		e.Type, e.Message = ErrorTypeUnknown, "unexpected status code"
	}
	return e
}

// ClassifyTransportError turns an error from the HTTP client into a timeout
// or network FetchError.
func ClassifyTransportError(base string, err error) *FetchError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(base, err)
	}
	return NewNetworkError(base, err)
}

// AsFetchError returns err as a *FetchError, wrapping it as unknown when it
// is not one already.
func AsFetchError(base string, err error) *FetchError {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return NewUnknownError(base, "fetch failed", err)
}
