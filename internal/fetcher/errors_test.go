package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{429, ErrorTypeRateLimit, true},
		{500, ErrorTypeServer, true},
		{503, ErrorTypeServer, true},
		{400, ErrorTypeClient, false},
		{404, ErrorTypeClient, false},
		{304, ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			err := ClassifyHTTPError("USD", tt.status)
			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.retryable, err.Retryable)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, "USD", err.Base)
			assert.True(t, err.IsHTTP())
		})
	}
}

func TestFetchError_Error(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{
			name: "status",
			err:  ClassifyHTTPError("EUR", 404),
			want: "EUR: client error (status 404): request rejected",
		},
		{
			name: "cause",
			err:  NewNetworkError("USD", cause),
			want: "USD: network error: network request failed: connection refused",
		},
		{
			name: "message only",
			err:  NewDecodeError("JPY", "empty response body", nil),
			want: "JPY: decode error: empty response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestFetchError_Detail(t *testing.T) {
	tests := []struct {
		name string
		err  *FetchError
		want string
	}{
		{"status", ClassifyHTTPError("EUR", 404), "status 404: request rejected"},
		{"cause", NewNetworkError("USD", errors.New("connection refused")), "network request failed: connection refused"},
		{"message only", NewDecodeError("JPY", "empty response body", nil), "empty response body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Detail()
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, string(tt.err.Type)+" error")
			assert.NotContains(t, got, tt.err.Base)
		})
	}
}

func TestFetchError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewNetworkError("USD", cause)

	assert.ErrorIs(t, err, cause)
	assert.False(t, err.IsHTTP())

	var fe *FetchError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &fe)
	assert.Equal(t, ErrorTypeNetwork, fe.Type)
}

func TestClassifyTransportError(t *testing.T) {
	timeout := ClassifyTransportError("USD", fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTimeout, timeout.Type)

	network := ClassifyTransportError("USD", errors.New("dial tcp: connection refused"))
	assert.Equal(t, ErrorTypeNetwork, network.Type)
}

func TestAsFetchError(t *testing.T) {
	original := NewDecodeError("GBP", "bad json", nil)
	assert.Same(t, original, AsFetchError("GBP", fmt.Errorf("outer: %w", original)))

	plain := AsFetchError("GBP", errors.New("something else"))
	assert.Equal(t, ErrorTypeUnknown, plain.Type)
	assert.Equal(t, "GBP", plain.Base)
}
