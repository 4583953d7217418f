package fetcher

import (
	"time"

	"resty.dev/v3"

	"rateconv/internal/logger"
)

const (
	// Default retry configuration, used only when retries are enabled
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// ClientOptions configures the HTTP client shared by rate fetchers.
type ClientOptions struct {
	BaseURL string

	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration

	// RetryCount of zero disables retries.
	RetryCount    int
	RetryWaitTime time.Duration
}

// NewHTTPClient creates a new HTTP client. Retries with exponential backoff
// are only configured when opts.RetryCount is positive.
func NewHTTPClient(opts ClientOptions) *resty.Client {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")

	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	if opts.RetryCount > 0 {
		wait := opts.RetryWaitTime
		if wait <= 0 {
			wait = defaultRetryWaitTime
		}
		maxWait := defaultRetryMaxWaitTime
		if wait > maxWait {
			maxWait = wait
		}
		client.
			SetRetryCount(opts.RetryCount).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(maxWait).
			AddRetryConditions(retryCondition).
			AddRetryHooks(retryHook)
	}

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	switch code := r.StatusCode(); {
	case code >= 500:
		return true
	case code == 429, code == 408:
		return true
	default:
		return false
	}
}

// retryHook logs retry attempts
func retryHook(r *resty.Response, err error) {
	if err != nil {
		logger.Log.Debugw("retrying request due to error",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"error", err.Error())
		return
	}

	logger.Log.Debugw("retrying request due to status code",
		"url", r.Request.URL,
		"attempt", r.Request.Attempt,
		"status_code", r.StatusCode())
}
