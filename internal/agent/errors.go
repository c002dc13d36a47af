package agent

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Providers without a usable Retry-After header get this wait. Long enough
// to clear a per-minute quota window.
const defaultRetryAfter = 60 * time.Second

// RateLimitError reports an HTTP 429 from a model provider. The queue
// worker uses RetryAfter to hold the document back instead of failing it.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("provider %s rate limited, retry in %s: %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NewRateLimitError wraps a 429 response. retryAfterSecs values of zero or
// below fall back to the default wait.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	wait := time.Duration(retryAfterSecs) * time.Second
	if wait <= 0 {
		wait = defaultRetryAfter
	}
	return &RateLimitError{Provider: provider, RetryAfter: wait, Err: err}
}

// ParseRetryAfterHeader converts a Retry-After value into whole seconds.
// Both the delta-seconds and HTTP-date forms are accepted; anything else
// yields 0 so the caller applies its default.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return secs
	}
	if at, err := http.ParseTime(val); err == nil {
		if wait := time.Until(at); wait > 0 {
			return int(wait.Round(time.Second) / time.Second)
		}
	}
	return 0
}
