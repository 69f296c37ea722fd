package rest

import (
	"errors"
	"net/url"
	"time"
)

const (
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
	defaultBackoffCap  = 10 * time.Second
)

// RetryPolicy decides whether and when a failed request is re-issued.
// It only ever sees transport-level failures; HTTP responses of any
// status are never routed through it.
type RetryPolicy struct {
	// MaxRetries is the number of re-issues after the initial attempt.
	MaxRetries int
	// Backoff returns the delay before retry n (first retry is n=1).
	Backoff func(n int) time.Duration
	// Retryable reports whether the transport error is worth retrying.
	Retryable func(err error) bool
}

// DefaultRetryPolicy retries up to 3 times with exponential backoff
// capped at 10s: 2s, 4s, 8s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: defaultMaxRetries,
		Backoff:    ExponentialBackoff(defaultBackoffBase, defaultBackoffCap),
		Retryable:  transportError,
	}
}

// ExponentialBackoff returns base*2^n capped at max.
func ExponentialBackoff(base, max time.Duration) func(int) time.Duration {
	return func(n int) time.Duration {
		d := base << uint(n)
		if d > max || d <= 0 {
			return max
		}
		return d
	}
}

// transportError matches failures where no response was received,
// including timeouts and cancelled requests.
func transportError(err error) bool {
	var uerr *url.Error
	return errors.As(err, &uerr)
}
