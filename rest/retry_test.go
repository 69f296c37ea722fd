package rest

import (
	"errors"
	"net/url"
	"testing"
	"time"
)

func TestDefaultBackoffShouldFollowCappedExponential(t *testing.T) {
	policy := DefaultRetryPolicy()

	// delay = min(1000 * 2^n, 10000) ms
	expected := []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		10 * time.Second,
		10 * time.Second,
	}
	for i, want := range expected {
		n := i + 1
		if got := policy.Backoff(n); got != want {
			t.Errorf("Backoff(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestDefaultPolicyShouldAllowThreeRetries(t *testing.T) {
	if got := DefaultRetryPolicy().MaxRetries; got != 3 {
		t.Errorf("MaxRetries = %d, want 3", got)
	}
}

func TestRetryableShouldMatchTransportFailuresOnly(t *testing.T) {
	policy := DefaultRetryPolicy()

	transport := &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}
	if !policy.Retryable(transport) {
		t.Error("transport failure should be retryable")
	}

	if policy.Retryable(errors.New("encode request body")) {
		t.Error("non-transport failure should not be retryable")
	}
}

func TestExponentialBackoffShouldNotOverflow(t *testing.T) {
	backoff := ExponentialBackoff(time.Second, 10*time.Second)

	if got := backoff(500); got != 10*time.Second {
		t.Errorf("huge attempt should clamp to cap, got %v", got)
	}
}
