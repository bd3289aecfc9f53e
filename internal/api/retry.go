package api

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior for failed HTTP requests.
// Version PUTs are idempotent (keyed by timestamp) and pointer PUTs are
// last-write-wins, so every request in this package is safe to retry.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first try.
	MaxRetries int
	// BaseDelay is the initial delay between attempts.
	BaseDelay time.Duration
	// MaxDelay caps the backoff delay.
	MaxDelay time.Duration
	// Multiplier grows the delay after each attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) applied to delays.
	Jitter float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: 3,
		BaseDelay:  250 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
	}
}

// retryableStatus reports whether an HTTP status should trigger a retry.
// 4xx responses other than 408/429 are definitive and never retried; in
// particular 404 must surface immediately so pointer-miss fallback works.
func retryableStatus(status int) bool {
	switch status {
	case 408, 429:
		return true
	}
	return status >= 500
}

// delay computes the backoff delay for a given attempt with jitter.
func (r *RetryConfig) delay(attempt int) time.Duration {
	d := float64(r.BaseDelay) * math.Pow(r.Multiplier, float64(attempt))
	if d > float64(r.MaxDelay) {
		d = float64(r.MaxDelay)
	}
	if r.Jitter > 0 {
		amount := d * r.Jitter
		d = d - amount + rand.Float64()*2*amount
	}
	return time.Duration(d)
}

// wait sleeps for the attempt's backoff delay or until the context is done.
func (r *RetryConfig) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(r.delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
