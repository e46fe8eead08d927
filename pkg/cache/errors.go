package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNetwork marks a failure talking to a remote backend (Redis, MongoDB).
// Callers that treat the cache as best-effort can match it with errors.Is.
var ErrNetwork = errors.New("cache backend unreachable")

// backendError wraps a remote backend failure with [ErrNetwork].
func backendError(backend, op string, err error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrNetwork, backend, op, err)
}

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a retry policy: up to Attempts calls, sleeping Delay after the
// first failure and doubling it after each further one.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is the policy remote backends use to establish a connection.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Retry calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var lastErr error

	for i := 0; i < max(b.Attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if lastErr = fn(); lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// RetryWithBackoff retries fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
