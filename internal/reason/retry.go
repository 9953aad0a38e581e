package reason

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// RetryableError marks an engine response worth retrying (rate limit or
// server-side failure).
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("engine api status %d (retryable): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// Do calls fn up to MaxRetries times, backing off between retryable
// failures. The final attempt's failure returns immediately; there is no
// sleep with nothing left to retry. Cancellation of ctx during a backoff
// returns the context error.
func Do(ctx context.Context, log *slog.Logger, fn func() (string, error)) (string, error) {
	return do(ctx, log, fn, Backoff)
}

func do(ctx context.Context, log *slog.Logger, fn func() (string, error), backoff func(int) time.Duration) (string, error) {
	var answer string
	var err error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		answer, err = fn()
		if err == nil || !IsRetryable(err) {
			return answer, err
		}
		if attempt == MaxRetries-1 {
			break
		}
		log.Warn("retryable engine error", "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
