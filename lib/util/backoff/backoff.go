package backoff

import (
	"context"
	"time"
)

// Retry executes f up to attempts times with exponential backoff starting at sleep.
// It returns nil on the first successful attempt, or the last error if all attempts fail.
// The shouldRetry predicate decides whether a given error is retryable; if it returns false,
// Retry stops immediately and returns that error. A nil predicate retries every error.
// Waiting is aborted when ctx is done, in which case the last error of f is returned.
func Retry(ctx context.Context, attempts int, sleep time.Duration, f func(attempt int) error, shouldRetry func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep <= 0 {
		sleep = time.Second
	}
	var lastErr error
	for cur := 0; cur < attempts; cur++ {
		err := f(cur)
		if err == nil {
			return nil
		}
		lastErr = err
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}
		if cur != attempts-1 {
			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return lastErr
			case <-timer.C:
			}
			sleep *= 2
		}
	}
	return lastErr
}
