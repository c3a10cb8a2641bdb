package extract

import (
	"context"
	"time"
)

// DefaultRetryDelays returns the backoff delays for navigation retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// retry calls fn until it succeeds, making len(delays)+1 attempts at most
// and waiting delays[i] before attempt i+2. onRetry, if set, is called
// before each wait. Context cancellation stops the retries.
func retry(ctx context.Context, delays []time.Duration, fn func() error, onRetry func(attempt int, err error)) error {
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return lastErr
		}

		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
