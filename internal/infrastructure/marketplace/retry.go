package marketplace

import (
	"context"
	"time"

	"github.com/oceanerp/backend/internal/domain/integration"
)

const (
	// maxAttempts bounds retries per platform call
	maxAttempts = 3
	// baseBackoff is the delay before the first retry; it doubles per attempt
	baseBackoff = 500 * time.Millisecond
)

// withRetry runs fn up to maxAttempts times, doubling the backoff between
// attempts. Only failures integration.IsRetryable recognizes (rate limits,
// availability blips) are retried; everything else returns immediately.
func withRetry(ctx context.Context, fn func() error) error {
	var err error
	backoff := baseBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil || !integration.IsRetryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
