// Package retry provides exponential backoff retry for transient failures,
// such as bus peers that are not yet listening when the engine starts.
package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Config defines the retry behavior. MaxRetries and InitialBackoff must be
// set; the zero value is not usable.
type Config struct {
	// MaxRetries is the maximum number of attempts.
	MaxRetries int

	// InitialBackoff is the base backoff duration; each retry multiplies
	// it by 2^(attempt-1).
	InitialBackoff time.Duration

	// MaxBackoff caps the backoff duration. Zero means no cap.
	MaxBackoff time.Duration
}

// ShouldRetryFunc decides whether an error should trigger a retry. A nil
// function retries every error.
type ShouldRetryFunc func(error) bool

// Do executes fn with exponential backoff until it succeeds, shouldRetry
// rejects the error, the context is canceled, or MaxRetries attempts have
// failed. The exhausted case wraps the last error from fn.
func Do(ctx context.Context, cfg Config, fn func() error, shouldRetry ShouldRetryFunc) error {
	var lastErr error

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoffFor(cfg, attempt)):
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}

func backoffFor(cfg Config, attempt int) time.Duration {
	backoff := time.Duration(math.Pow(2, float64(attempt-1)) * float64(cfg.InitialBackoff))
	if cfg.MaxBackoff > 0 && backoff > cfg.MaxBackoff {
		backoff = cfg.MaxBackoff
	}
	return backoff
}
