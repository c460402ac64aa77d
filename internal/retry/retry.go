// Package retry provides retry policies with bounded, randomized exponential
// backoff for transient failures.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

var (
	// ErrMaxAttemptsExceeded is returned when all retry attempts fail.
	ErrMaxAttemptsExceeded = errors.New("max retry attempts exceeded")
	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled during retry")
)

// Config is an explicit retry policy applied at the call site.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// MinDelay is the lower bound of the backoff wait.
	MinDelay time.Duration
	// MaxDelay caps the backoff wait.
	MaxDelay time.Duration
	// Jitter randomizes each wait uniformly within [MinDelay, computed delay].
	Jitter bool
	// IsRetryable decides whether an error is worth another attempt.
	// Nil means every error is retryable.
	IsRetryable func(error) bool
}

// DefaultConfig returns the policy used when a caller has no opinion.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		MinDelay:    100 * time.Millisecond,
		MaxDelay:    30 * time.Second,
	}
}

// Do executes fn under the policy, sleeping between attempts with exponential
// backoff. The wait after attempt n is MinDelay*2^(n-1) capped at MaxDelay,
// randomized when Jitter is set.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.MinDelay <= 0 {
		cfg.MinDelay = 100 * time.Millisecond
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if cfg.IsRetryable != nil && !cfg.IsRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := cfg.delay(attempt)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(wait):
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxAttemptsExceeded, cfg.MaxAttempts, lastErr)
}

// delay computes the wait before the next attempt.
func (c Config) delay(attempt int) time.Duration {
	d := time.Duration(float64(c.MinDelay) * math.Pow(2, float64(attempt-1)))
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	if c.Jitter && d > c.MinDelay {
		span := d - c.MinDelay
		d = c.MinDelay + rand.N(span)
	}
	return d
}
