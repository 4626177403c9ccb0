package queue

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/goran-ethernal/BlockPipe/pkg/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// retryableError reports whether a broker error may go away by reconnecting.
// Authentication and addressing errors are permanent.
func retryableError(err error) bool {
	if err == nil {
		return false
	}

	return !errors.Is(err, amqp.ErrCredentials) &&
		!errors.Is(err, amqp.ErrVhost) &&
		!errors.Is(err, amqp.ErrSASL)
}

// calculateBackoff computes the backoff duration for a given attempt with jitter.
func calculateBackoff(attempt int, cfg *config.RetryConfig) time.Duration {
	if attempt <= 1 {
		return 0
	}

	backoff := float64(cfg.InitialBackoff.Duration) * math.Pow(cfg.BackoffMultiplier, float64(attempt-2))
	if backoff > float64(cfg.MaxBackoff.Duration) {
		backoff = float64(cfg.MaxBackoff.Duration)
	}

	// jitter of +-25%
	jitterRange := backoff * 0.25 //nolint:mnd
	jitter := (rand.Float64() * 2 * jitterRange) - jitterRange //nolint:gosec
	backoff += jitter

	if backoff < 0 {
		backoff = 0
	}

	return time.Duration(backoff)
}

// retryWithBackoff runs fn until it succeeds, fails permanently, ctx is done or
// cfg.MaxAttempts is exhausted. MaxAttempts 0 retries forever.
func retryWithBackoff(ctx context.Context, cfg *config.RetryConfig, operation string, fn func() error) error {
	var lastErr error
	startTime := time.Now()

	for attempt := 1; cfg.MaxAttempts == 0 || attempt <= cfg.MaxAttempts; attempt++ {
		if backoff := calculateBackoff(attempt, cfg); backoff > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return fmt.Errorf("context cancelled during %s backoff (attempt %d): %w",
					operation, attempt, ctx.Err())
			}
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context cancelled before %s attempt %d: %w", operation, attempt, err)
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !retryableError(err) {
			return fmt.Errorf("non-retryable error on %s attempt %d: %w", operation, attempt, err)
		}
	}

	return fmt.Errorf("all %d %s attempts failed after %v (last error: %w)",
		cfg.MaxAttempts, operation, time.Since(startTime), lastErr)
}
