package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/pkg/logger"
)

// Config controls the backoff schedule for one retried operation.
type Config struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int
	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration
	// MaxDelay caps the exponential growth.
	MaxDelay time.Duration
	// Multiplier is the per-attempt growth factor.
	Multiplier float64
	// Jitter spreads delays ±25% to avoid synchronized retries.
	Jitter bool
	// Retryable decides whether an error is worth another attempt.
	// Nil means every error is.
	Retryable func(error) bool
}

// DefaultConfig returns sensible retry defaults
func DefaultConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// MailerConfig returns the schedule for the transactional email API. Email
// sends are fire-and-forget from the caller's view, so delays can stretch.
func MailerConfig() Config {
	config := DefaultConfig()
	config.InitialDelay = 500 * time.Millisecond
	config.MaxDelay = 10 * time.Second
	return config
}

// StorageConfig returns the schedule for object storage uploads, which sit
// on a request path and need to give up quickly.
func StorageConfig() Config {
	config := DefaultConfig()
	config.InitialDelay = 200 * time.Millisecond
	config.MaxDelay = 3 * time.Second
	return config
}

// Do runs fn under the config's schedule until it succeeds, exhausts its
// attempts, stops on a non-retryable error, or the context ends.
func Do(ctx context.Context, config Config, operation string, fn func() error) error {
	_, err := DoWithResult(ctx, config, operation, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// DoWithResult is Do for operations that return a value.
func DoWithResult[T any](ctx context.Context, config Config, operation string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		res, err := fn()
		if err == nil {
			if attempt > 0 {
				logger.Info("Operation succeeded after retry",
					zap.String("operation", operation),
					zap.Int("attempt", attempt))
			}
			return res, nil
		}
		lastErr = err

		if config.Retryable != nil && !config.Retryable(err) {
			logger.Warn("Non-retryable error encountered",
				zap.String("operation", operation),
				zap.Error(err))
			return zero, err
		}

		if attempt == config.MaxRetries {
			break
		}

		delay := backoffDelay(attempt, config)
		logger.Warn("Operation failed, retrying",
			zap.String("operation", operation),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", config.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	logger.Error("Operation failed after all retries",
		zap.String("operation", operation),
		zap.Int("max_retries", config.MaxRetries),
		zap.Error(lastErr))

	return zero, fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}

func backoffDelay(attempt int, config Config) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if config.Jitter {
		spread := delay * 0.25
		//nolint:gosec // G404: math/rand is sufficient for retry jitter
		delay += (rand.Float64() * 2 * spread) - spread
	}
	return time.Duration(delay)
}
