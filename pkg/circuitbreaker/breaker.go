package circuitbreaker

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/aureeture/aureeture-api/pkg/logger"
)

// Config holds circuit breaker configuration
type Config struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // failure-count reset window while closed
	Timeout     time.Duration // how long the breaker stays open
	ReadyToTrip func(counts gobreaker.Counts) bool
}

// DefaultConfig trips after 3+ requests with a 60% failure ratio and probes
// again after 30 seconds. State transitions are logged.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	}
}

// NewCircuitBreaker creates a breaker from the config.
func NewCircuitBreaker(cfg Config) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: cfg.ReadyToTrip,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

// Execute runs fn through the breaker, keeping the result typed.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed in circuit breaker %q", cb.Name())
	}
	return typed, nil
}
