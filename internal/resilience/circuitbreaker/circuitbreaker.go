// Package circuitbreaker stops calling an upstream provider that keeps failing.
// It wraps github.com/sony/gobreaker with slog logging and Prometheus state metrics.
package circuitbreaker

import (
	"log/slog"
	"time"

	"news-hub/internal/observability/metrics"

	"github.com/sony/gobreaker"
)

// Config tunes one breaker.
type Config struct {
	// Name labels logs and metrics, normally the provider id.
	Name string

	// MaxRequests may pass while half-open; one failure among them re-opens the circuit.
	MaxRequests uint32

	// Interval clears the closed-state counts. Zero never clears them.
	Interval time.Duration

	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration

	// FailureThreshold trips the circuit once failures/requests reaches it (0.8 = 80%).
	FailureThreshold float64

	// MinRequests must be seen in the current interval before the ratio is considered.
	MinRequests uint32

	// IsSuccessful decides whether an error counts against the breaker.
	// Nil counts every non-nil error as a failure.
	IsSuccessful func(err error) bool
}

// ProviderAPIConfig returns the configuration for a news provider API.
// A provider is given up on for 30 seconds once most of its recent calls failed.
func ProviderAPIConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker guards calls to one upstream.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a breaker in the closed state and publishes that state.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip:  tripAt(cfg.MinRequests, cfg.FailureThreshold),
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			metrics.RecordCircuitBreakerState(name, to.String())
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(metrics.BreakerClosed)

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

func tripAt(minRequests uint32, threshold float64) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < minRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= threshold
	}
}

// Execute runs fn through cb. While the circuit is open it returns
// gobreaker.ErrOpenState (or ErrTooManyRequests when half-open) without calling fn.
func Execute[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	var out T
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		v, err := fn()
		out = v
		return nil, err
	})
	return out, err
}

// State returns the current gobreaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name the breaker was created with.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently rejected outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
