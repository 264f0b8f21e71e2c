// Package resilience wraps outbound HTTP clients with a circuit breaker and an
// optional retry policy.
package resilience

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	// Name identifies the breaker in logs and health output.
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero disables it.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration

	// ReadyToTrip decides when to open. Defaults to TripOnFailureRatio.
	ReadyToTrip func(counts gobreaker.Counts) bool
}

// DefaultBreakerConfig returns the breaker settings used by every client.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 1,
		OpenTimeout: 30 * time.Second,
		ReadyToTrip: TripOnFailureRatio,
	}
}

// TripOnFailureRatio opens the breaker once five requests have been seen and
// at least half of them failed.
func TripOnFailureRatio(counts gobreaker.Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

func newBreaker[T any](cfg BreakerConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[T] {
	trip := cfg.ReadyToTrip
	if trip == nil {
		trip = TripOnFailureRatio
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: trip,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
}
