// Package circuitbreaker wraps github.com/sony/gobreaker so that a failing
// upstream (a dead feed host, an LLM outage, an unreachable SMTP relay) is
// cut off instead of being hammered on every pipeline run.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var stateChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "newsdesk_circuit_breaker_state_changes_total",
		Help: "Circuit breaker state transitions by breaker and target state",
	},
	[]string{"circuit", "to"},
)

// Config tunes one breaker. The breaker opens once at least MinRequests
// calls were seen in the current Interval and the failure ratio reaches
// FailureThreshold; after Timeout it lets MaxRequests probes through.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig suits a single upstream API.
func DefaultConfig(name string) Config {
	return Config{Name: name, MaxRequests: 3, Interval: 30 * time.Second, Timeout: time.Minute, FailureThreshold: 0.6, MinRequests: 5}
}

// FeedConfig is used by the RSS link fetcher. Feeds from many hosts share
// one breaker, so it only trips on a broad outage.
func FeedConfig() Config {
	return Config{
		Name:             "feed-fetch",
		MaxRequests:      5,
		Interval:         60 * time.Second,
		Timeout:          120 * time.Second,
		FailureThreshold: 0.7,
		MinRequests:      10,
	}
}

// ScraperConfig is used by the article page scraper.
func ScraperConfig() Config {
	return Config{
		Name:             "page-scrape",
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          5 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      10,
	}
}

// OpenAIConfig is used by the OpenAI draft provider.
func OpenAIConfig() Config {
	return DefaultConfig("openai-api")
}

// ClaudeConfig is used by the Anthropic draft provider.
func ClaudeConfig() Config {
	return DefaultConfig("claude-api")
}

// SMTPConfig is used by the OTP mailer.
func SMTPConfig() Config {
	return Config{
		Name:             "smtp",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      3,
	}
}

// CircuitBreaker is a named gobreaker instance that logs and counts its
// state transitions.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a new circuit breaker with the given configuration.
func New(cfg Config) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			stateChanges.WithLabelValues(name, to.String()).Inc()
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Execute runs fn through the circuit breaker.
// If the circuit is open, it returns gobreaker.ErrOpenState immediately.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

// Do is the typed form of Execute.
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }
