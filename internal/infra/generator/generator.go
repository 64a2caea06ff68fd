// Package generator writes draft articles from scraped facts with a
// language model. Generators never fail outward: every failure yields the
// sentinel draft together with the cause.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"
)

// completeFunc sends one prompt to a provider and returns the raw text reply.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// engine holds the provider-independent part of a generation: timeout,
// retry, circuit breaker, parsing and metrics.
type engine struct {
	provider       string
	cfg            Config
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	metrics        MetricsRecorder
}

func (e *engine) generate(ctx context.Context, facts string, complete completeFunc) (res draft.DraftResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("draft generation panicked",
				slog.String("provider", e.provider),
				slog.Any("panic", r))
			res = draft.Failed(fmt.Errorf("%w: panic: %v", draft.ErrGeneration, r))
		}
	}()

	if strings.TrimSpace(facts) == "" {
		return draft.Failed(fmt.Errorf("%w: empty facts", draft.ErrGeneration))
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	prompt := BuildPrompt(facts, e.cfg.MaxFactsChars)
	start := time.Now()

	var out entity.GeneratedDraft
	err := retry.WithBackoff(ctx, e.retryConfig, func() error {
		raw, err := circuitbreaker.Do(e.circuitBreaker, func() (string, error) {
			return complete(ctx, prompt)
		})
		if err != nil {
			return err
		}
		parsed, err := ParseDraft(raw)
		if err != nil {
			return retry.Permanent(err)
		}
		out = parsed
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		e.metrics.RecordRequest(e.provider, "failure", duration)
		slog.WarnContext(ctx, "draft generation failed, using sentinel draft",
			slog.String("provider", e.provider),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return draft.Failed(fmt.Errorf("%w: %s: %w", draft.ErrGeneration, e.provider, err))
	}

	e.metrics.RecordRequest(e.provider, "success", duration)
	slog.InfoContext(ctx, "draft generated",
		slog.String("provider", e.provider),
		slog.String("title", out.Title),
		slog.Int("content_length", len(out.Content)),
		slog.Duration("duration", duration))
	return draft.DraftResult{Draft: out}
}

// New returns the generator selected by cfg.Provider.
func New(cfg Config) (draft.Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ProviderClaude:
		return NewClaude(cfg), nil
	default:
		return NewOpenAI(cfg), nil
	}
}
