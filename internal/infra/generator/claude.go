package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"
)

// Claude generates drafts with the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	engine engine
}

// NewClaude creates a Claude generator from cfg. SDK-level retries are
// disabled; the engine retries with its own policy.
func NewClaude(cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.AnthropicKey),
		option.WithMaxRetries(0),
	}
	if cfg.AnthropicBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.AnthropicBaseURL))
	}

	return &Claude{
		client: anthropic.NewClient(opts...),
		engine: engine{
			provider:       ProviderClaude,
			cfg:            cfg,
			circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeConfig()),
			retryConfig:    retry.LLMConfig(),
			metrics:        NewPrometheusMetrics(),
		},
	}
}

// Generate implements draft.Generator.
func (c *Claude) Generate(ctx context.Context, facts string) draft.DraftResult {
	return c.engine.generate(ctx, facts, c.complete)
}

func (c *Claude) complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.engine.cfg.ClaudeModel),
		MaxTokens: int64(c.engine.cfg.MaxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude api error: %w", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()})
		}
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", retry.Permanent(fmt.Errorf("claude api returned no text content"))
	}
	return b.String(), nil
}
