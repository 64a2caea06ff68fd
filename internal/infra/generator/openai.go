package generator

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
	"newsdesk/internal/usecase/draft"
)

// OpenAI generates drafts with the chat completions API in JSON mode.
type OpenAI struct {
	client *openai.Client
	engine engine
}

// NewOpenAI creates an OpenAI generator from cfg.
func NewOpenAI(cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		engine: engine{
			provider:       ProviderOpenAI,
			cfg:            cfg,
			circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIConfig()),
			retryConfig:    retry.LLMConfig(),
			metrics:        NewPrometheusMetrics(),
		},
	}
}

// Generate implements draft.Generator.
func (o *OpenAI) Generate(ctx context.Context, facts string) draft.DraftResult {
	return o.engine.generate(ctx, facts, o.complete)
}

func (o *OpenAI) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.engine.cfg.OpenAIModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxCompletionTokens: o.engine.cfg.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", classifyOpenAIError(err))
	}
	if len(resp.Choices) == 0 {
		return "", retry.Permanent(fmt.Errorf("openai api returned empty response"))
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyOpenAIError maps API status codes onto retry.HTTPError so that
// 429 and 5xx are retried and 4xx are not.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return err
}
