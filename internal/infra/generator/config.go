package generator

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in DRAFT_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// Config holds the draft generator settings.
type Config struct {
	// Provider selects the backend: "openai" (default) or "claude".
	Provider string

	OpenAIKey   string
	OpenAIModel string
	// OpenAIBaseURL overrides the API endpoint (proxies, compatible servers).
	OpenAIBaseURL string

	AnthropicKey     string
	ClaudeModel      string
	AnthropicBaseURL string

	// MaxTokens bounds the model response. Long-form articles need room.
	MaxTokens int

	// Timeout bounds one generation, retries included.
	Timeout time.Duration

	// MaxFactsChars truncates the facts passed to the model.
	MaxFactsChars int
}

// DefaultConfig returns the defaults without API keys.
func DefaultConfig() Config {
	return Config{
		Provider:      ProviderOpenAI,
		OpenAIModel:   "gpt-4o-mini",
		ClaudeModel:   "claude-sonnet-4-5-20250929",
		MaxTokens:     4096,
		Timeout:       90 * time.Second,
		MaxFactsChars: 8000,
	}
}

// Validate checks the selected provider has what it needs.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.Provider)
		}
		if c.OpenAIModel == "" {
			return fmt.Errorf("openai model cannot be empty")
		}
	case ProviderClaude:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.Provider)
		}
		if c.ClaudeModel == "" {
			return fmt.Errorf("claude model cannot be empty")
		}
	default:
		return fmt.Errorf("unknown draft provider %q (must be openai or claude)", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxFactsChars < 500 {
		return fmt.Errorf("max facts chars must be at least 500, got %d", c.MaxFactsChars)
	}
	return nil
}

// LoadConfigFromEnv reads DRAFT_PROVIDER, OPENAI_API_KEY, OPENAI_MODEL,
// ANTHROPIC_API_KEY, CLAUDE_MODEL, DRAFT_MAX_TOKENS and DRAFT_TIMEOUT.
// The result is not validated; callers decide whether a missing key is fatal.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("DRAFT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	cfg.OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.AnthropicKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.AnthropicBaseURL = os.Getenv("ANTHROPIC_BASE_URL")
	if v := os.Getenv("CLAUDE_MODEL"); v != "" {
		cfg.ClaudeModel = v
	}
	if v := os.Getenv("DRAFT_MAX_TOKENS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DRAFT_MAX_TOKENS: %v", err)
		}
		cfg.MaxTokens = n
	}
	if v := os.Getenv("DRAFT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid DRAFT_TIMEOUT: %v (expected format: '90s', '2m')", err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
