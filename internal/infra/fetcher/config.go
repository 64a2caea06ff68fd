package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultUserAgent mimics a desktop browser. Several publishers reject
// requests from obvious bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// HTTPConfig is threaded through every outbound fetch of the draft pipeline.
type HTTPConfig struct {
	// Timeout bounds a single HTTP request, including reading the body.
	// Default: 15s
	Timeout time.Duration

	// RetryAttempts is the total number of tries for transient failures.
	// 1 disables retries. Default: 3
	RetryAttempts int

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps the response body in bytes. Default: 5MB
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow. Default: 5
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private, loopback or
	// link-local addresses. Default: true
	DenyPrivateIPs bool
}

// DefaultHTTPConfig returns the production defaults.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:        15 * time.Second,
		RetryAttempts:  3,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    5 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate checks if the configuration values are valid and safe.
func (c *HTTPConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.RetryAttempts < 1 || c.RetryAttempts > 10 {
		return fmt.Errorf("retry attempts must be between 1 and 10, got %d", c.RetryAttempts)
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent must not be empty")
	}
	minBodySize := int64(1024)
	maxBodySize := int64(50 * 1024 * 1024)
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadHTTPConfigFromEnv loads the fetch configuration from environment
// variables, falling back to defaults for unset values.
//
// Environment variables:
//   - FETCH_TIMEOUT: duration string, e.g. "15s"
//   - FETCH_RETRY_ATTEMPTS: integer
//   - FETCH_USER_AGENT: string
//   - FETCH_MAX_BODY_SIZE: integer in bytes
//   - FETCH_MAX_REDIRECTS: integer
//   - FETCH_DENY_PRIVATE_IPS: "true" or "false"
func LoadHTTPConfigFromEnv() (HTTPConfig, error) {
	cfg := DefaultHTTPConfig()

	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %v (expected format: '15s', '1m')", err)
		}
		cfg.Timeout = parsed
	}

	if val := os.Getenv("FETCH_RETRY_ATTEMPTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_RETRY_ATTEMPTS: %v", err)
		}
		cfg.RetryAttempts = parsed
	}

	if val := os.Getenv("FETCH_USER_AGENT"); val != "" {
		cfg.UserAgent = val
	}

	if val := os.Getenv("FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}

	if val := os.Getenv("FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if val := os.Getenv("FETCH_DENY_PRIVATE_IPS"); val != "" {
		cfg.DenyPrivateIPs = val == "true"
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
