// Package pagination parses limit/offset listing parameters.
package pagination

import (
	envconfig "newsdesk/pkg/config"
)

// Config holds listing limits.
type Config struct {
	DefaultLimit int // items returned when limit is omitted
	MaxLimit     int // largest accepted limit
}

// DefaultConfig returns limit=50, max=200.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 50,
		MaxLimit:     200,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT,
// falling back to DefaultConfig for unset or invalid values.
func LoadFromEnv() Config {
	def := DefaultConfig()
	cfg := Config{
		DefaultLimit: envconfig.GetEnvInt("PAGINATION_DEFAULT_LIMIT", def.DefaultLimit),
		MaxLimit:     envconfig.GetEnvInt("PAGINATION_MAX_LIMIT", def.MaxLimit),
	}
	if cfg.MaxLimit < 1 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.DefaultLimit < 1 || cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = min(def.DefaultLimit, cfg.MaxLimit)
	}
	return cfg
}
