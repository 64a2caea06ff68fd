// Package config holds small helpers for reading typed environment
// variables. Invalid values fall back to the default with a warning.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the variable, or def when it is unset or empty.
//
//	addr := GetEnvString("REDIS_ADDR", "localhost:6379")
func GetEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt parses the variable as a base-10 integer.
//
//	port := GetEnvInt("HEALTH_PORT", 9091)
func GetEnvInt(key string, def int) int {
	return parsed(key, def, "integer", strconv.Atoi)
}

// GetEnvBool accepts the values of strconv.ParseBool.
//
//	persist := GetEnvBool("DRAFT_PERSIST_SENTINEL", false)
func GetEnvBool(key string, def bool) bool {
	return parsed(key, def, "boolean", strconv.ParseBool)
}

// GetEnvDuration parses the variable with time.ParseDuration.
//
//	timeout := GetEnvDuration("DRAFT_RUN_TIMEOUT", 10*time.Minute)
func GetEnvDuration(key string, def time.Duration) time.Duration {
	return parsed(key, def, "duration", time.ParseDuration)
}

// GetEnvStringList splits a comma separated variable, dropping blank entries.
//
//	// ADMIN_EMAILS="chief@example.com, desk@example.com"
//	admins := GetEnvStringList("ADMIN_EMAILS", nil)
func GetEnvStringList(key string, def []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func parsed[T any](key string, def T, kind string, parse func(string) (T, error)) T {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("invalid "+kind+" value for environment variable, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Any("default", def),
			slog.String("error", err.Error()))
		return def
	}
	return v
}
