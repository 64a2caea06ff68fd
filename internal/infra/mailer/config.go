// Package mailer delivers outbox email over SMTP.
package mailer

import (
	"fmt"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Config holds SMTP settings. An empty Host selects the log mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// TLS is one of "mandatory", "opportunistic" or "none".
	TLS     string
	Timeout time.Duration
}

// DefaultConfig returns settings for a submission port with STARTTLS.
func DefaultConfig() Config {
	return Config{
		Port:    587,
		From:    "newsdesk <no-reply@localhost>",
		TLS:     "opportunistic",
		Timeout: 15 * time.Second,
	}
}

// Validate checks the configuration when SMTP delivery is enabled.
func (c Config) Validate() error {
	if c.Host == "" {
		return nil
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.Port)
	}
	if _, err := mail.ParseAddress(c.From); err != nil {
		return fmt.Errorf("invalid SMTP from address: %v", err)
	}
	if _, err := c.tlsPolicy(); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid SMTP timeout: %v", c.Timeout)
	}
	return nil
}

// Enabled reports whether SMTP delivery is configured.
func (c Config) Enabled() bool { return c.Host != "" }

func (c Config) tlsPolicy() (gomail.TLSPolicy, error) {
	switch strings.ToLower(c.TLS) {
	case "", "opportunistic":
		return gomail.TLSOpportunistic, nil
	case "mandatory":
		return gomail.TLSMandatory, nil
	case "none":
		return gomail.NoTLS, nil
	}
	return gomail.NoTLS, fmt.Errorf("invalid SMTP TLS policy: %q", c.TLS)
}

// LoadConfigFromEnv reads the SMTP_* variables over DefaultConfig.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Host = os.Getenv("SMTP_HOST")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	cfg.Username = os.Getenv("SMTP_USERNAME")
	cfg.Password = os.Getenv("SMTP_PASSWORD")
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.From = v
	}
	if v := os.Getenv("SMTP_TLS"); v != "" {
		cfg.TLS = v
	}
	if v := os.Getenv("SMTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	return cfg
}
