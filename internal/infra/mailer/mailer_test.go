package mailer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Host = "smtp.example.com"
	cfg.From = "Newsdesk <desk@example.com>"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"disabled skips checks", func(c *Config) { c.Host = ""; c.Port = -1 }, ""},
		{"bad port", func(c *Config) { c.Port = 70000 }, "invalid SMTP port"},
		{"bad from", func(c *Config) { c.From = "not an address" }, "invalid SMTP from address"},
		{"bad tls", func(c *Config) { c.TLS = "sometimes" }, "invalid SMTP TLS policy"},
		{"bad timeout", func(c *Config) { c.Timeout = 0 }, "invalid SMTP timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("SMTP_USERNAME", "u")
	t.Setenv("SMTP_PASSWORD", "p")
	t.Setenv("SMTP_FROM", "desk@example.com")
	t.Setenv("SMTP_TLS", "mandatory")
	t.Setenv("SMTP_TIMEOUT", "3s")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, Config{
		Host: "mail.example.com", Port: 465, Username: "u", Password: "p",
		From: "desk@example.com", TLS: "mandatory", Timeout: 3 * time.Second,
	}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestNew_FallsBackToLog(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	_, ok := s.(*Log)
	assert.True(t, ok)
}

func TestSMTP_BuildMessage(t *testing.T) {
	s, err := NewSMTP(validConfig())
	require.NoError(t, err)

	msg, err := s.buildMessage("ed@example.com", "Your login code", "Code: 123456")
	require.NoError(t, err)

	rcpts, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ed@example.com"}, rcpts)
	assert.Equal(t, []string{"Your login code"}, msg.GetGenHeader(gomail.HeaderSubject))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Code: 123456")
}

func TestSMTP_Send_InvalidRecipientIsNotDialed(t *testing.T) {
	s, err := NewSMTP(validConfig())
	require.NoError(t, err)
	dialed := false
	s.dial = func(context.Context, *gomail.Client, *gomail.Msg) error {
		dialed = true
		return nil
	}

	err = s.Send(context.Background(), "not an address", "s", "b")
	assert.Error(t, err)
	assert.False(t, dialed)
}

func TestSMTP_Send_UsesDialer(t *testing.T) {
	s, err := NewSMTP(validConfig())
	require.NoError(t, err)
	calls := 0
	s.dial = func(context.Context, *gomail.Client, *gomail.Msg) error {
		calls++
		return errors.New("550 mailbox unavailable")
	}

	err = s.Send(context.Background(), "ed@example.com", "s", "b")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "permanent SMTP errors are not retried")
}

func TestLog_Send(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))

	require.NoError(t, l.Send(context.Background(), "ed@example.com", "Your login code", "Code: 123456"))
	out := buf.String()
	assert.Contains(t, out, "ed@example.com")
	assert.False(t, strings.Contains(out, "123456"), "body must only be logged at debug level")
}
