// Package otp gates admin actions behind emailed one-time codes.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"
	"net/mail"
	"os"
	"strconv"
	"strings"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/repository"
	envconfig "newsdesk/pkg/config"
	"newsdesk/pkg/ratelimit"
)

// Mailer queues an email and makes a first delivery attempt.
type Mailer interface {
	Submit(ctx context.Context, to, subject, body string) (*entity.OutboxMessage, error)
}

// TokenIssuer signs an admin token for a verified email.
type TokenIssuer interface {
	Issue(email string) (string, time.Time, error)
}

// Config holds code lifetime, send throttling, the failed-verify cap and
// the admin allow-list.
type Config struct {
	TTL          time.Duration
	SendInterval time.Duration
	SendBurst    int
	// MaxVerifyAttempts wrong codes burn the outstanding code.
	MaxVerifyAttempts int
	AllowedEmails     []string
}

// DefaultConfig returns a 5 minute code lifetime, one send per 30s with a
// burst of 3 and five wrong guesses per code. An empty allow-list admits
// every address, which is only accepted while admin tokens are disabled.
func DefaultConfig() Config {
	return Config{
		TTL:               5 * time.Minute,
		SendInterval:      30 * time.Second,
		SendBurst:         3,
		MaxVerifyAttempts: 5,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return fmt.Errorf("otp ttl must be positive, got %s", c.TTL)
	}
	if c.SendInterval < 0 {
		return fmt.Errorf("otp send interval cannot be negative, got %s", c.SendInterval)
	}
	if c.SendBurst < 1 {
		return fmt.Errorf("otp send burst must be at least 1, got %d", c.SendBurst)
	}
	if c.MaxVerifyAttempts < 1 {
		return fmt.Errorf("otp max verify attempts must be at least 1, got %d", c.MaxVerifyAttempts)
	}
	return nil
}

// ValidateForTokens rejects a config that would hand an admin token to
// anyone able to read their own mail.
func (c Config) ValidateForTokens() error {
	if len(c.AllowedEmails) == 0 {
		return ErrNoAllowList
	}
	return nil
}

// LoadConfigFromEnv reads OTP_TTL, OTP_SEND_INTERVAL, OTP_SEND_BURST,
// OTP_MAX_VERIFY_ATTEMPTS and ADMIN_EMAILS over DefaultConfig.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv("OTP_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("OTP_TTL: %w", err)
		}
		cfg.TTL = d
	}
	if v := os.Getenv("OTP_SEND_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("OTP_SEND_INTERVAL: %w", err)
		}
		cfg.SendInterval = d
	}
	if v := os.Getenv("OTP_SEND_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("OTP_SEND_BURST: %w", err)
		}
		cfg.SendBurst = n
	}
	cfg.MaxVerifyAttempts = envconfig.GetEnvInt("OTP_MAX_VERIFY_ATTEMPTS", cfg.MaxVerifyAttempts)
	for _, e := range envconfig.GetEnvStringList("ADMIN_EMAILS", nil) {
		cfg.AllowedEmails = append(cfg.AllowedEmails, strings.ToLower(e))
	}
	return cfg, cfg.Validate()
}

// VerifyResult is the outcome of Verify. Token is set only when the outcome
// is verified and an issuer is configured.
type VerifyResult struct {
	Outcome   entity.OTPOutcome
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	Store  repository.OTPStore
	Mailer Mailer
	Tokens TokenIssuer
	Config Config
	Now    func() time.Time

	limiter *ratelimit.Keyed
	allowed map[string]struct{}
}

// NewService wires a Service. tokens may be nil when admin auth is disabled.
func NewService(store repository.OTPStore, mailer Mailer, tokens TokenIssuer, cfg Config) *Service {
	allowed := make(map[string]struct{}, len(cfg.AllowedEmails))
	for _, e := range cfg.AllowedEmails {
		allowed[strings.ToLower(e)] = struct{}{}
	}
	return &Service{
		Store:   store,
		Mailer:  mailer,
		Tokens:  tokens,
		Config:  cfg,
		Now:     time.Now,
		limiter: ratelimit.NewKeyed(cfg.SendInterval, cfg.SendBurst),
		allowed: allowed,
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// NormalizeEmail parses a bare address and lowercases it.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// GenerateCode returns a uniformly random six digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// Send replaces any outstanding code for email with a fresh one and queues
// it for delivery. Once the code is stored, delivery problems are handled
// by the outbox and do not fail the call.
func (s *Service) Send(ctx context.Context, rawEmail string) error {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		metrics.RecordOTPSend("invalid")
		return err
	}
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[email]; !ok {
			metrics.RecordOTPSend("not_allowed")
			return ErrEmailNotAllowed
		}
	}
	if !s.limiter.Allow(email) {
		metrics.RecordOTPSend("rate_limited")
		return ErrRateLimited
	}

	code, err := GenerateCode()
	if err != nil {
		metrics.RecordOTPSend("error")
		return err
	}
	now := s.now()
	rec := entity.OTPRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.Config.TTL),
		CreatedAt: now,
	}
	if err := s.Store.Put(ctx, rec); err != nil {
		metrics.RecordOTPSend("error")
		return fmt.Errorf("store otp: %w", err)
	}

	subject := "Your newsdesk sign-in code"
	body := fmt.Sprintf("Your newsdesk verification code is %s.\n\nIt expires in %d minutes. If you did not request it, ignore this email.\n",
		code, int(s.Config.TTL.Minutes()))
	msg, err := s.Mailer.Submit(ctx, email, subject, body)
	if err != nil {
		metrics.RecordOTPSend("error")
		return fmt.Errorf("queue otp mail: %w", err)
	}

	metrics.RecordOTPSend("ok")
	slog.Default().Info("otp issued",
		slog.String("email", email),
		slog.Int64("outbox_id", msg.ID),
		slog.String("mail_status", string(msg.Status)))
	return nil
}

// Verify checks code against the stored record for email. Expiry is
// decided before the code is compared.
func (s *Service) Verify(ctx context.Context, rawEmail, code string) (VerifyResult, error) {
	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		return VerifyResult{}, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return VerifyResult{}, ErrInvalidCode
	}

	if s.Tokens != nil && len(s.allowed) == 0 {
		return VerifyResult{}, ErrNoAllowList
	}

	rec, err := s.Store.Get(ctx, email)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("load otp: %w", err)
	}

	res := VerifyResult{}
	switch {
	case rec == nil:
		res.Outcome = entity.OTPNotFound
	case rec.Expired(s.now()):
		res.Outcome = entity.OTPExpired
	case !sameCode(rec.Code, code):
		res.Outcome = entity.OTPInvalid
	default:
		res.Outcome, err = s.consume(ctx, email, code)
		if err != nil {
			return VerifyResult{}, err
		}
	}
	if res.Outcome == entity.OTPInvalid {
		if err := s.recordFailure(ctx, email); err != nil {
			return VerifyResult{}, err
		}
	}
	metrics.RecordOTPVerify(string(res.Outcome))
	if res.Outcome != entity.OTPVerified {
		return res, nil
	}

	if s.Tokens != nil {
		tok, exp, err := s.Tokens.Issue(email)
		if err != nil {
			return VerifyResult{}, fmt.Errorf("issue token: %w", err)
		}
		res.Token, res.ExpiresAt = tok, exp
	}
	slog.Default().Info("otp verified", slog.String("email", email))
	return res, nil
}

func sameCode(stored, submitted string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}

// consume takes the record out of the store. A concurrent verify that got
// there first leaves nothing to take; a resend that landed in between is
// put back and the submitted code counts as wrong.
func (s *Service) consume(ctx context.Context, email, code string) (entity.OTPOutcome, error) {
	taken, err := s.Store.Consume(ctx, email)
	if err != nil {
		return "", fmt.Errorf("consume otp: %w", err)
	}
	switch {
	case taken == nil:
		return entity.OTPNotFound, nil
	case !sameCode(taken.Code, code):
		if err := s.Store.Put(ctx, *taken); err != nil {
			return "", fmt.Errorf("restore otp: %w", err)
		}
		return entity.OTPInvalid, nil
	}
	return entity.OTPVerified, nil
}

// recordFailure counts a wrong code and burns the outstanding one once
// MaxVerifyAttempts is reached, so guessing has to start over with a new
// send, which is itself rate limited.
func (s *Service) recordFailure(ctx context.Context, email string) error {
	n, err := s.Store.RecordFailure(ctx, email, s.Config.TTL)
	if err != nil {
		return fmt.Errorf("count otp failure: %w", err)
	}
	if n < int64(s.Config.MaxVerifyAttempts) {
		return nil
	}
	if err := s.Store.Delete(ctx, email); err != nil {
		return fmt.Errorf("burn otp: %w", err)
	}
	metrics.RecordOTPVerify("burned")
	slog.Default().Warn("otp burned after repeated wrong codes",
		slog.String("email", email),
		slog.Int64("attempts", n))
	return nil
}
