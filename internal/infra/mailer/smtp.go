package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"newsdesk/internal/resilience/circuitbreaker"
	"newsdesk/internal/resilience/retry"
)

// Sender delivers a single plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP sends mail through a configured relay.
type SMTP struct {
	cfg            Config
	circuitBreaker *circuitbreaker.CircuitBreaker
	dial           func(ctx context.Context, client *gomail.Client, msg *gomail.Msg) error
}

// NewSMTP validates cfg and returns an SMTP sender.
func NewSMTP(cfg Config) (*SMTP, error) {
	if !cfg.Enabled() {
		return nil, errors.New("SMTP host is not configured")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SMTP{
		cfg:            cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.SMTPConfig()),
		dial: func(ctx context.Context, client *gomail.Client, msg *gomail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}, nil
}

// New returns an SMTP sender when cfg names a host and a log-only sender otherwise.
func New(cfg Config) (Sender, error) {
	if !cfg.Enabled() {
		slog.Warn("SMTP_HOST not set, email is logged instead of sent")
		return NewLog(slog.Default()), nil
	}
	return NewSMTP(cfg)
}

func (s *SMTP) buildMessage(to, subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, retry.Permanent(fmt.Errorf("from address: %w", err))
	}
	if err := msg.To(to); err != nil {
		return nil, retry.Permanent(fmt.Errorf("recipient address: %w", err))
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

func (s *SMTP) client() (*gomail.Client, error) {
	policy, err := s.cfg.tlsPolicy()
	if err != nil {
		return nil, retry.Permanent(err)
	}
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTimeout(s.cfg.Timeout),
		gomail.WithTLSPolicy(policy),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthAutoDiscover),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("smtp client: %w", err))
	}
	return client, nil
}

// Send delivers one message, retrying temporary SMTP failures briefly.
func (s *SMTP) Send(ctx context.Context, to, subject, body string) error {
	msg, err := s.buildMessage(to, subject, body)
	if err != nil {
		return err
	}
	client, err := s.client()
	if err != nil {
		return err
	}

	return retry.WithBackoff(ctx, retry.MailConfig(), func() error {
		_, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, s.dial(ctx, client, msg)
		})
		return classify(err)
	})
}

// classify marks temporary SMTP replies (4xx) as retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var sendErr *gomail.SendError
	if errors.As(err, &sendErr) && sendErr.IsTemp() {
		return retry.Transient(err)
	}
	return err
}
