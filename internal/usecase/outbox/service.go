// Package outbox delivers queued email with retries. Messages are written to
// the outbox first so that a failed send never loses them; the reconciler
// picks up whatever the immediate send could not deliver.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/observability/metrics"
	"newsdesk/internal/repository"
)

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config tunes delivery and retry scheduling.
type Config struct {
	BatchSize   int
	Lease       time.Duration
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	MaxAttempts int
}

// DefaultConfig returns batch 20, lease 2m, backoff 30s doubling up to 1h,
// and 5 attempts.
func DefaultConfig() Config {
	return Config{
		BatchSize:   20,
		Lease:       2 * time.Minute,
		BaseBackoff: 30 * time.Second,
		MaxBackoff:  time.Hour,
		MaxAttempts: entity.DefaultOutboxMaxAttempts,
	}
}

// Stats summarizes one reconcile pass.
type Stats struct {
	Claimed int `json:"claimed"`
	Sent    int `json:"sent"`
	Retried int `json:"retried"`
	Failed  int `json:"failed"`
}

type Service struct {
	Repo   repository.OutboxRepository
	Sender Sender
	Config Config
	Now    func() time.Time
}

// NewService returns a Service with DefaultConfig.
func NewService(repo repository.OutboxRepository, sender Sender) *Service {
	return &Service{Repo: repo, Sender: sender, Config: DefaultConfig(), Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Backoff returns the delay before the next try after prior failed attempts.
func (s *Service) Backoff(prior int) time.Duration {
	d := s.Config.BaseBackoff
	for i := 0; i < prior; i++ {
		d *= 2
		if d >= s.Config.MaxBackoff {
			return s.Config.MaxBackoff
		}
	}
	return min(d, s.Config.MaxBackoff)
}

// Submit records the message and tries to send it right away. The stored row
// starts out leased so that a concurrent reconcile pass leaves it alone. A
// send failure is not returned: the message stays queued for retry.
func (s *Service) Submit(ctx context.Context, to, subject, body string) (*entity.OutboxMessage, error) {
	msg := &entity.OutboxMessage{
		Recipient:   to,
		Subject:     subject,
		Body:        body,
		MaxAttempts: s.Config.MaxAttempts,
		NextRetryAt: s.now().Add(s.Config.Lease),
	}
	if err := s.Repo.Enqueue(ctx, msg); err != nil {
		return nil, fmt.Errorf("enqueue mail: %w", err)
	}
	if err := s.Deliver(ctx, msg); err != nil {
		slog.Default().Warn("immediate mail send failed, left for retry",
			slog.Int64("outbox_id", msg.ID),
			slog.Any("error", err))
	}
	return msg, nil
}

// Deliver makes one send attempt and records the result on the row.
// It returns the send error, if any.
func (s *Service) Deliver(ctx context.Context, msg *entity.OutboxMessage) error {
	sendErr := s.Sender.Send(ctx, msg.Recipient, msg.Subject, msg.Body)
	now := s.now()

	if sendErr == nil {
		if err := s.Repo.MarkSent(ctx, msg.ID, now); err != nil {
			return fmt.Errorf("mark sent: %w", err)
		}
		msg.Status = entity.OutboxSent
		msg.Attempts++
		msg.SentAt = &now
		metrics.RecordMailDelivery("sent")
		return nil
	}

	attempts := msg.Attempts + 1
	maxAttempts := msg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = s.Config.MaxAttempts
	}

	if attempts >= maxAttempts {
		if err := s.Repo.MarkFailed(ctx, msg.ID, attempts, sendErr.Error()); err != nil {
			return errors.Join(sendErr, fmt.Errorf("mark failed: %w", err))
		}
		msg.Status = entity.OutboxFailed
		metrics.RecordMailDelivery("failed")
		slog.Default().Error("mail delivery abandoned",
			slog.Int64("outbox_id", msg.ID),
			slog.Int("attempts", attempts),
			slog.Any("error", sendErr))
	} else {
		next := now.Add(s.Backoff(msg.Attempts))
		if err := s.Repo.MarkRetry(ctx, msg.ID, attempts, next, sendErr.Error()); err != nil {
			return errors.Join(sendErr, fmt.Errorf("mark retry: %w", err))
		}
		msg.NextRetryAt = next
		metrics.RecordMailDelivery("retry")
	}
	msg.Attempts = attempts
	msg.LastError = sendErr.Error()
	return sendErr
}

// ReconcileOnce claims due messages and attempts each one.
func (s *Service) ReconcileOnce(ctx context.Context) (Stats, error) {
	var stats Stats
	msgs, err := s.Repo.ClaimDue(ctx, s.Config.BatchSize, s.Config.Lease)
	if err != nil {
		return stats, fmt.Errorf("claim outbox: %w", err)
	}
	stats.Claimed = len(msgs)

	for _, msg := range msgs {
		if ctx.Err() != nil {
			return stats, ctx.Err()
		}
		if err := s.Deliver(ctx, msg); err != nil {
			if msg.Status == entity.OutboxFailed {
				stats.Failed++
			} else {
				stats.Retried++
			}
			continue
		}
		stats.Sent++
	}

	if stats.Claimed > 0 {
		slog.Default().Info("outbox reconciled",
			slog.Int("claimed", stats.Claimed),
			slog.Int("sent", stats.Sent),
			slog.Int("retried", stats.Retried),
			slog.Int("failed", stats.Failed))
	}
	return stats, nil
}
