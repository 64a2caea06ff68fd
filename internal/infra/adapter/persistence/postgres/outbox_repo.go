package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

const outboxColumns = `id, recipient, subject, body, status, attempts, max_attempts,
       last_error, next_retry_at, created_at, sent_at`

type OutboxRepo struct{ db *sql.DB }

func NewOutboxRepo(db *sql.DB) repository.OutboxRepository {
	return &OutboxRepo{db: db}
}

func scanOutbox(row rowScanner) (*entity.OutboxMessage, error) {
	var m entity.OutboxMessage
	var status string
	if err := row.Scan(&m.ID, &m.Recipient, &m.Subject, &m.Body, &status, &m.Attempts,
		&m.MaxAttempts, &m.LastError, &m.NextRetryAt, &m.CreatedAt, &m.SentAt); err != nil {
		return nil, err
	}
	m.Status = entity.OutboxStatus(status)
	return &m, nil
}

func (repo *OutboxRepo) Enqueue(ctx context.Context, m *entity.OutboxMessage) error {
	defer observe("outbox.enqueue", time.Now())
	const query = `
INSERT INTO mail_outbox (recipient, subject, body, status, max_attempts, next_retry_at)
VALUES ($1, $2, $3, 'pending', $4, $5)
RETURNING id, status, created_at`
	if m.MaxAttempts <= 0 {
		m.MaxAttempts = entity.DefaultOutboxMaxAttempts
	}
	if m.NextRetryAt.IsZero() {
		m.NextRetryAt = time.Now()
	}
	var status string
	err := repo.db.QueryRowContext(ctx, query, m.Recipient, m.Subject, m.Body, m.MaxAttempts, m.NextRetryAt).
		Scan(&m.ID, &status, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("Enqueue: %w", err)
	}
	m.Status = entity.OutboxStatus(status)
	return nil
}

// ClaimDue pushes next_retry_at forward by lease on the claimed rows so a
// concurrent reconciler skips them; FOR UPDATE SKIP LOCKED keeps two claimers
// from taking the same row.
func (repo *OutboxRepo) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]*entity.OutboxMessage, error) {
	defer observe("outbox.claim_due", time.Now())
	const query = `
UPDATE mail_outbox
SET next_retry_at = NOW() + make_interval(secs => $2)
WHERE id IN (
	SELECT id FROM mail_outbox
	WHERE status = 'pending' AND next_retry_at <= NOW()
	ORDER BY next_retry_at, id
	LIMIT $1
	FOR UPDATE SKIP LOCKED
)
RETURNING ` + outboxColumns
	rows, err := repo.db.QueryContext(ctx, query, limit, lease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("ClaimDue: %w", err)
	}
	defer func() { _ = rows.Close() }()

	msgs := make([]*entity.OutboxMessage, 0, limit)
	for rows.Next() {
		m, err := scanOutbox(rows)
		if err != nil {
			return nil, fmt.Errorf("ClaimDue: Scan: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (repo *OutboxRepo) MarkSent(ctx context.Context, id int64, at time.Time) error {
	defer observe("outbox.mark_sent", time.Now())
	const query = `
UPDATE mail_outbox
SET status = 'sent', sent_at = $1, attempts = attempts + 1, last_error = ''
WHERE id = $2`
	return execOne(ctx, repo.db, "MarkSent", query, at, id)
}

func (repo *OutboxRepo) MarkRetry(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error {
	defer observe("outbox.mark_retry", time.Now())
	const query = `
UPDATE mail_outbox
SET attempts = $1, next_retry_at = $2, last_error = $3
WHERE id = $4`
	return execOne(ctx, repo.db, "MarkRetry", query, attempts, next, lastErr, id)
}

func (repo *OutboxRepo) MarkFailed(ctx context.Context, id int64, attempts int, lastErr string) error {
	defer observe("outbox.mark_failed", time.Now())
	const query = `
UPDATE mail_outbox
SET status = 'failed', attempts = $1, last_error = $2
WHERE id = $3`
	return execOne(ctx, repo.db, "MarkFailed", query, attempts, lastErr, id)
}
