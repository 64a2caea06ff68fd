package repository

import (
	"context"
	"time"

	"newsdesk/internal/domain/entity"
)

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg *entity.OutboxMessage) error
	// ClaimDue leases up to limit pending messages whose retry time has
	// passed. A claimed row is hidden from other claimers until lease expires.
	ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]*entity.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkRetry(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id int64, attempts int, lastErr string) error
}
