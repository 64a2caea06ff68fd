package repository

import (
	"context"
	"time"

	"newsdesk/internal/domain/entity"
)

// OTPStore keeps at most one OTP record per email.
type OTPStore interface {
	// Put replaces any existing record for rec.Email and clears its
	// failed-attempt count.
	Put(ctx context.Context, rec entity.OTPRecord) error
	// Get returns (nil, nil) when no record exists.
	Get(ctx context.Context, email string) (*entity.OTPRecord, error)
	// Consume removes and returns the record in one step. Of several
	// concurrent callers at most one receives it; the rest get (nil, nil).
	Consume(ctx context.Context, email string) (*entity.OTPRecord, error)
	Delete(ctx context.Context, email string) error
	// RecordFailure counts a wrong code for email and returns the count
	// within window.
	RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error)
}
