package entity

import "time"

// OutboxStatus is the delivery state of an outbox message.
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// DefaultOutboxMaxAttempts bounds delivery attempts per message.
const DefaultOutboxMaxAttempts = 5

// OutboxMessage is an email recorded for delivery. Delivery is retried by the
// outbox reconciler until it succeeds or MaxAttempts is reached.
type OutboxMessage struct {
	ID          int64
	Recipient   string
	Subject     string
	Body        string
	Status      OutboxStatus
	Attempts    int
	MaxAttempts int
	LastError   string
	NextRetryAt time.Time
	CreatedAt   time.Time
	SentAt      *time.Time
}
