package otpstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"newsdesk/internal/domain/entity"
	"newsdesk/internal/repository"
)

const (
	keyPrefix   = "otp:"
	failsPrefix = "otp:fails:"
)

// DefaultGrace keeps an expired record around long enough to report
// "expired" rather than "not found".
const DefaultGrace = 10 * time.Minute

// Store implements repository.OTPStore on a Redis key per email.
type Store struct {
	client redis.Cmdable
	grace  time.Duration
	now    func() time.Time
}

var _ repository.OTPStore = (*Store)(nil)

// NewStore returns a Store. A non-positive grace uses DefaultGrace.
func NewStore(client redis.Cmdable, grace time.Duration) *Store {
	if grace <= 0 {
		grace = DefaultGrace
	}
	return &Store{client: client, grace: grace, now: time.Now}
}

func key(email string) string      { return keyPrefix + email }
func failsKey(email string) string { return failsPrefix + email }

// Put overwrites the record for rec.Email. SET replaces both the value and
// the TTL so a resend always starts a fresh window, and the failure count
// is dropped in the same transaction.
func (s *Store) Put(ctx context.Context, rec entity.OTPRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("Put: marshal: %w", err)
	}
	ttl := rec.ExpiresAt.Sub(s.now()) + s.grace
	if ttl <= 0 {
		ttl = s.grace
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key(rec.Email), data, ttl)
		pipe.Del(ctx, failsKey(rec.Email))
		return nil
	})
	if err != nil {
		return fmt.Errorf("Put: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, email string) (*entity.OTPRecord, error) {
	rec, err := decode(s.client.Get(ctx, key(email)).Bytes())
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return rec, nil
}

// Consume uses GETDEL so two verifies racing on the same code cannot both
// succeed.
func (s *Store) Consume(ctx context.Context, email string) (*entity.OTPRecord, error) {
	rec, err := decode(s.client.GetDel(ctx, key(email)).Bytes())
	if err != nil {
		return nil, fmt.Errorf("Consume: %w", err)
	}
	return rec, nil
}

func decode(data []byte, err error) (*entity.OTPRecord, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec entity.OTPRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	return &rec, nil
}

func (s *Store) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, key(email), failsKey(email)).Err(); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// RecordFailure increments the failure counter and pushes its expiry out
// to window.
func (s *Store) RecordFailure(ctx context.Context, email string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, failsKey(email))
		pipe.Expire(ctx, failsKey(email), window)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("RecordFailure: %w", err)
	}
	return incr.Val(), nil
}

// Ping reports whether Redis answers; used by the health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
