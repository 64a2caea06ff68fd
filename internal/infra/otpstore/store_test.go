package otpstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain/entity"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Minute), mr
}

func TestStore_PutGetDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	rec := entity.OTPRecord{Email: "ed@example.com", Code: "123456", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now}
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "ed@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456", got.Code)
	assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, s.Delete(ctx, "ed@example.com"))
	got, err = s.Get(ctx, "ed@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_PutReplacesExisting(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Put(ctx, entity.OTPRecord{Email: "ed@example.com", Code: "111111", ExpiresAt: now.Add(5 * time.Minute)}))
	require.NoError(t, s.Put(ctx, entity.OTPRecord{Email: "ed@example.com", Code: "222222", ExpiresAt: now.Add(5 * time.Minute)}))

	got, err := s.Get(ctx, "ed@example.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", got.Code)
}

func TestStore_TTLIncludesGrace(t *testing.T) {
	s, mr := newTestStore(t)
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(context.Background(), entity.OTPRecord{Email: "ed@example.com", Code: "1", ExpiresAt: now.Add(5 * time.Minute)}))
	assert.Equal(t, 6*time.Minute, mr.TTL("otp:ed@example.com"))

	// past the grace window the key is gone entirely
	mr.FastForward(7 * time.Minute)
	got, err := s.Get(context.Background(), "ed@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ConsumeOnlyOnce(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, entity.OTPRecord{Email: "ed@example.com", Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}))

	const racers = 8
	var wg sync.WaitGroup
	var won atomic.Int32
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := s.Consume(ctx, "ed@example.com")
			assert.NoError(t, err)
			if rec != nil {
				assert.Equal(t, "123456", rec.Code)
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won.Load())
	got, err := s.Get(ctx, "ed@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_RecordFailure(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := s.RecordFailure(ctx, "ed@example.com", 5*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	assert.Equal(t, 5*time.Minute, mr.TTL("otp:fails:ed@example.com"))

	// 新しいコードを発行するとカウンタはリセットされる
	require.NoError(t, s.Put(ctx, entity.OTPRecord{Email: "ed@example.com", Code: "1", ExpiresAt: time.Now().Add(time.Minute)}))
	assert.False(t, mr.Exists("otp:fails:ed@example.com"))

	n, err := s.RecordFailure(ctx, "ed@example.com", 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Delete(ctx, "ed@example.com"))
	assert.False(t, mr.Exists("otp:fails:ed@example.com"))
	assert.False(t, mr.Exists("otp:ed@example.com"))
}

func TestNewClient_EmptyAddress(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrEmptyAddress)
}

func TestNewClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), Config{Address: mr.Addr()})
	require.NoError(t, err)
	_ = client.Close()
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfigFromEnv()
	assert.Equal(t, Config{Address: "redis:6380", Password: "pw", DB: 2}, cfg)
}

func TestStore_Ping(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))

	mr.Close()
	assert.Error(t, s.Ping(context.Background()))
}
