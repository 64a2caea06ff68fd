// Package ratelimit provides a token bucket per key, e.g. per client IP or
// per email address, on top of golang.org/x/time/rate.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed holds one token bucket per key. Buckets idle long enough to have
// refilled are dropped during Allow, which bounds memory to active keys.
type Keyed struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idleTTL time.Duration
	buckets map[string]*bucket
	sweepAt time.Time
	now     func() time.Time
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewKeyed allows one event per every with the given burst, per key.
// A non-positive every disables limiting.
func NewKeyed(every time.Duration, burst int) *Keyed {
	if burst < 1 {
		burst = 1
	}
	lim := rate.Inf
	if every > 0 {
		lim = rate.Every(every)
	}
	// a bucket that has been idle this long is full again anyway
	idle := time.Duration(burst) * every
	if idle < time.Minute {
		idle = time.Minute
	}
	return &Keyed{
		limit:   lim,
		burst:   burst,
		idleTTL: idle,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// PerMinute is NewKeyed expressed as n events per minute with burst n.
func PerMinute(n int) *Keyed {
	if n <= 0 {
		return NewKeyed(0, 1)
	}
	return NewKeyed(time.Minute/time.Duration(n), n)
}

// Allow reports whether key may proceed now and consumes a token if so.
func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.After(k.sweepAt) {
		for key, b := range k.buckets {
			if now.Sub(b.lastSeen) > k.idleTTL {
				delete(k.buckets, key)
			}
		}
		k.sweepAt = now.Add(k.idleTTL)
	}

	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(k.limit, k.burst)}
		k.buckets[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}
