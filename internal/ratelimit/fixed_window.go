package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count       int
	windowStart time.Time
	window      time.Duration
}

// FixedWindowLimiter counts requests in process, one window per key. State
// is not shared between instances.
type FixedWindowLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewFixedWindowLimiter() *FixedWindowLimiter {
	return &FixedWindowLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *FixedWindowLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{}, ErrInvalidPolicy
	}

	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) > window {
		b = &bucket{windowStart: now, window: window}
		l.buckets[key] = b
	}

	if b.count >= limit {
		return denied(limit, window), nil
	}

	b.count++
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - b.count,
	}, nil
}

// Sweep drops the buckets whose window has passed and returns how many were
// removed.
func (l *FixedWindowLimiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.windowStart) > b.window {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *FixedWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
