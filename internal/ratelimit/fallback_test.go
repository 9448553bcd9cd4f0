package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	calls  int
	result Result
	err    error
	delay  time.Duration
}

func (s *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
	return s.result, s.err
}

func TestFallbackLimiter_UsesPrimary(t *testing.T) {
	primary := &stubLimiter{result: Result{Allowed: false, Limit: 10, RetryAfter: time.Minute}}
	secondary, _ := newTestFixedWindow()
	l := NewFallbackLimiter(primary, secondary, 200*time.Millisecond, logger.Nop())

	res, err := l.Allow(context.Background(), "auth:ip", 10, time.Minute)

	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.Len())
}

func TestFallbackLimiter_FallsBackOnError(t *testing.T) {
	primary := &stubLimiter{err: errors.New("connection refused")}
	secondary, _ := newTestFixedWindow()
	l := NewFallbackLimiter(primary, secondary, 200*time.Millisecond, logger.Nop())
	ctx := context.Background()

	res, err := l.Allow(ctx, "auth:ip", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, _ = l.Allow(ctx, "auth:ip", 2, time.Minute)
	assert.True(t, res.Allowed)

	res, _ = l.Allow(ctx, "auth:ip", 2, time.Minute)
	assert.False(t, res.Allowed)
	assert.Equal(t, time.Minute, res.RetryAfter)

	assert.Equal(t, 3, primary.calls)
	assert.Equal(t, 1, secondary.Len())
}

func TestFallbackLimiter_FallsBackOnTimeout(t *testing.T) {
	primary := &stubLimiter{delay: time.Second, result: Result{Allowed: false}}
	secondary, _ := newTestFixedWindow()
	l := NewFallbackLimiter(primary, secondary, 20*time.Millisecond, logger.Nop())

	start := time.Now()
	res, err := l.Allow(context.Background(), "general:ip", 5, time.Minute)

	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestFallbackLimiter_WithoutPrimary(t *testing.T) {
	secondary, _ := newTestFixedWindow()
	l := NewFallbackLimiter(nil, secondary, 0, logger.Nop())

	res, err := l.Allow(context.Background(), "general:ip", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, _ = l.Allow(context.Background(), "general:ip", 1, time.Minute)
	assert.False(t, res.Allowed)
}

func TestFallbackLimiter_InvalidPolicyLetsRequestThrough(t *testing.T) {
	secondary, _ := newTestFixedWindow()
	l := NewFallbackLimiter(&stubLimiter{err: ErrInvalidPolicy}, secondary, 0, logger.Nop())

	res, err := l.Allow(context.Background(), "k", 0, time.Minute)

	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
