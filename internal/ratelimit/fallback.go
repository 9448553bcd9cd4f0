package ratelimit

import (
	"context"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
)

// FallbackLimiter asks the primary limiter first and switches to the
// secondary one for the current request when the primary fails or does not
// answer within timeout. Allow never returns an error.
type FallbackLimiter struct {
	primary   Limiter
	secondary *FixedWindowLimiter
	timeout   time.Duration
	logger    *logger.Logger
}

func NewFallbackLimiter(primary Limiter, secondary *FixedWindowLimiter, timeout time.Duration, logger *logger.Logger) *FallbackLimiter {
	return &FallbackLimiter{
		primary:   primary,
		secondary: secondary,
		timeout:   timeout,
		logger:    logger,
	}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	result, err := l.allowPrimary(ctx, key, limit, window)
	if err == nil {
		return result, nil
	}

	logger.FromContext(ctx).Warn().Err(err).
		Str("func", "*FallbackLimiter.Allow").
		Str("key", key).
		Msg("primary rate limiter failed, using in-process fallback")

	result, err = l.secondary.Allow(ctx, key, limit, window)
	if err != nil {
		// only an invalid policy gets here; let the request through
		return Result{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	return result, nil
}

func (l *FallbackLimiter) allowPrimary(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if l.primary == nil {
		return Result{}, ErrNoPrimary
	}
	if l.timeout <= 0 {
		return l.primary.Allow(ctx, key, limit, window)
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.primary.Allow(ctx, key, limit, window)
}

// Sweep removes expired in-process buckets.
func (l *FallbackLimiter) Sweep(now time.Time) int {
	return l.secondary.Sweep(now)
}
