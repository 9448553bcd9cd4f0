package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces limiter keys in Redis.
const KeyPrefix = "rate_limit:"

// slidingWindowScript purges members older than the window, counts the rest
// and records the request only when it is admitted.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count >= limit then
		return {0, 0}
	end

	local seq = redis.call('INCR', counter_key)
	redis.call('ZADD', key, now, now .. ':' .. seq)
	redis.call('PEXPIRE', key, window_ms)
	redis.call('PEXPIRE', counter_key, window_ms)
	return {1, limit - count - 1}
`)

// SlidingWindowLimiter keeps one sorted set of request timestamps per key.
type SlidingWindowLimiter struct {
	client redis.Scripter
	now    func() time.Time
}

func NewSlidingWindowLimiter(client redis.Scripter) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		client: client,
		now:    time.Now,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 || window <= 0 {
		return Result{}, ErrInvalidPolicy
	}

	now := l.now().UTC()
	redisKey := KeyPrefix + key

	reply, err := slidingWindowScript.Run(ctx, l.client, []string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		now.Add(-window).UnixMilli(),
		limit,
		window.Milliseconds(),
	).Slice()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRunningScript, err)
	}

	if len(reply) < 2 {
		return Result{}, fmt.Errorf("%w: length %d", ErrUnexpectedResponse, len(reply))
	}
	allowed, ok := reply[0].(int64)
	if !ok {
		return Result{}, fmt.Errorf("%w: allowed is %T", ErrUnexpectedResponse, reply[0])
	}
	remaining, ok := reply[1].(int64)
	if !ok {
		return Result{}, fmt.Errorf("%w: remaining is %T", ErrUnexpectedResponse, reply[1])
	}

	if allowed != 1 {
		return denied(limit, window), nil
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: int(remaining),
	}, nil
}
