package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:"

// RateLimiter counts requests per caller in fixed windows backed by
// Redis. The counter key is stamped with the window start, so a counter
// never leaks into the next window regardless of when it was created.
type RateLimiter struct {
	client *Client
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute plus
// a burst allowance per one-minute window.
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
		window: time.Minute,
	}
}

// windowKey buckets key into the fixed window containing now and
// returns the Redis key for that bucket plus the window's end.
func windowKey(key string, now time.Time, window time.Duration) (string, time.Time) {
	start := now.Truncate(window)
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, key, start.Unix()), start.Add(window)
}

// Allow records one request for key and reports whether it is within
// the window's limit. Returns (allowed, remaining, resetTime, error).
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, int, time.Time, error) {
	fullKey, windowEnd := windowKey(key, time.Now(), r.window)

	pipe := r.client.rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, r.window)

	_, err := pipe.Exec(ctx)
	if err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incrCmd.Val()
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= r.limit, int(remaining), windowEnd, nil
}
