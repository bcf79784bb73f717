package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const limiterPrefix = "login_attempts:"

// AttemptLimiter is a fixed-window counter backed by Redis.
// Key format: login_attempts:<key>
type AttemptLimiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

// NewAttemptLimiter allows at most max attempts per key within window.
func NewAttemptLimiter(client *redis.Client, max int, window time.Duration) *AttemptLimiter {
	return &AttemptLimiter{client: client, max: max, window: window}
}

// Allow increments the counter for key, starting the window on the first hit,
// and reports whether the count is still within the limit.
func (l *AttemptLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := limiterPrefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("attempt limiter: %w", err)
	}

	return incr.Val() <= int64(l.max), nil
}
