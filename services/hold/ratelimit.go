package hold

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter throttles hold creation per identity key. Check is called
// before the attempt; Increment records a successful creation.
type RateLimiter interface {
	Check(ctx context.Context, identityKey string) (bool, error)
	Increment(ctx context.Context, identityKey string) error
}

// RedisRateLimiter is a fixed-window counter: one Redis key per identity and
// window, expired by Redis itself.
type RedisRateLimiter struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
}

func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{Client: client, Limit: limit, Window: window}
}

func (r *RedisRateLimiter) key(identityKey string) string {
	windowStart := time.Now().Unix() / int64(r.Window.Seconds()) * int64(r.Window.Seconds())
	return fmt.Sprintf("holdrate:%s:%d", identityKey, windowStart)
}

func (r *RedisRateLimiter) Check(ctx context.Context, identityKey string) (bool, error) {
	count, err := r.Client.Get(ctx, r.key(identityKey)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read rate limit counter: %w", err)
	}
	return count < r.Limit, nil
}

func (r *RedisRateLimiter) Increment(ctx context.Context, identityKey string) error {
	key := r.key(identityKey)
	count, err := r.Client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		r.Client.Expire(ctx, key, r.Window)
	}
	return nil
}
