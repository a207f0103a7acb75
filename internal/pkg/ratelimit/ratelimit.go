// Package ratelimit provides a Redis fixed-window counter for throttling
// per-subject actions such as OTP resends.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrLimited is returned by Allow when the subject exhausted the window.
var ErrLimited = errors.New("ratelimit: limit exceeded")

// Limiter decides whether a keyed action may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) error
}

// FixedWindow counts hits per key in Redis. The first hit in a window sets the
// key TTL; the counter resets when the key expires.
type FixedWindow struct {
	client redis.UniversalClient
	prefix string
}

// NewFixedWindow returns a FixedWindow. Keys are stored under prefix
// (default "rl:").
func NewFixedWindow(client redis.UniversalClient, prefix string) *FixedWindow {
	if prefix == "" {
		prefix = "rl:"
	}

	return &FixedWindow{client: client, prefix: prefix}
}

// Allow records a hit and returns ErrLimited once more than limit hits landed
// in the current window. A non-positive limit disables the check.
func (f *FixedWindow) Allow(ctx context.Context, key string, limit int, window time.Duration) error {
	if limit <= 0 {
		return nil
	}

	k := f.prefix + key

	count, err := f.client.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("ratelimit: incr: %w", err)
	}

	if count == 1 {
		if err := f.client.Expire(ctx, k, window).Err(); err != nil {
			return fmt.Errorf("ratelimit: expire: %w", err)
		}
	}

	if count > int64(limit) {
		return ErrLimited
	}

	return nil
}

// Reset clears the counter for key.
func (f *FixedWindow) Reset(ctx context.Context, key string) error {
	return f.client.Del(ctx, f.prefix+key).Err()
}
