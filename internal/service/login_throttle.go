package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginThrottle counts failed login attempts per email+IP in Redis within a
// sliding window. When Redis is unreachable logins are allowed through; a
// cache outage must not lock everyone out.
type LoginThrottle struct {
	client *redis.Client
	max    int
	window time.Duration
	logger *zap.Logger
}

// NewLoginThrottle constructs a throttle.
func NewLoginThrottle(client *redis.Client, max int, window time.Duration, logger *zap.Logger) *LoginThrottle {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{client: client, max: max, window: window, logger: logger}
}

func (t *LoginThrottle) key(email, ip string) string {
	return fmt.Sprintf("login:attempts:%s:%s", strings.ToLower(email), ip)
}

// Blocked reports whether the caller has exhausted their attempts.
func (t *LoginThrottle) Blocked(ctx context.Context, email, ip string) bool {
	if t.client == nil {
		return false
	}
	count, err := t.client.Get(ctx, t.key(email, ip)).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle read failed", zap.Error(err))
		}
		return false
	}
	return count >= t.max
}

// RecordFailure bumps the attempt counter and refreshes the window.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email, ip string) {
	if t.client == nil {
		return
	}
	key := t.key(email, ip)
	pipe := t.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		t.logger.Warn("login throttle write failed", zap.Error(err))
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, email, ip string) {
	if t.client == nil {
		return
	}
	if err := t.client.Del(ctx, t.key(email, ip)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
