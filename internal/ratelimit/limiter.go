// Package ratelimit implements a Redis sliding-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Result represents rate limit check result.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime int64
}

// Limiter counts requests per key inside a sliding window.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewLimiter builds a limiter allowing limit requests per window.
func NewLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window, prefix: prefix, now: time.Now}
}

// Atomically drop entries older than the window, then admit the request if
// the remaining count is under the limit.
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl_ms = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local current = redis.call('ZCARD', key)
if current >= limit then
	redis.call('PEXPIRE', key, ttl_ms)
	return {0, current}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, ttl_ms)
return {1, current + 1}
`)

// Allow records a request for key and reports whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()
	resetTime := now.Add(l.window).Unix()
	if l.limit <= 0 {
		return &Result{Allowed: true, Limit: l.limit, ResetTime: resetTime}, nil
	}

	windowStart := now.Add(-l.window)
	raw, err := slidingWindow.Run(ctx, l.client,
		[]string{fmt.Sprintf("%s:%s", l.prefix, key)},
		windowStart.UnixMilli(),
		now.UnixMilli(),
		l.limit,
		l.window.Milliseconds(),
		uuid.NewString(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("redis eval failed: %w", err)
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return nil, fmt.Errorf("unexpected redis response %v", raw)
	}
	allowed, _ := values[0].(int64)
	count, _ := values[1].(int64)

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return &Result{
		Allowed:   allowed == 1,
		Limit:     l.limit,
		Remaining: remaining,
		ResetTime: resetTime,
	}, nil
}
