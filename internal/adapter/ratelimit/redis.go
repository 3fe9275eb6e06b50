package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// tokenBucket refills tokens by elapsed time and consumes one if available.
// State per key: {last_refill, tokens}. Returns 1 when allowed.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= requested then
	tokens = tokens - requested
	allowed = 1
end

redis.call('HSET', key, 'last_refill', now, 'tokens', tokens)
redis.call('EXPIRE', key, 60)
return allowed
`)

// RedisLimiter shares token buckets across instances through Redis.
type RedisLimiter struct {
	client redis.UniversalClient
	cfg    Config
}

// NewRedisLimiter creates a Redis-backed limiter.
func NewRedisLimiter(client redis.UniversalClient, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg}
}

// Allow consumes one token from the Redis bucket for key.
// The server clock is used so that all instances agree on elapsed time.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	serverTime, err := l.client.Time(ctx).Result()
	if err != nil {
		return false, fmt.Errorf("read redis time: %w", err)
	}
	now := float64(serverTime.UnixMicro()) / 1e6

	allowed, err := tokenBucket.Run(ctx, l.client, []string{key},
		l.cfg.RequestsPerSecond,
		l.cfg.BurstCapacity,
		now,
		1,
	).Int64()
	if err != nil {
		return false, fmt.Errorf("run token bucket script: %w", err)
	}

	return allowed == 1, nil
}
