package infrastructure

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/ratelimit"
	"user-crud-service/internal/config"
)

// NewRateLimiter builds the configured limiter backend. It returns nil when rate limiting is off.
func NewRateLimiter(cfg *config.Config, rdb redis.UniversalClient, l *zap.Logger) (ratelimit.Limiter, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	limits := ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
	}

	l.Info("rate limiter enabled",
		zap.String("backend", cfg.RateLimit.Backend),
		zap.Float64("requests_per_second", limits.RequestsPerSecond),
		zap.Int("burst_capacity", limits.BurstCapacity),
	)

	switch cfg.RateLimit.Backend {
	case config.RateLimitBackendLocal:
		return ratelimit.NewLocalLimiter(limits), nil
	case config.RateLimitBackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis rate limiter requires a Redis client")
		}
		return ratelimit.NewRedisLimiter(rdb, limits), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit backend %q", cfg.RateLimit.Backend)
	}
}
