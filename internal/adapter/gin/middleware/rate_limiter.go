package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/ratelimit"
	apperrors "user-crud-service/pkg/errors"
	"user-crud-service/pkg/logger"
)

// RateLimiter returns a middleware applying a token bucket per method, route and client IP.
// Limiter errors let the request through.
func RateLimiter(limiter ratelimit.Limiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, route, c.ClientIP())

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Warn("rate limiter error, allowing request",
				zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			logger.WithContext(c.Request.Context(), log).Warn("rate limit exceeded", zap.String("key", key))
			_ = c.Error(apperrors.ErrRateLimited)
			c.Abort()
			return
		}

		c.Next()
	}
}
