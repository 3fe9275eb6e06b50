package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/internal/adapter/gin/validation"
	"user-crud-service/internal/adapter/ratelimit"
	"user-crud-service/pkg/logger"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker func(ctx context.Context) error

// Options carries the optional pieces of the router
type Options struct {
	ServiceName string
	Health      HealthChecker
	Metrics     *middleware.Metrics // nil disables /metrics
	Limiter     ratelimit.Limiter   // nil disables rate limiting
}

const healthTimeout = 2 * time.Second

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, opts Options, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.RequestID())
	router.Use(logger.AccessLog(log))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware())
	}
	router.Use(middleware.Recovery(log))
	router.Use(middleware.ErrorHandler(log))

	router.NoRoute(middleware.NoRoute())

	router.GET("/health", health(opts))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	users := router.Group("/user")
	if opts.Limiter != nil {
		users.Use(middleware.RateLimiter(opts.Limiter, log))
	}
	{
		users.GET("", userHandler.GetAll)
		users.GET("/:id", userHandler.GetByID)
		users.POST("", validation.Body(validation.CreateUser), userHandler.Create)
		users.PUT("/:id", validation.Body(validation.UpdateUser), userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	return router
}

func health(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()

			if err := opts.Health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": opts.ServiceName,
					"error":   err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	}
}
