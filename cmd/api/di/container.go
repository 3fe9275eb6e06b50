package di

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-crud-service/cmd/api/infrastructure"
	"user-crud-service/internal/adapter/cache"
	"user-crud-service/internal/adapter/db/gormrepo"
	ginhandler "user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/internal/adapter/ratelimit"
	"user-crud-service/internal/adapter/repository/cached"
	"user-crud-service/internal/config"
	"user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/audit"
	redisclient "user-crud-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil when the cache is disabled
	Audit       *audit.Logger
	UserUC      user.Usecase
	RateLimiter ratelimit.Limiter   // nil when rate limiting is disabled
	Metrics     *middleware.Metrics // nil when metrics are disabled
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}

	// Initialize database
	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	// Initialize repository
	var repo user.Repository = gormrepo.NewUserRepo(db, l)

	var universal redis.UniversalClient
	if cfg.Redis.Enabled {
		rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		c.RedisClient = rdb
		universal = rdb.Client

		userCache := cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
		repo = cached.NewUserRepository(repo, userCache, l)
	}

	c.RateLimiter, err = infrastructure.NewRateLimiter(cfg, universal, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	if cfg.Metrics.Enabled {
		c.Metrics = middleware.NewMetrics(metricsNamespace(cfg.Logger.ServiceName))
	}

	c.Audit = audit.New(audit.Config{
		Path:       cfg.Audit.Path,
		TimeLayout: cfg.Audit.TimeLayout,
		BufferSize: cfg.Audit.BufferSize,
		MaxSizeMB:  cfg.Audit.MaxSizeMB,
		MaxBackups: cfg.Audit.MaxBackups,
	}, l)

	// Initialize use case
	c.UserUC = user.New(repo, l)

	// Initialize Gin handler
	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, c.Audit, l)

	return c, nil
}

// HealthCheck pings the database and, when enabled, Redis.
func (c *Container) HealthCheck(ctx context.Context) error {
	if err := infrastructure.PingDatabase(c.DB)(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Flush pending audit entries
	if c.Audit != nil {
		if err := c.Audit.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close audit log: %w", err))
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}

// metricsNamespace turns a service name into a valid Prometheus namespace
func metricsNamespace(service string) string {
	ns := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, service)
	return strings.TrimSuffix(ns, "_service")
}
