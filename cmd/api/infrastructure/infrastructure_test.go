package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-crud-service/internal/adapter/ratelimit"
	"user-crud-service/internal/config"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.Config{
		DB: config.DatabaseConfig{
			Driver:       config.DriverSQLite,
			SQLitePath:   filepath.Join(t.TempDir(), "users.db"),
			MaxOpenConns: 10,
			AutoMigrate:  true,
		},
		Logger: config.LoggerConfig{Level: "warn"},
	}

	db, err := NewDatabase(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase(db) })

	assert.True(t, db.Migrator().HasTable("users"))
	require.NoError(t, PingDatabase(db)(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.Config{DB: config.DatabaseConfig{Driver: "oracle"}}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestCloseDatabase_Nil(t *testing.T) {
	assert.NoError(t, CloseDatabase(nil))
}

func TestNewRateLimiter(t *testing.T) {
	log := zaptest.NewLogger(t)

	t.Run("disabled", func(t *testing.T) {
		l, err := NewRateLimiter(&config.Config{}, nil, log)
		require.NoError(t, err)
		assert.Nil(t, l)
	})

	t.Run("local", func(t *testing.T) {
		cfg := &config.Config{RateLimit: config.RateLimitConfig{
			Enabled: true, Backend: config.RateLimitBackendLocal, RequestsPerSecond: 1, BurstCapacity: 1,
		}}
		l, err := NewRateLimiter(cfg, nil, log)
		require.NoError(t, err)
		assert.IsType(t, &ratelimit.LocalLimiter{}, l)
	})

	t.Run("redis without client", func(t *testing.T) {
		cfg := &config.Config{RateLimit: config.RateLimitConfig{
			Enabled: true, Backend: config.RateLimitBackendRedis, RequestsPerSecond: 1, BurstCapacity: 1,
		}}
		_, err := NewRateLimiter(cfg, nil, log)
		require.Error(t, err)
	})
}
