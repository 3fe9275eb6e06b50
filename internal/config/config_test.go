package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 10, cfg.App.ShutdownTimeoutSeconds)
	assert.Equal(t, "logs.txt", cfg.Audit.Path)
	assert.Equal(t, "02/01/2006 15:04:05", cfg.Audit.TimeLayout)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.DB.AutoMigrate)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DRIVER=sqlite\nDB_SQLITE_PATH=/tmp/users.db\nHTTP_PORT=9090\nAUDIT_LOG_PATH=/tmp/audit.txt\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/users.db", cfg.DB.SQLitePath)
	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, "/tmp/audit.txt", cfg.Audit.Path)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("HTTP_PORT=9090\n"), 0o600))
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.HTTPPort)
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name     string
		mutate   func(c *Config)
		errorMsg string
	}{
		{
			name:     "unsupported driver",
			mutate:   func(c *Config) { c.DB.Driver = "mysql" },
			errorMsg: `unsupported DB_DRIVER "mysql"`,
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.DB.Driver = DriverSQLite
				c.DB.SQLitePath = ""
			},
			errorMsg: "DB_SQLITE_PATH is required",
		},
		{
			name:     "empty audit path",
			mutate:   func(c *Config) { c.Audit.Path = "" },
			errorMsg: "AUDIT_LOG_PATH is required",
		},
		{
			name: "redis rate limiter without redis",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Backend = RateLimitBackendRedis
			},
			errorMsg: "requires REDIS_ENABLED=true",
		},
		{
			name: "unknown rate limit backend",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.Backend = "memcached"
			},
			errorMsg: `unsupported RATE_LIMIT_BACKEND "memcached"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "users", Port: "5432", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=users port=5432 sslmode=disable", db.DSN())
}
