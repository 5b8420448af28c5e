package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	vars := map[string]string{
		"GATEWAY_PRIMARY__ENV":                  "test",
		"GATEWAY_SERVER__PORT":                  "8080",
		"GATEWAY_SERVER__BASE_URL":              "https://gateway.example",
		"GATEWAY_SERVER__READ_TIMEOUT":          "5s",
		"GATEWAY_SERVER__WRITE_TIMEOUT":         "10s",
		"GATEWAY_SERVER__IDLE_TIMEOUT":          "60s",
		"GATEWAY_DATABASE__HOST":                "localhost",
		"GATEWAY_DATABASE__PORT":                "5432",
		"GATEWAY_DATABASE__USER":                "gateway",
		"GATEWAY_DATABASE__PASSWORD":            "secret",
		"GATEWAY_DATABASE__NAME":                "gateway",
		"GATEWAY_DATABASE__SSL_MODE":            "disable",
		"GATEWAY_DATABASE__MAX_OPEN_CONNS":      "10",
		"GATEWAY_DATABASE__MAX_IDLE_CONNS":      "5",
		"GATEWAY_DATABASE__CONN_MAX_LIFETIME":   "30m",
		"GATEWAY_DATABASE__CONN_MAX_IDLE_TIME":  "5m",
		"GATEWAY_PAYREXX__INSTANCE":             "demo-shop",
		"GATEWAY_PAYREXX__API_KEY":              "test-key",
		"GATEWAY_PAYREXX__CONN_TIMEOUT":         "10s",
		"GATEWAY_SWEEPER__INTERVAL":             "30s",
		"GATEWAY_SWEEPER__STALE_AGE":            "30m",
		"GATEWAY_SWEEPER__BATCH_SIZE":           "100",
	}
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

func TestLoadConfig(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "demo-shop", cfg.Payrexx.Instance)
	assert.Equal(t, "", cfg.Payrexx.Platform, "platform is optional")
	assert.Equal(t, 30*time.Second, cfg.Sweeper.Interval)
	assert.Equal(t, 30*time.Minute, cfg.Sweeper.StaleAge)
	assert.Equal(t, 100, cfg.Sweeper.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GATEWAY_PAYREXX__API_KEY", "")

	_, err := LoadConfig()

	require.Error(t, err)
}

func TestDatabaseConfig_PgxConfig(t *testing.T) {
	cfg := DatabaseConfig{
		Host:            "localhost",
		Port:            5432,
		User:            "gateway",
		Password:        "secret",
		Name:            "gateway",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	pgxCfg, err := cfg.PgxConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(10), pgxCfg.MaxConns)
	assert.Equal(t, defaultHealthCheckPeriod, pgxCfg.HealthCheckPeriod)

	cfg.HealthCheckPeriod = 10 * time.Second
	pgxCfg, err = cfg.PgxConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, pgxCfg.HealthCheckPeriod)
}

func TestLoggerConfig_NewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", ""} {
		logger := LoggerConfig{Level: level}.NewLogger()
		require.NotNil(t, logger)
	}
}
