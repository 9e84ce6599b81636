package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, RecalcInline, cfg.RecalcMode)
	assert.Equal(t, 3, cfg.RecalcMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RecalcRetryBackoff)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.SeedDemoData)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.AnubisCircuit.Enabled)
	assert.Equal(t, 5, cfg.QStashCircuit.FailureThreshold)
	assert.Equal(t, logging.LevelInfo, cfg.LogLevel)
}

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdDoesNotSeedByDefault(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SeedDemoData)
}

func TestLoad_StorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Setenv("STORAGE_DRIVER", "Postgres")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)

	t.Setenv("STORAGE_DRIVER", "sqlite")
	_, err = Load()
	assert.ErrorContains(t, err, "STORAGE_DRIVER")
}

func TestLoad_RecalculationSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("async", func(t *testing.T) {
		t.Setenv("RECALC_MODE", "async")
		t.Setenv("RECALC_WORKERS", "8")
		t.Setenv("RECALC_RETRY_BACKOFF", "2s")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, RecalcAsync, cfg.RecalcMode)
		assert.Equal(t, 8, cfg.RecalcWorkers)
		assert.Equal(t, 2*time.Second, cfg.RecalcRetryBackoff)
	})

	t.Run("bounds", func(t *testing.T) {
		t.Setenv("RECALC_MAX_ATTEMPTS", "0")
		_, err := Load()
		assert.ErrorContains(t, err, "RECALC_MAX_ATTEMPTS")
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Setenv("RECALC_MODE", "cron")
		_, err := Load()
		assert.ErrorContains(t, err, "RECALC_MODE")
	})

	t.Run("qstash requires token target and job token", func(t *testing.T) {
		t.Setenv("RECALC_MODE", "qstash")
		t.Setenv("QSTASH_TOKEN", "qstash-token")
		t.Setenv("QSTASH_TARGET_BASE_URL", "")
		_, err := Load()
		assert.ErrorContains(t, err, "QSTASH_TARGET_BASE_URL")

		t.Setenv("QSTASH_TARGET_BASE_URL", "https://scores.example.com")
		_, err = Load()
		assert.ErrorContains(t, err, "INTERNAL_JOB_TOKEN")

		t.Setenv("INTERNAL_JOB_TOKEN", "job-token")
		t.Setenv("QSTASH_RETRIES", "1")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.QStashRetries)
		assert.Equal(t, "job-token", cfg.InternalJobToken)
	})
}

func TestLoad_InvalidValuesNameTheKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Setenv("CACHE_TTL", "bad")
	_, err := Load()
	assert.ErrorContains(t, err, "CACHE_TTL")

	t.Setenv("CACHE_TTL", "")
	t.Setenv("ANUBIS_CIRCUIT_FAILURE_COUNT", "0")
	_, err = Load()
	assert.ErrorContains(t, err, "ANUBIS_CIRCUIT_FAILURE_COUNT")

	t.Setenv("ANUBIS_CIRCUIT_FAILURE_COUNT", "")
	t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DISABLE_PREPARED_BINARY_RESULT")
}

func TestLoad_ObservabilityRequirements(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("uptrace dsn from otlp headers", func(t *testing.T) {
		t.Setenv("UPTRACE_ENABLED", "true")
		t.Setenv("UPTRACE_DSN", "")
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/1"`)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://token@api.uptrace.dev/1", cfg.UptraceDSN)
	})

	t.Run("betterstack endpoint", func(t *testing.T) {
		t.Setenv("BETTERSTACK_ENABLED", "true")
		t.Setenv("BETTERSTACK_ENDPOINT", "")
		_, err := Load()
		assert.Error(t, err)

		t.Setenv("BETTERSTACK_ENDPOINT", "in.logs.betterstack.com")
		t.Setenv("BETTERSTACK_MIN_LEVEL", "warn")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, logging.LevelWarn, cfg.BetterStackMinLevel)
	})

	t.Run("pyroscope app name defaults to service name", func(t *testing.T) {
		t.Setenv("APP_SERVICE_NAME", "scores-test")
		t.Setenv("PYROSCOPE_ENABLED", "true")
		t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "scores-test", cfg.PyroscopeAppName)
	})
}

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"https://a.example.com", "http://localhost:5173"}, splitCSV(" https://a.example.com, ,http://localhost:5173 "))
	assert.Empty(t, splitCSV(" , "))
}
