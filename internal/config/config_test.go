package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SHELF_API_ADDR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SHELF_RATE_LIMIT", "")
	t.Setenv("SHELF_CORS_ORIGINS", "")

	cfg, err := LoadAPIFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 10.0, cfg.RateLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadAPIFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SHELF_SEED", "42")
	t.Setenv("SHELF_CORS_ORIGINS", "http://localhost:3000, https://shelf.example ,")
	t.Setenv("SHELF_REQUEST_TIMEOUT", "5s")

	cfg, err := LoadAPIFromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, []string{"http://localhost:3000", "https://shelf.example"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestLoadAPIFromEnvRejectsBadRate(t *testing.T) {
	t.Setenv("SHELF_RATE_LIMIT", "-1")
	_, err := LoadAPIFromEnv()
	assert.Error(t, err)
}

func TestLoadWorkerFromEnv(t *testing.T) {
	t.Setenv("SHELF_AUTOPLAY_DAYS", "7")
	t.Setenv("SHELF_WORKER_RUN_ONCE", "true")
	t.Setenv("SHELF_AUTOPLAY_EVERY", "not-a-duration")
	t.Setenv("SHELF_AUTOPLAY_UNLOCK", "")

	cfg, err := LoadWorkerFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Days)
	assert.True(t, cfg.RunOnce)
	assert.Equal(t, 2*time.Second, cfg.Every)
	assert.True(t, cfg.Unlock)
	assert.Equal(t, ":9091", cfg.MetricsAddr)

	t.Setenv("SHELF_WORKER_METRICS_ADDR", "off")
	cfg, err = LoadWorkerFromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.MetricsAddr)

	t.Setenv("SHELF_AUTOPLAY_DAYS", "0")
	_, err = LoadWorkerFromEnv()
	assert.Error(t, err)
}

func TestLoadCLIFromEnvTrimsSlash(t *testing.T) {
	t.Setenv("SHELF_API_BASE_URL", "http://shelf.local:8080/")
	assert.Equal(t, "http://shelf.local:8080", LoadCLIFromEnv().APIBaseURL)
}
