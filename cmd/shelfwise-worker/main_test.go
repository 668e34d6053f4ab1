package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"shelfwise/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOncePlaysAndReturns(t *testing.T) {
	cfg := config.WorkerConfig{
		Seed:         7,
		Every:        time.Second,
		Days:         5,
		RunOnce:      true,
		RestockBelow: 10,
		Unlock:       true,
	}
	assert.NoError(t, run(cfg, quietLogger()))
}

func TestRunReturnsStartupErrors(t *testing.T) {
	cfg := config.WorkerConfig{
		CatalogFile: filepath.Join(t.TempDir(), "missing.yaml"),
		Every:       time.Second,
		Days:        1,
		RunOnce:     true,
	}
	err := run(cfg, quietLogger())
	assert.ErrorContains(t, err, "read catalog")
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	h := metricsHandler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shelf_days_simulated_total")
}
