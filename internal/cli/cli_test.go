package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shelfwise/internal/api"
	"shelfwise/internal/catalog"
	"shelfwise/internal/config"
	"shelfwise/internal/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := game.NewService(catalog.MustDefault(), mathrand.New(mathrand.NewSource(9)), nil, logger)
	srv := httptest.NewServer(api.New(config.APIConfig{}, logger, svc).Handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestClientGameRoundTrip(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	_, err := c.State(ctx)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))

	started, err := c.NewGame(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, started.GameID)
	assert.Equal(t, 1, started.State.Day)
	assert.True(t, started.State.Budget.Equal(started.State.InitialBudget))

	day, err := c.NextDay(ctx, started.GameID)
	require.NoError(t, err)
	assert.Equal(t, 1, day.DaySummary.Day)
	assert.Len(t, day.DaySummary.Sales, 3)
	assert.Equal(t, 2, day.State.Day)

	restock, err := c.Restock(ctx, started.GameID, "Desk Lamp", 12)
	require.NoError(t, err)
	assert.Equal(t, 12, restock.RestockResult.Quantity)

	report, err := c.Report(ctx)
	require.NoError(t, err)
	require.NotNil(t, report.Report)
	assert.Equal(t, 1, report.Report.Day)

	pv, err := c.Preview(ctx, 1.5, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.5, pv.DemandFactor)

	_, err = c.Unlock(ctx, "00000000-0000-0000-0000-000000000000", "Pen Pack")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Contains(t, err.Error(), "replaced")
}

func TestClientRecommendAndSimulate(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	recs, err := c.Recommend(ctx, json.RawMessage(`{"products":[{"name":"Widget A","stock":50,"demand":1000,"cost_storage":2.5,"cost_restock":100}]}`))
	require.NoError(t, err)
	require.Equal(t, 1, recs.Count)
	assert.Equal(t, 282.84, recs.Recommendations[0].EOQ)

	sims, err := c.Simulate(ctx, json.RawMessage(`{"scenarios":[{"name":"double","modifications":{"demand_multiplier":2}}]}`))
	require.NoError(t, err)
	require.Equal(t, 1, sims.ScenarioCount)
	assert.Equal(t, 400.0, sims.Scenarios[0].Recommendations[0].EOQ)

	cat, err := c.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, cat.Products, 3)
	assert.Equal(t, []string{"Electronics", "Food & Beverage", "Office Supplies", "Premium"}, cat.Categories)
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	prev := sessionDir
	sessionDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { sessionDir = prev })

	_, err := LoadSession()
	assert.ErrorIs(t, err, ErrNoSession)

	want := Session{GameID: "7d3f", APIBaseURL: "http://localhost:8080", StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	require.NoError(t, SaveSession(want))
	got, err := LoadSession()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, ClearSession())
	_, err = LoadSession()
	assert.ErrorIs(t, err, ErrNoSession)
	require.NoError(t, ClearSession())
}
