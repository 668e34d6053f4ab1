package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shelfwise/internal/catalog"
	"shelfwise/internal/game"
	"shelfwise/internal/inventory"
)

const gameIDHeader = "X-Game-ID"

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type NewGameResponse struct {
	GameID  string         `json:"game_id"`
	Message string         `json:"message"`
	State   game.StateView `json:"state"`
}

type StateResponse struct {
	State game.StateView `json:"state"`
}

type NextDayResponse struct {
	DaySummary game.DayReport `json:"day_summary"`
	State      game.StateView `json:"state"`
}

type RestockResponse struct {
	RestockResult game.RestockResult `json:"restock_result"`
	State         game.StateView     `json:"state"`
}

type UnlockResponse struct {
	UnlockResult game.UnlockResult `json:"unlock_result"`
	State        game.StateView    `json:"state"`
}

type ReportResponse struct {
	Report  *game.DayReport `json:"report"`
	Message string          `json:"message"`
}

type PreviewResponse struct {
	Preview game.Preview `json:"preview"`
}

type CatalogResponse struct {
	Products   []catalog.Product              `json:"products"`
	StoreItems map[string][]catalog.StoreItem `json:"store_items"`
	Categories []string                       `json:"categories"`
	Events     map[string]string              `json:"events"`
}

type RecommendResponse struct {
	Count           int                        `json:"count"`
	Recommendations []inventory.Recommendation `json:"recommendations"`
}

type SimulateResponse struct {
	ScenarioCount int                        `json:"scenario_count"`
	Scenarios     []inventory.ScenarioResult `json:"scenarios"`
}

func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/healthz", "", nil, &out)
	return out, err
}

func (c *Client) Catalog(ctx context.Context) (CatalogResponse, error) {
	var out CatalogResponse
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/catalog", "", nil, &out)
	return out, err
}

// Recommend posts a raw {"products": [...]} document.
func (c *Client) Recommend(ctx context.Context, body json.RawMessage) (RecommendResponse, error) {
	var out RecommendResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/recommend", "", body, &out)
	return out, err
}

// Simulate posts a raw {"products"?: [...], "scenarios": [...]} document.
func (c *Client) Simulate(ctx context.Context, body json.RawMessage) (SimulateResponse, error) {
	var out SimulateResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/simulate", "", body, &out)
	return out, err
}

func (c *Client) NewGame(ctx context.Context) (NewGameResponse, error) {
	var out NewGameResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game", "", nil, &out)
	return out, err
}

func (c *Client) State(ctx context.Context) (game.StateView, error) {
	var out StateResponse
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/game", "", nil, &out)
	return out.State, err
}

func (c *Client) NextDay(ctx context.Context, gameID string) (NextDayResponse, error) {
	var out NextDayResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game/next-day", gameID, nil, &out)
	return out, err
}

func (c *Client) Restock(ctx context.Context, gameID, product string, qty int) (RestockResponse, error) {
	var out RestockResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game/restock", gameID, map[string]any{
		"product":  product,
		"quantity": qty,
	}, &out)
	return out, err
}

func (c *Client) Unlock(ctx context.Context, gameID, item string) (UnlockResponse, error) {
	var out UnlockResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game/unlock", gameID, map[string]any{
		"item_name": item,
	}, &out)
	return out, err
}

func (c *Client) Report(ctx context.Context) (ReportResponse, error) {
	var out ReportResponse
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/game/report", "", nil, &out)
	return out, err
}

func (c *Client) Preview(ctx context.Context, demand, storage, restock float64) (game.Preview, error) {
	var out PreviewResponse
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game/preview", "", map[string]any{
		"demand_factor":  demand,
		"storage_factor": storage,
		"restock_factor": restock,
	}, &out)
	return out.Preview, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, gameID string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if gameID != "" {
		req.Header.Set(gameIDHeader, gameID)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func errorMessage(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}
