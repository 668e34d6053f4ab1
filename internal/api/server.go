package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"shelfwise/internal/catalog"
	"shelfwise/internal/config"
	"shelfwise/internal/game"
	"shelfwise/internal/inventory"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// GameIDHeader pins a mutating request to a specific game. Requests naming a
// game that has since been replaced are rejected with 409.
const GameIDHeader = "X-Game-ID"

type Server struct {
	cfg     config.APIConfig
	log     *slog.Logger
	game    *game.Service
	mux     *chi.Mux
	limiter *rateLimiter

	mu           sync.Mutex
	lastProducts []inventory.Item
}

func New(cfg config.APIConfig, logger *slog.Logger, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	s := &Server{
		cfg:     cfg,
		log:     logger,
		game:    gameSvc,
		mux:     chi.NewRouter(),
		limiter: newRateLimiter(limit, burst),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := s.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", GameIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(observeLatency)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "game_active": s.game.CurrentGameID() != ""})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/recommend", s.handleRecommend)
		r.Post("/simulate", s.handleSimulate)

		r.Get("/game", s.handleState)
		r.Get("/game/report", s.handleReport)
		r.Post("/game/preview", s.handlePreview)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.middleware)
			r.Post("/game", s.handleNewGame)
			r.Post("/game/next-day", s.handleNextDay)
			r.Post("/game/restock", s.handleRestock)
			r.Post("/game/unlock", s.handleUnlock)
		})
	})
}

// handleCatalog also lists, cheapest first, the store items a given
// ?budget= could unlock.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.game.Catalog()
	out := map[string]any{
		"products":    cat.Products,
		"store_items": catalog.ByCategory(cat.StoreItems),
		"categories":  catalog.Categories(cat.StoreItems),
		"events":      cat.EventDescriptions(),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("budget")); raw != "" {
		budget, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "budget must be a number")
			return
		}
		affordable := catalog.Affordable(catalog.CheapestFirst(cat.StoreItems), budget)
		if affordable == nil {
			affordable = []catalog.StoreItem{}
		}
		out["affordable"] = affordable
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var in recommendRequest
	if err := decodeValid(r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	products := items(in.Products)

	s.mu.Lock()
	s.lastProducts = append([]inventory.Item(nil), products...)
	s.mu.Unlock()

	recs := inventory.Optimize(products)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":           len(recs),
		"recommendations": recs,
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var in simulateRequest
	if err := decodeValid(r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var base []inventory.Item
	if in.Products != nil {
		base = items(*in.Products)
		if len(base) == 0 {
			writeError(w, http.StatusBadRequest, "products must not be empty")
			return
		}
	} else {
		s.mu.Lock()
		base = append([]inventory.Item(nil), s.lastProducts...)
		s.mu.Unlock()
	}
	if len(base) == 0 {
		writeError(w, http.StatusBadRequest, "no products provided and no previous /v1/recommend call to reuse")
		return
	}

	scenarios := make([]inventory.Scenario, 0, len(in.Scenarios))
	for _, sc := range in.Scenarios {
		scenarios = append(scenarios, sc.scenario())
	}
	results := inventory.SimulateScenarios(base, scenarios)
	writeJSON(w, http.StatusOK, map[string]any{
		"scenario_count": len(results),
		"scenarios":      results,
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, _ *http.Request) {
	view := s.game.NewGame()
	writeJSON(w, http.StatusCreated, map[string]any{
		"game_id": view.GameID,
		"message": "New game started",
		"state":   view,
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	view, err := s.game.Snapshot()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": view})
}

func (s *Server) handleNextDay(w http.ResponseWriter, r *http.Request) {
	report, view, err := s.game.Advance(r.Context(), gameID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day_summary": report,
		"state":       view,
	})
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	var in restockRequest
	if err := decodeValid(r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, view, err := s.game.Restock(gameID(r), in.Product, int(*in.Quantity))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"restock_result": res,
		"state":          view,
	})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	var in unlockRequest
	if err := decodeValid(r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, view, err := s.game.Unlock(gameID(r), in.ItemName)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"unlock_result": res,
		"state":         view,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, _ *http.Request) {
	report, ok, err := s.game.LastReport()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"message": "No daily reports available yet. Advance a day first."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": report})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var in previewRequest
	if err := decodeValid(r, &in, true); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pv, err := s.game.Preview(orOne(in.DemandFactor), orOne(in.StorageFactor), orOne(in.RestockFactor))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preview": pv})
}

func gameID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(GameIDHeader))
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrValidation), errors.Is(err, game.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNoGame), errors.Is(err, game.ErrAlreadyUnlocked), errors.Is(err, game.ErrStaleGame):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
