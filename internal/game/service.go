package game

import (
	"context"
	"fmt"
	"log/slog"
	mathrand "math/rand"
	"sync"
	"time"

	"shelfwise/internal/catalog"
	"shelfwise/internal/metrics"
)

// ReportArchive stores finished day reports outside the process. It is
// write-only; games are never restored from it.
type ReportArchive interface {
	SaveReport(ctx context.Context, gameID string, report DayReport) error
}

// Service owns the single live game of the process and serializes access to it.
// Every method that takes a gameID rejects the call with ErrStaleGame when the
// id is set and does not match the live game.
type Service struct {
	cat     catalog.Catalog
	archive ReportArchive
	log     *slog.Logger
	mu      sync.Mutex
	rand    *mathrand.Rand
	state   *State
}

func NewService(cat catalog.Catalog, rng *mathrand.Rand, archive ReportArchive, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		cat:     cat,
		archive: archive,
		log:     logger,
		rand:    rng,
	}
}

func (s *Service) Catalog() catalog.Catalog {
	return s.cat
}

// NewGame replaces the live game, if any, with a fresh one.
func (s *Service) NewGame() StateView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = NewGame(s.cat, s.rand)
	metrics.GamesStarted.Inc()
	s.observe()
	s.log.Info("new game", "game_id", s.state.ID, "budget", s.state.Budget.StringFixed(2))
	return s.state.Snapshot()
}

func (s *Service) CurrentGameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return ""
	}
	return s.state.ID
}

func (s *Service) Snapshot() (StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current("")
	if err != nil {
		return StateView{}, err
	}
	return st.Snapshot(), nil
}

// LastReport reports false when the live game has not advanced yet.
func (s *Service) LastReport() (DayReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current("")
	if err != nil {
		return DayReport{}, false, err
	}
	r, ok := st.LastReport()
	return r, ok, nil
}

// Advance simulates one day. The report is archived after the lock is
// released; archive failures are logged and do not fail the day.
func (s *Service) Advance(ctx context.Context, gameID string) (DayReport, StateView, error) {
	s.mu.Lock()
	st, err := s.current(gameID)
	if err != nil {
		s.mu.Unlock()
		return DayReport{}, StateView{}, err
	}
	report := st.Advance()
	view := st.Snapshot()
	id := st.ID
	s.observe()
	s.mu.Unlock()

	recordDay(report)
	eventKind := "none"
	if report.Event != nil {
		eventKind = string(report.Event.Kind)
	}
	s.log.Info("day advanced",
		"game_id", id,
		"day", report.Day,
		"event", eventKind,
		"revenue", report.Revenue.StringFixed(2),
		"budget", report.BudgetAfter.StringFixed(2),
		"alerts", len(report.Alerts),
	)

	if s.archive != nil {
		if err := s.archive.SaveReport(ctx, id, report); err != nil {
			s.log.Error("archive day report", "game_id", id, "day", report.Day, "err", err)
		}
	}
	return report, view, nil
}

func (s *Service) Restock(gameID, product string, qty int) (RestockResult, StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current(gameID)
	if err != nil {
		return RestockResult{}, StateView{}, err
	}
	res, err := st.Restock(product, qty)
	if err != nil {
		return RestockResult{}, StateView{}, err
	}
	metrics.RestockOrders.WithLabelValues(res.Product).Inc()
	s.observe()
	s.log.Info("restock",
		"game_id", st.ID,
		"product", res.Product,
		"quantity", res.Quantity,
		"cost", res.Cost.StringFixed(2),
		"budget", res.BudgetAfter.StringFixed(2),
	)
	return res, st.Snapshot(), nil
}

func (s *Service) Unlock(gameID, item string) (UnlockResult, StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current(gameID)
	if err != nil {
		return UnlockResult{}, StateView{}, err
	}
	res, err := st.Unlock(item)
	if err != nil {
		return UnlockResult{}, StateView{}, err
	}
	metrics.Unlocks.WithLabelValues(res.Item).Inc()
	s.observe()
	s.log.Info("unlock", "game_id", st.ID, "item", res.Item, "cost", res.Cost.StringFixed(2))
	return res, st.Snapshot(), nil
}

func (s *Service) Preview(demand, storage, restock float64) (Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.current("")
	if err != nil {
		return Preview{}, err
	}
	return st.Preview(demand, storage, restock)
}

// current must be called with s.mu held.
func (s *Service) current(gameID string) (*State, error) {
	if s.state == nil {
		return nil, ErrNoGame
	}
	if gameID != "" && gameID != s.state.ID {
		return nil, fmt.Errorf("%w: %s", ErrStaleGame, gameID)
	}
	return s.state, nil
}

// observe must be called with s.mu held.
func (s *Service) observe() {
	metrics.Budget.Set(s.state.Budget.InexactFloat64())
	metrics.Day.Set(float64(s.state.Day))
}

func recordDay(r DayReport) {
	metrics.DaysSimulated.Inc()
	if r.Event != nil {
		metrics.Events.WithLabelValues(string(r.Event.Kind)).Inc()
	} else {
		metrics.Events.WithLabelValues("none").Inc()
	}
	sold := 0
	for _, line := range r.Sales {
		sold += line.Sold
	}
	metrics.UnitsSold.Add(float64(sold))
	for _, a := range r.Alerts {
		if a.Type == AlertStockout {
			metrics.Stockouts.WithLabelValues(a.Product).Inc()
		}
	}
}
