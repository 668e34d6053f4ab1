package main

import (
	"context"
	"errors"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelfwise/internal/autopilot"
	"shelfwise/internal/catalog"
	"shelfwise/internal/config"
	"shelfwise/internal/db"
	"shelfwise/internal/game"
	"shelfwise/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadWorkerFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := run(cfg, logger); err != nil {
		logger.Error("worker failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.WorkerConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return err
	}

	var archive game.ReportArchive
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		reports := db.NewReportArchive(pool)
		if err := reports.EnsureSchema(ctx); err != nil {
			return err
		}
		archive = reports
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	svc := game.NewService(cat, mathrand.New(mathrand.NewSource(seed)), archive, logger)

	policy := autopilot.DefaultPolicy()
	policy.RestockBelow = cfg.RestockBelow
	policy.Unlock = cfg.Unlock
	player := autopilot.NewPlayer(svc, policy, logger)

	if cfg.RunOnce {
		gameID := svc.NewGame().GameID
		for day := 0; day < cfg.Days; day++ {
			if err := step(ctx, player, gameID, logger); err != nil {
				return err
			}
		}
		summarize(svc, logger)
		logger.Info("worker run-once completed", "days", cfg.Days)
		return nil
	}

	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, logger)
		defer shutdown()
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()

	gameID := svc.NewGame().GameID
	played := 0
	logger.Info("worker started", "every", cfg.Every.String(), "days_per_game", cfg.Days)
	for {
		select {
		case <-ctx.Done():
			summarize(svc, logger)
			logger.Info("worker shutdown")
			return nil
		case <-ticker.C:
			if err := step(ctx, player, gameID, logger); err != nil {
				continue
			}
			played++
			if played >= cfg.Days {
				summarize(svc, logger)
				gameID = svc.NewGame().GameID
				played = 0
			}
		}
	}
}

// serveMetrics exposes /metrics in the background and returns its shutdown.
func serveMetrics(addr string, logger *slog.Logger) func() {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metricsHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("worker metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func metricsHandler() http.Handler {
	metrics.Init()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func step(ctx context.Context, player *autopilot.Player, gameID string, logger *slog.Logger) error {
	report, actions, err := player.Step(ctx, gameID)
	if err != nil {
		logger.Error("autopilot step failed", "game_id", gameID, "err", err)
		return err
	}
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.String())
	}
	logger.Info("autopilot day", "game_id", gameID, "day", report.Day, "budget", report.BudgetAfter.StringFixed(2), "actions", names)
	return nil
}

func summarize(svc *game.Service, logger *slog.Logger) {
	view, err := svc.Snapshot()
	if err != nil {
		return
	}
	st := view.Statistics
	logger.Info("game summary",
		"game_id", view.GameID,
		"days", view.Day-1,
		"budget", view.Budget.StringFixed(2),
		"profit", st.Profit.StringFixed(2),
		"roi", st.ROI.StringFixed(2),
		"sales", st.TotalSales,
		"stockouts", st.TotalStockouts,
	)
}
