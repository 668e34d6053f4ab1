package main

import (
	"context"
	"log/slog"
	mathrand "math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelfwise/internal/api"
	"shelfwise/internal/catalog"
	"shelfwise/internal/config"
	"shelfwise/internal/db"
	"shelfwise/internal/game"
	"shelfwise/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	metrics.Init()

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		logger.Error("load catalog", "err", err)
		os.Exit(1)
	}

	var archive game.ReportArchive
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		reports := db.NewReportArchive(pool)
		if err := reports.EnsureSchema(ctx); err != nil {
			logger.Error("ensure schema failed", "err", err)
			os.Exit(1)
		}
		archive = reports
	} else {
		logger.Info("DATABASE_URL not set, day reports are not archived")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gameSvc := game.NewService(cat, mathrand.New(mathrand.NewSource(seed)), archive, logger)

	server := api.New(cfg, logger, gameSvc)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("shelfwise api listening", "addr", cfg.Addr, "products", len(cat.Products), "store_items", len(cat.StoreItems))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
