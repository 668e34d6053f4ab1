package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type APIConfig struct {
	Addr           string
	DatabaseURL    string
	CatalogFile    string
	Seed           int64
	RateLimit      float64
	RateBurst      int
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type WorkerConfig struct {
	DatabaseURL  string
	CatalogFile  string
	Seed         int64
	Every        time.Duration
	Days         int
	RunOnce      bool
	RestockBelow int
	Unlock       bool
	MetricsAddr  string
}

type CLIConfig struct {
	APIBaseURL  string
	CatalogFile string
}

// loadDotEnv reads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

func LoadAPIFromEnv() (APIConfig, error) {
	loadDotEnv()

	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("SHELF_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:           addr,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CatalogFile:    strings.TrimSpace(os.Getenv("SHELF_CATALOG_FILE")),
		Seed:           envInt64Default("SHELF_SEED", 0),
		RateLimit:      envFloatDefault("SHELF_RATE_LIMIT", 10),
		RateBurst:      envIntDefault("SHELF_RATE_BURST", 20),
		CORSOrigins:    envListDefault("SHELF_CORS_ORIGINS", []string{"*"}),
		RequestTimeout: envDurationDefault("SHELF_REQUEST_TIMEOUT", 30*time.Second),
	}
	if cfg.RateLimit <= 0 {
		return cfg, fmt.Errorf("SHELF_RATE_LIMIT must be positive")
	}
	if cfg.RateBurst < 1 {
		return cfg, fmt.Errorf("SHELF_RATE_BURST must be at least 1")
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	loadDotEnv()

	cfg := WorkerConfig{
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CatalogFile:  strings.TrimSpace(os.Getenv("SHELF_CATALOG_FILE")),
		Seed:         envInt64Default("SHELF_SEED", 0),
		Every:        envDurationDefault("SHELF_AUTOPLAY_EVERY", 2*time.Second),
		Days:         envIntDefault("SHELF_AUTOPLAY_DAYS", 30),
		RunOnce:      envBoolDefault("SHELF_WORKER_RUN_ONCE", false),
		RestockBelow: envIntDefault("SHELF_AUTOPLAY_RESTOCK_BELOW", 10),
		Unlock:       envBoolDefault("SHELF_AUTOPLAY_UNLOCK", true),
		MetricsAddr:  envDefault("SHELF_WORKER_METRICS_ADDR", ":9091"),
	}
	if strings.EqualFold(cfg.MetricsAddr, "off") {
		cfg.MetricsAddr = ""
	}
	if cfg.Days < 1 {
		return cfg, fmt.Errorf("SHELF_AUTOPLAY_DAYS must be at least 1")
	}
	if cfg.Every <= 0 {
		return cfg, fmt.Errorf("SHELF_AUTOPLAY_EVERY must be positive")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	loadDotEnv()
	return CLIConfig{
		APIBaseURL:  strings.TrimRight(envDefault("SHELF_API_BASE_URL", "http://localhost:8080"), "/"),
		CatalogFile: strings.TrimSpace(os.Getenv("SHELF_CATALOG_FILE")),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envListDefault(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
