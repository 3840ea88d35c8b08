package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	ScraperAPIURL  string
	ScraperTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "5000"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/scrapdash?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:      time.Hour,
		ScraperAPIURL:  getEnv("SCRAPER_API_URL", "http://127.0.0.1:8000"),
		ScraperTimeout: 30 * time.Second,
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
