package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/scrapdash/scrapdash-go/internal/config"
	"github.com/scrapdash/scrapdash-go/internal/handler"
	"github.com/scrapdash/scrapdash-go/internal/repository"
	"github.com/scrapdash/scrapdash-go/internal/service"
	"github.com/scrapdash/scrapdash-go/internal/upstream"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	scraperRepo := repository.NewScraperRepository(db)
	scraperAPI := upstream.NewClient(cfg.ScraperAPIURL, cfg.ScraperTimeout)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	docService := service.NewDocumentService(userRepo, docRepo)
	scraperService := service.NewScraperService(scraperRepo, scraperAPI)

	r := handler.NewRouter(handler.RouterConfig{
		JWTSecret: cfg.JWTSecret,
		AuthRPS:   5,
		AuthBurst: 10,
	},
		handler.NewAuthHandler(authService),
		handler.NewDocumentHandler(docService),
		handler.NewScraperHandler(scraperService),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
