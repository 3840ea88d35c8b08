package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/scrapdash/scrapdash-go/internal/middleware"
)

// RouterConfig carries the settings the HTTP surface needs.
type RouterConfig struct {
	JWTSecret string
	AuthRPS   float64
	AuthBurst int
}

// NewRouter assembles the full HTTP surface: public health and credential
// endpoints (rate-limited), and the token-gated application endpoints.
func NewRouter(cfg RouterConfig, auth *AuthHandler, docs *DocumentHandler, scrapers *ScraperHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.AuthRPS, cfg.AuthBurst))
		r.Post("/auth/signup", auth.HandleSignup)
		r.Post("/auth/login", auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.JWTSecret))
		r.Get("/auth/me", auth.HandleMe)
		r.Get("/dashboard", docs.HandleDashboard)
		r.Post("/customize-scraper", docs.HandleUpload)

		r.Get("/scrapers", scrapers.HandleList)
		r.Post("/scrapers", scrapers.HandleCreate)
		r.Post("/scrape", scrapers.HandleScrape)
		r.Post("/rebuild", scrapers.HandleRebuild)
		r.Post("/live-preview", scrapers.HandleLivePreview)
	})

	return r
}
