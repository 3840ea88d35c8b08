package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/scrapdash/scrapdash-go/internal/middleware"
	"github.com/scrapdash/scrapdash-go/internal/model"
	"github.com/scrapdash/scrapdash-go/internal/service"
	"github.com/scrapdash/scrapdash-go/internal/upstream"
)

// ScraperHandler handles HTTP requests for the scraper registry and for
// proxying to the external scraping service.
type ScraperHandler struct {
	service *service.ScraperService
}

// NewScraperHandler creates a new ScraperHandler.
func NewScraperHandler(svc *service.ScraperService) *ScraperHandler {
	return &ScraperHandler{service: svc}
}

// HandleList handles GET /scrapers requests.
func (h *ScraperHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	scrapers, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("listing scrapers failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, scrapers)
}

// HandleCreate handles POST /scrapers requests.
func (h *ScraperHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateScraperRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	if err := h.service.Register(r.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrURLRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			slog.Error("registering scraper failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse("scraper added"))
}

// HandleScrape handles POST /scrape requests, forwarding the URL to the
// external scraping service and streaming back its JSON artifact.
func (h *ScraperHandler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	artifact, err := h.service.Scrape(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrURLRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, upstream.ErrUnavailable):
			slog.Warn("scrape proxy failed", "error", err)
			writeJSON(w, http.StatusBadGateway, errorResponse("scraper service unavailable"))
		default:
			slog.Error("scrape failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="scraped_data.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(artifact)
}

// HandleRebuild handles POST /rebuild requests: forwards the uploaded JSON
// file to the external rebuild endpoint and returns the preview URL.
func (h *ScraperHandler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	h.proxyFile(w, r, h.service.Rebuild)
}

// HandleLivePreview handles POST /live-preview requests: forwards the
// uploaded JSON file to the external live preview endpoint.
func (h *ScraperHandler) HandleLivePreview(w http.ResponseWriter, r *http.Request) {
	h.proxyFile(w, r, h.service.LivePreview)
}

func (h *ScraperHandler) proxyFile(w http.ResponseWriter, r *http.Request, forward func(context.Context, string, io.Reader) (model.RebuildResponse, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("no file uploaded"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("no file uploaded"))
		return
	}
	defer file.Close()

	resp, err := forward(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, upstream.ErrUnavailable) {
			slog.Warn("upstream proxy failed", "error", err)
			writeJSON(w, http.StatusBadGateway, errorResponse("scraper service unavailable"))
			return
		}
		slog.Error("rebuild failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
