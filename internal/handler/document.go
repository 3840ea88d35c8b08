package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/scrapdash/scrapdash-go/internal/middleware"
	"github.com/scrapdash/scrapdash-go/internal/service"
)

// maxUploadBytes bounds the size of an uploaded JSON configuration.
const maxUploadBytes = 10 << 20 // 10MB

// DocumentHandler handles HTTP requests for uploaded scraper configurations
// and the dashboard.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// HandleDashboard handles GET /dashboard requests.
func (h *DocumentHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		slog.Error("dashboard request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("dashboard request failed"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpload handles POST /customize-scraper requests: a multipart form
// with a single "file" field holding a JSON document.
func (h *DocumentHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

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

	payload, err := io.ReadAll(file)
	if err != nil {
		slog.Error("reading uploaded file failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to upload json"))
		return
	}

	resp, err := h.service.Upload(r.Context(), userID, header.Filename, payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidJSON), errors.Is(err, service.ErrFilenameRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			slog.Error("upload failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("failed to upload json"))
		}
		return
	}

	slog.Info("json file stored", "filename", resp.Filename, "user_id", userID)
	writeJSON(w, http.StatusOK, resp)
}
