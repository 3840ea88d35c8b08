package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/scrapdash/scrapdash-go/internal/model"
	"github.com/scrapdash/scrapdash-go/internal/repository"
)

var (
	ErrFilenameRequired = errors.New("filename is required")
	ErrInvalidJSON      = errors.New("uploaded file is not valid json")
)

// DocumentStore is the persistence contract for uploaded documents.
// Append must be atomic per call so that two racing uploads for the same
// user never lose an entry.
type DocumentStore interface {
	Append(ctx context.Context, userID int64, filename string, data json.RawMessage) (*model.Document, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Document, error)
}

// DocumentService handles uploaded scraper configurations and the dashboard view.
type DocumentService struct {
	users UserStore
	docs  DocumentStore
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(users UserStore, docs DocumentStore) *DocumentService {
	return &DocumentService{users: users, docs: docs}
}

// Upload validates and appends an uploaded JSON payload to the user's
// collection. The payload shape is not inspected beyond being valid JSON;
// repeated uploads with the same filename create additional entries.
func (s *DocumentService) Upload(ctx context.Context, userID int64, filename string, payload []byte) (model.UploadResponse, error) {
	if filename == "" {
		return model.UploadResponse{}, ErrFilenameRequired
	}
	if !json.Valid(payload) {
		return model.UploadResponse{}, ErrInvalidJSON
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UploadResponse{}, ErrUserNotFound
		}
		return model.UploadResponse{}, err
	}

	if _, err := s.docs.Append(ctx, userID, filename, json.RawMessage(payload)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UploadResponse{}, ErrUserNotFound
		}
		return model.UploadResponse{}, err
	}

	return model.UploadResponse{
		Message:  "json uploaded successfully",
		Filename: filename,
	}, nil
}

// Dashboard returns the user's profile together with every uploaded
// document, oldest first.
func (s *DocumentService) Dashboard(ctx context.Context, userID int64) (model.DashboardResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.DashboardResponse{}, ErrUserNotFound
		}
		return model.DashboardResponse{}, err
	}

	docs, err := s.docs.ListByUser(ctx, userID)
	if err != nil {
		return model.DashboardResponse{}, err
	}

	return model.DashboardResponse{
		Message: "dashboard loaded",
		User: model.UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt,
		},
		Documents: documentsToResponse(docs),
	}, nil
}

// documentsToResponse converts stored documents to their API representation.
func documentsToResponse(docs []model.Document) []model.DocumentResponse {
	result := make([]model.DocumentResponse, len(docs))
	for i, d := range docs {
		result[i] = model.DocumentResponse{
			Filename:   d.Filename,
			Data:       d.Data,
			UploadedAt: d.UploadedAt,
		}
	}
	return result
}
