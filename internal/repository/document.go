package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/scrapdash/scrapdash-go/internal/model"
)

// DocumentRepository handles uploaded document persistence operations.
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Append stores a new document for a user. Each call inserts a fresh row, so
// two racing uploads for the same user both land; repeated filenames are
// allowed and produce additional entries.
func (r *DocumentRepository) Append(ctx context.Context, userID int64, filename string, data json.RawMessage) (*model.Document, error) {
	uploadedAt := time.Now().UTC()
	query := `INSERT INTO documents (user_id, filename, data, uploaded_at) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, userID, filename, []byte(data), uploadedAt)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &model.Document{
		ID:         id,
		UserID:     userID,
		Filename:   filename,
		Data:       data,
		UploadedAt: uploadedAt,
	}, nil
}

// ListByUser retrieves all documents for a user in insertion order, oldest first.
func (r *DocumentRepository) ListByUser(ctx context.Context, userID int64) ([]model.Document, error) {
	query := `SELECT id, user_id, filename, data, uploaded_at FROM documents WHERE user_id = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		var d model.Document
		var data []byte
		if err := rows.Scan(&d.ID, &d.UserID, &d.Filename, &data, &d.UploadedAt); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(data)
		docs = append(docs, d)
	}

	return docs, rows.Err()
}
