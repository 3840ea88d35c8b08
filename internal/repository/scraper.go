package repository

import (
	"context"
	"database/sql"

	"github.com/scrapdash/scrapdash-go/internal/model"
)

// ScraperRepository handles scraper registry persistence operations.
type ScraperRepository struct {
	db *sql.DB
}

// NewScraperRepository creates a new ScraperRepository.
func NewScraperRepository(db *sql.DB) *ScraperRepository {
	return &ScraperRepository{db: db}
}

// Create inserts a new scraper and sets the generated ID on the struct.
func (r *ScraperRepository) Create(ctx context.Context, s *model.Scraper) error {
	query := `INSERT INTO scrapers (user_id, name, url, thumbnail, last_scraped) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, s.UserID, s.Name, s.URL, s.Thumbnail, s.LastScraped)
	if err != nil {
		if isForeignKeyError(err) {
			return ErrUserNotFound
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	s.ID = id
	return nil
}

// ListByUser retrieves all scrapers registered by a user, oldest first.
func (r *ScraperRepository) ListByUser(ctx context.Context, userID int64) ([]model.Scraper, error) {
	query := `SELECT id, user_id, name, url, thumbnail, last_scraped, created_at FROM scrapers WHERE user_id = ? ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scrapers []model.Scraper
	for rows.Next() {
		var s model.Scraper
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name, &s.URL, &s.Thumbnail, &s.LastScraped, &s.CreatedAt); err != nil {
			return nil, err
		}
		scrapers = append(scrapers, s)
	}

	return scrapers, rows.Err()
}
