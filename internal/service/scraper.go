package service

import (
	"context"
	"errors"
	"io"

	"github.com/scrapdash/scrapdash-go/internal/model"
	"github.com/scrapdash/scrapdash-go/internal/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrURLRequired  = errors.New("url is required")
)

// ScraperStore is the persistence contract for the scraper registry.
type ScraperStore interface {
	Create(ctx context.Context, s *model.Scraper) error
	ListByUser(ctx context.Context, userID int64) ([]model.Scraper, error)
}

// ScrapeClient talks to the external scraping service.
type ScrapeClient interface {
	Scrape(ctx context.Context, siteURL string) ([]byte, error)
	Rebuild(ctx context.Context, filename string, file io.Reader) (string, error)
	LivePreview(ctx context.Context, filename string, file io.Reader) (string, error)
}

// ScraperService handles the scraper registry and proxying to the external
// scraping service.
type ScraperService struct {
	scrapers ScraperStore
	client   ScrapeClient
}

// NewScraperService creates a new ScraperService.
func NewScraperService(scrapers ScraperStore, client ScrapeClient) *ScraperService {
	return &ScraperService{scrapers: scrapers, client: client}
}

// Register adds a scraper to the user's registry.
func (s *ScraperService) Register(ctx context.Context, userID int64, req model.CreateScraperRequest) error {
	if req.Name == "" {
		return ErrNameRequired
	}
	if req.URL == "" {
		return ErrURLRequired
	}

	scraper := &model.Scraper{
		UserID:    userID,
		Name:      req.Name,
		URL:       req.URL,
		Thumbnail: req.Thumbnail,
	}

	if err := s.scrapers.Create(ctx, scraper); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}

// List returns the user's registered scrapers, oldest first.
func (s *ScraperService) List(ctx context.Context, userID int64) ([]model.ScraperResponse, error) {
	scrapers, err := s.scrapers.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ScraperResponse, len(scrapers))
	for i, sc := range scrapers {
		result[i] = model.ScraperResponse{
			ID:          sc.ID,
			Name:        sc.Name,
			URL:         sc.URL,
			Thumbnail:   sc.Thumbnail,
			LastScraped: sc.LastScraped,
			CreatedAt:   sc.CreatedAt,
		}
	}
	return result, nil
}

// Scrape forwards a scrape request to the external service and returns the
// JSON artifact it produced. Upstream failures are surfaced as-is, without
// retries.
func (s *ScraperService) Scrape(ctx context.Context, siteURL string) ([]byte, error) {
	if siteURL == "" {
		return nil, ErrURLRequired
	}
	return s.client.Scrape(ctx, siteURL)
}

// Rebuild forwards an uploaded JSON file to the external rebuild endpoint
// and returns the preview URL. A document already stored for the user is
// not rolled back if the rebuild fails.
func (s *ScraperService) Rebuild(ctx context.Context, filename string, file io.Reader) (model.RebuildResponse, error) {
	previewURL, err := s.client.Rebuild(ctx, filename, file)
	if err != nil {
		return model.RebuildResponse{}, err
	}
	return model.RebuildResponse{PreviewURL: previewURL}, nil
}

// LivePreview forwards an uploaded JSON file to the external live preview
// endpoint and returns the preview URL.
func (s *ScraperService) LivePreview(ctx context.Context, filename string, file io.Reader) (model.RebuildResponse, error) {
	previewURL, err := s.client.LivePreview(ctx, filename, file)
	if err != nil {
		return model.RebuildResponse{}, err
	}
	return model.RebuildResponse{PreviewURL: previewURL}, nil
}
