package model

import "time"

// Scraper represents a registered scraper belonging to a user.
type Scraper struct {
	ID          int64
	UserID      int64
	Name        string
	URL         string
	Thumbnail   string
	LastScraped string
	CreatedAt   time.Time
}

// CreateScraperRequest represents a request to register a new scraper.
type CreateScraperRequest struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

// ScraperResponse represents a registered scraper in API responses.
type ScraperResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	LastScraped string    `json:"last_scraped,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ScrapeRequest represents a request to scrape a website via the external
// scraping service.
type ScrapeRequest struct {
	URL string `json:"url"`
}

// RebuildResponse represents the external service's answer to a rebuild or
// live preview, pointing at a hosted preview of the rebuilt site.
type RebuildResponse struct {
	PreviewURL string `json:"preview_url"`
}
