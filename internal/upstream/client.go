// Package upstream talks to the external scraping/rebuild service. The
// service is treated as an opaque collaborator: calls carry a bounded
// timeout, failures are surfaced to the caller, and nothing is retried.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var ErrUnavailable = errors.New("scraper service unavailable")

// Client is an HTTP client for the external scraping service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the service at baseURL. Every call is
// bounded by the given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Scrape asks the service to scrape the given website URL and returns the
// produced JSON artifact.
func (c *Client) Scrape(ctx context.Context, siteURL string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"url": siteURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scrap", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Rebuild sends an uploaded JSON file to the service's rebuild endpoint and
// returns the preview URL for the rebuilt site.
func (c *Client) Rebuild(ctx context.Context, filename string, file io.Reader) (string, error) {
	return c.postFile(ctx, "/api/rebuild", filename, file)
}

// LivePreview sends an uploaded JSON file to the service's live preview
// endpoint and returns the preview URL.
func (c *Client) LivePreview(ctx context.Context, filename string, file io.Reader) (string, error) {
	return c.postFile(ctx, "/api/live_preview", filename, file)
}

func (c *Client) postFile(ctx context.Context, path, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result struct {
		PreviewURL string `json:"preview_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	return result.PreviewURL, nil
}
