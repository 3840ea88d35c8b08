package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scrap" {
			t.Errorf("path = %s, want /api/scrap", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req["url"] != "https://example.com" {
			t.Errorf("url = %q, want https://example.com", req["url"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"pages":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	artifact, err := c.Scrape(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Scrape() unexpected error: %v", err)
	}
	if string(artifact) != `{"pages":[]}` {
		t.Errorf("artifact = %s", artifact)
	}
}

func TestScrapeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Scrape(context.Background(), "https://example.com")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestScrapeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	_, err := c.Scrape(context.Background(), "https://example.com")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on timeout, got %v", err)
	}
}

func TestRebuild(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rebuild" {
			t.Errorf("path = %s, want /api/rebuild", r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("reading form file: %v", err)
		}
		defer file.Close()
		if header.Filename != "d.json" {
			t.Errorf("filename = %q, want d.json", header.Filename)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"preview_url": "http://preview.local/1"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	previewURL, err := c.Rebuild(context.Background(), "d.json", strings.NewReader(`{"a":1}`))
	if err != nil {
		t.Fatalf("Rebuild() unexpected error: %v", err)
	}
	if previewURL != "http://preview.local/1" {
		t.Errorf("previewURL = %q", previewURL)
	}
}

func TestRebuildMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Rebuild(context.Background(), "d.json", strings.NewReader("{}"))
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for malformed response, got %v", err)
	}
}
