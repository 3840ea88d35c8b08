package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newStubServer returns a server that issues a fixed token on login and
// accepts only that token on protected endpoints.
func newStubServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/signup", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "user created successfully"})
	})

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "pw123" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "login successful", "token": token})
	})

	requireToken := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+token {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "invalid or expired token"})
				return
			}
			next(w, r)
		}
	}

	mux.HandleFunc("GET /auth/me", requireToken(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 1, "name": "Alice", "email": "a@x.com"},
		})
	}))

	mux.HandleFunc("GET /dashboard", requireToken(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"message":   "dashboard loaded",
			"user":      map[string]any{"id": 1, "name": "Alice", "email": "a@x.com"},
			"documents": []any{},
		})
	}))

	mux.HandleFunc("POST /customize-scraper", requireToken(func(w http.ResponseWriter, r *http.Request) {
		_, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "no file uploaded"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"message":  "json uploaded successfully",
			"filename": header.Filename,
		})
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresToken(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	if c.Authenticated() {
		t.Fatal("new client should start unauthenticated")
	}

	if err := c.Login(context.Background(), "a@x.com", "pw123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if !c.Authenticated() {
		t.Fatal("expected authenticated state after login")
	}
	if c.Token() != "tok-1" {
		t.Errorf("Token() = %q, want tok-1", c.Token())
	}
}

func TestLoginFailureStaysUnauthenticated(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	err := c.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Login() = %v, want ErrRequestFailed", err)
	}
	if c.Authenticated() {
		t.Fatal("client should stay unauthenticated after failed login")
	}
}

func TestAuthenticatedCallsAttachToken(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	if err := c.Login(context.Background(), "a@x.com", "pw123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me() unexpected error: %v", err)
	}
	if user.Name != "Alice" {
		t.Errorf("user name = %q, want Alice", user.Name)
	}

	dash, err := c.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard() unexpected error: %v", err)
	}
	if dash.User.Name != "Alice" {
		t.Errorf("dashboard user = %q, want Alice", dash.User.Name)
	}
}

func TestRejectedTokenClearsSession(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	if err := c.Login(context.Background(), "a@x.com", "pw123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	// Simulate server-side expiry: the held token is no longer accepted.
	c.mu.Lock()
	c.token = "stale-token"
	c.mu.Unlock()

	_, err := c.Me(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Me() = %v, want ErrUnauthenticated", err)
	}
	if c.Authenticated() {
		t.Fatal("client should transition to unauthenticated after a 401")
	}
}

func TestUnauthenticatedCallFails(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	_, err := c.Dashboard(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Dashboard() = %v, want ErrUnauthenticated", err)
	}
}

func TestUploadScraperConfig(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	if err := c.Login(context.Background(), "a@x.com", "pw123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	filename, err := c.UploadScraperConfig(context.Background(), "d.json", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("UploadScraperConfig() unexpected error: %v", err)
	}
	if filename != "d.json" {
		t.Errorf("filename = %q, want d.json", filename)
	}
}

func TestLogoutDiscardsToken(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	if err := c.Login(context.Background(), "a@x.com", "pw123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	c.Logout()
	if c.Authenticated() {
		t.Fatal("expected unauthenticated state after logout")
	}

	if _, err := c.Me(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Me() after logout = %v, want ErrUnauthenticated", err)
	}
}

func TestSignup(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL)

	if err := c.Signup(context.Background(), "Alice", "a@x.com", "pw123"); err != nil {
		t.Fatalf("Signup() unexpected error: %v", err)
	}
	if c.Authenticated() {
		t.Fatal("signup alone should not authenticate")
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := newStubServer(t, "tok-1")
	c := New(srv.URL + "/")

	if err := c.Login(context.Background(), "a@x.com", "pw123"); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if !strings.HasPrefix(c.baseURL, "http") || strings.HasSuffix(c.baseURL, "/") {
		t.Errorf("baseURL = %q, want trimmed", c.baseURL)
	}
}
