// Package client is the session-facing API client for the scrapdash backend.
// It holds the bearer token issued at login, attaches it to every
// authenticated call, and drops back to the unauthenticated state whenever
// the server rejects the token. There is no silent refresh: an expired
// session requires a fresh login.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/scrapdash/scrapdash-go/internal/model"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrRequestFailed   = errors.New("request failed")
)

// Client talks to a scrapdash server on behalf of one user session.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.Mutex
	token string
}

// New creates a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns the currently held bearer token, empty when unauthenticated.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Authenticated reports whether the client currently holds a token.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

// Logout discards the held token. Logout is client-side only: the token
// itself stays valid until its encoded expiry.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Signup registers a new account. It does not log the user in.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	body := model.SignupRequest{Name: name, Email: email, Password: password}
	resp, err := c.postJSON(ctx, "/auth/signup", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return responseError(resp)
	}
	return nil
}

// Login authenticates and stores the issued token, moving the client into
// the authenticated state.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := model.LoginRequest{Email: email, Password: password}
	resp, err := c.postJSON(ctx, "/auth/login", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	var login model.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return fmt.Errorf("%w: malformed login response", ErrRequestFailed)
	}

	c.mu.Lock()
	c.token = login.Token
	c.mu.Unlock()
	return nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (model.UserResponse, error) {
	resp, err := c.get(ctx, "/auth/me")
	if err != nil {
		return model.UserResponse{}, err
	}
	defer resp.Body.Close()

	if err := c.checkAuth(resp); err != nil {
		return model.UserResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return model.UserResponse{}, responseError(resp)
	}

	var me model.MeResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return model.UserResponse{}, fmt.Errorf("%w: malformed response", ErrRequestFailed)
	}
	return me.User, nil
}

// Dashboard fetches the user's profile and uploaded documents.
func (c *Client) Dashboard(ctx context.Context) (model.DashboardResponse, error) {
	resp, err := c.get(ctx, "/dashboard")
	if err != nil {
		return model.DashboardResponse{}, err
	}
	defer resp.Body.Close()

	if err := c.checkAuth(resp); err != nil {
		return model.DashboardResponse{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return model.DashboardResponse{}, responseError(resp)
	}

	var dash model.DashboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&dash); err != nil {
		return model.DashboardResponse{}, fmt.Errorf("%w: malformed response", ErrRequestFailed)
	}
	return dash, nil
}

// UploadScraperConfig uploads a JSON configuration file and returns the
// stored filename.
func (c *Client) UploadScraperConfig(ctx context.Context, filename string, payload []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(payload); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/customize-scraper", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkAuth(resp); err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", responseError(resp)
	}

	var upload model.UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return "", fmt.Errorf("%w: malformed response", ErrRequestFailed)
	}
	return upload.Filename, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// do attaches the held token and executes the request.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	return resp, nil
}

// checkAuth clears the held token on a 401 so the next call starts from the
// unauthenticated state, matching the frontend's redirect-to-login behavior.
func (c *Client) checkAuth(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.Logout()
		return ErrUnauthenticated
	}
	return nil
}

func responseError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		return fmt.Errorf("%w: %s (status %d)", ErrRequestFailed, body.Message, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", ErrRequestFailed, resp.StatusCode)
}
