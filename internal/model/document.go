package model

import (
	"encoding/json"
	"time"
)

// Document represents an uploaded JSON configuration owned by a user.
// The payload is opaque to the server: any valid JSON is accepted as-is.
type Document struct {
	ID         int64
	UserID     int64
	Filename   string
	Data       json.RawMessage
	UploadedAt time.Time
}

// DocumentResponse represents an uploaded document in API responses.
type DocumentResponse struct {
	Filename   string          `json:"filename"`
	Data       json.RawMessage `json:"data"`
	UploadedAt time.Time       `json:"uploaded_at"`
}

// UploadResponse represents a successful document upload.
type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// DashboardResponse represents the authenticated dashboard view: the user's
// profile plus every document they have uploaded, oldest first.
type DashboardResponse struct {
	Message   string             `json:"message"`
	User      UserResponse       `json:"user"`
	Documents []DocumentResponse `json:"documents"`
}
