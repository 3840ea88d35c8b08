package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse builds the generic {message} error body.
func errorResponse(msg string) map[string]string {
	return map[string]string{"message": msg}
}

// messageResponse builds the generic {message} success body.
func messageResponse(msg string) map[string]string {
	return map[string]string{"message": msg}
}
