// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON body written for every failed request.
// Code is a stable machine-readable identifier clients map to user-facing messages.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes it as a JSON error body.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)
	RespondJSON(w, status, ErrorResponse{Error: err.Error()})
}

// RespondErrorCode logs err and writes a JSON error body carrying a machine-readable code.
func RespondErrorCode(w http.ResponseWriter, logger *slog.Logger, status int, code string, err error) {
	logger.Error("handler error", "error", err, "status", status, "code", code)
	RespondJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}
