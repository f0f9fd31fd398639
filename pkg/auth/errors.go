package auth

import (
	"errors"
	"net/http"
)

var (
	// ErrMissingCredential indicates the request carried no bearer token.
	ErrMissingCredential = errors.New("no token provided")
	// ErrInvalidCredential indicates the token failed verification.
	ErrInvalidCredential = errors.New("unauthorized")
)

// Reason codes recorded for rejected tokens.
const (
	CodeTokenExpired   = "token_expired"
	CodeMalformedToken = "malformed_token"
	CodeInvalidToken   = "invalid_token"
)

// MapHTTPStatus maps credential errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingCredential) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrInvalidCredential) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
