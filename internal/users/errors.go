package users

import (
	"errors"
	"net/http"
)

// Domain errors for user registry operations.
var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidClaim = errors.New("claim has no subject")
	ErrStorageFault = errors.New("user registry unavailable")
)

// MapHTTPStatus maps user domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidClaim) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
