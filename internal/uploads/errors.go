package uploads

import (
	"errors"
	"net/http"
)

// Domain errors for upload intake.
var (
	ErrMissingFiles   = errors.New("both master and candidate files are required")
	ErrUnexpectedFile = errors.New("each part must carry exactly one file")
	ErrInvalidForm    = errors.New("request is not a valid multipart form")
	ErrFileTooLarge   = errors.New("upload exceeds maximum size")
	ErrStorageFault   = errors.New("failed to store upload")
)

// MapHTTPStatus maps upload domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingFiles),
		errors.Is(err, ErrUnexpectedFile),
		errors.Is(err, ErrInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorCode maps upload domain errors to the machine-readable code
// returned in error bodies.
func MapErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrMissingFiles):
		return "missing_files"
	case errors.Is(err, ErrUnexpectedFile), errors.Is(err, ErrInvalidForm):
		return "invalid_upload"
	case errors.Is(err, ErrFileTooLarge):
		return "file_too_large"
	default:
		return "storage_fault"
	}
}
