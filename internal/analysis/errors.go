package analysis

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JaimeStill/redline/internal/uploads"
)

// ErrModelInvocation is the umbrella for every failure to obtain a usable
// analysis from the model. ErrInvalidResponse and ErrModelTimeout wrap it.
var ErrModelInvocation = errors.New("failed to analyze documents")

var (
	ErrInvalidResponse = fmt.Errorf("%w: invalid model response", ErrModelInvocation)
	ErrModelTimeout    = fmt.Errorf("%w: model call timed out", ErrModelInvocation)
)

// MapHTTPStatus maps analysis errors to HTTP status codes. Every failure past
// upload intake is a server error; MapErrorCode tells the kinds apart.
func MapHTTPStatus(err error) int {
	return http.StatusInternalServerError
}

// MapErrorCode maps analysis errors to the machine-readable code returned in error bodies.
func MapErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrModelTimeout):
		return "model_timeout"
	case errors.Is(err, ErrInvalidResponse):
		return "invalid_response"
	case errors.Is(err, uploads.ErrStorageFault):
		return "storage_fault"
	default:
		return "model_error"
	}
}
