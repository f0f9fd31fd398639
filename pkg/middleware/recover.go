package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/pkg/handlers"
)

// Recover returns middleware that converts a handler panic into a 500 JSON response.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if v := recover(); v != nil {
					if v == http.ErrAbortHandler {
						panic(v)
					}
					handlers.RespondErrorCode(
						w, logger, http.StatusInternalServerError,
						"internal_error", fmt.Errorf("panic: %v", v),
					)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
