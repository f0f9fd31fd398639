package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/pkg/audit"
	"github.com/JaimeStill/redline/pkg/handlers"
)

// Auditor records rejected credentials for offline review.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry) error
}

// Middleware returns middleware that requires a verified bearer token.
// Missing credentials get 401, rejected tokens get 403 and one audit entry.
// On success the claim is stored in the request context (see ClaimFrom).
func Middleware(v Verifier, auditor Auditor, logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With("system", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				handlers.RespondJSON(w, http.StatusUnauthorized, handlers.ErrorResponse{
					Error: "No token provided",
					Code:  "missing_credential",
				})
				return
			}

			claim, err := v.Verify(r.Context(), raw)
			if err != nil {
				code := CodeOf(err)
				if code == "" {
					code = CodeInvalidToken
				}

				logger.Warn("token verification failed", "code", code, "error", err, "addr", r.RemoteAddr)

				entry := audit.Entry{
					Component:  "auth",
					Operation:  "verify_token",
					ErrorCode:  code,
					Message:    err.Error(),
					RemoteAddr: r.RemoteAddr,
				}
				if aerr := auditor.Record(context.WithoutCancel(r.Context()), entry); aerr != nil {
					logger.Error("audit record failed", "error", aerr)
				}

				handlers.RespondJSON(w, http.StatusForbidden, handlers.ErrorResponse{
					Error:   "Unauthorized",
					Code:    "invalid_credential",
					Details: err.Error(),
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaim(r.Context(), claim)))
		})
	}
}
