package users

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/pkg/auth"
	"github.com/JaimeStill/redline/pkg/handlers"
	"github.com/JaimeStill/redline/pkg/openapi"
	"github.com/JaimeStill/redline/pkg/routes"
)

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message string      `json:"message"`
	User    *auth.Claim `json:"user"`
}

// Handler provides HTTP endpoints for authentication.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the route group for authentication endpoints.
// The caller attaches the credential middleware.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Tags:   []string{"Auth"},
		Routes: []routes.Route{
			{
				Method:  "POST",
				Pattern: "/login",
				Handler: h.Login,
				OpenAPI: &openapi.Operation{
					Summary:     "Register or confirm the caller",
					Description: "Verifies the bearer token and creates the user record on first login.",
					Security:    openapi.RequireBearer(),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("User authenticated", "LoginResponse"),
						401: openapi.ResponseRef("Unauthorized"),
						403: openapi.ResponseRef("Forbidden"),
						500: openapi.ResponseRef("InternalError"),
					},
				},
			},
		},
	}
}

// Login ensures the verified caller has a user record and echoes the claim.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	claim, ok := auth.ClaimFrom(r.Context())
	if !ok {
		handlers.RespondErrorCode(w, h.logger, http.StatusUnauthorized, "missing_credential", auth.ErrMissingCredential)
		return
	}

	if _, _, err := h.sys.Sync(r.Context(), claim); err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), "storage_fault", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, LoginResponse{
		Message: "User authenticated",
		User:    claim,
	})
}
