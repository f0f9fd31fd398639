package analysis

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/redline/internal/uploads"
	"github.com/JaimeStill/redline/pkg/handlers"
	"github.com/JaimeStill/redline/pkg/openapi"
	"github.com/JaimeStill/redline/pkg/routes"
)

// Handler provides the HTTP endpoint for contract analysis.
type Handler struct {
	sys     System
	uploads uploads.System
	logger  *slog.Logger
}

// NewHandler creates a Handler that receives files through up and analyzes them with sys.
func NewHandler(sys System, up uploads.System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:     sys,
		uploads: up,
		logger:  logger.With("handler", "analysis"),
	}
}

// Routes returns the route group for analysis endpoints.
// The caller attaches the credential and rate limit middleware.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analyze",
		Tags:   []string{"Analysis"},
		Routes: []routes.Route{
			{
				Method:  "POST",
				Pattern: "",
				Handler: h.Analyze,
				OpenAPI: &openapi.Operation{
					Summary:     "Compare a candidate contract against the master agreement",
					Description: "Accepts the master and candidate PDFs as multipart parts and returns the model's conflict report. Uploaded files are deleted before the response completes.",
					Security:    openapi.RequireBearer(),
					RequestBody: openapi.RequestBodyMultipart("AnalyzeUpload", true),
					Responses: map[int]*openapi.Response{
						200: openapi.ResponseJSON("Analysis successful", "Envelope"),
						400: openapi.ResponseRef("BadRequest"),
						401: openapi.ResponseRef("Unauthorized"),
						403: openapi.ResponseRef("Forbidden"),
						413: openapi.ResponseRef("PayloadTooLarge"),
						429: openapi.ResponseRef("TooManyRequests"),
						500: openapi.ResponseRef("InternalError"),
					},
				},
			},
		},
	}
}

// Analyze stores the uploaded pair, runs the analysis, and releases the
// stored files on every exit path.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	batch, err := h.uploads.Receive(r.Context(), r)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, uploads.MapHTTPStatus(err), uploads.MapErrorCode(err), err)
		return
	}
	defer func() {
		if err := batch.Release(context.WithoutCancel(r.Context())); err != nil {
			h.logger.Error("failed to release uploads", "error", err)
		}
	}()

	env, err := h.sys.Analyze(r.Context(), batch)
	if err != nil {
		handlers.RespondErrorCode(w, h.logger, MapHTTPStatus(err), MapErrorCode(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, env)
}
