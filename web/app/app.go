// Package app serves the browser front end: the upload dashboard and the
// analysis result view.
package app

import (
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/JaimeStill/redline/internal/analysis"
	"github.com/JaimeStill/redline/internal/review"
	"github.com/JaimeStill/redline/pkg/module"
	"github.com/JaimeStill/redline/pkg/routes"
	"github.com/JaimeStill/redline/pkg/web"
)

//go:embed templates static
var appFS embed.FS

const (
	layout       = "app"
	maxStateSize = 1 << 20
)

var (
	dashboardView = web.ViewDef{Route: "/{$}", Template: "dashboard.html", Title: "Contract Review"}
	resultView    = web.ViewDef{Route: "/result", Template: "result.html", Title: "Analysis Result"}
	notFoundView  = web.ViewDef{Route: "", Template: "not-found.html", Title: "Not Found"}
)

var funcs = template.FuncMap{
	"lower": strings.ToLower,
	"inc":   func(i int) int { return i + 1 },
}

// DashboardData is rendered by the dashboard view.
type DashboardData struct {
	APIBase string
}

// ResultData is rendered by the result view. Envelope is the raw JSON state
// carried between result pages.
type ResultData struct {
	View     review.View
	Envelope string
}

// Handler renders the front-end pages.
type Handler struct {
	ts      *web.TemplateSet
	apiBase string
	logger  *slog.Logger
}

// NewHandler parses the page templates. apiBase is the path the API module is mounted at.
func NewHandler(basePath, apiBase string, logger *slog.Logger) (*Handler, error) {
	ts, err := web.NewTemplateSet(
		appFS, appFS,
		"templates/layouts/*.html", "templates/views", basePath,
		funcs,
		[]web.ViewDef{dashboardView, resultView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	return &Handler{
		ts:      ts,
		apiBase: apiBase,
		logger:  logger.With("handler", "app"),
	}, nil
}

// Routes returns the page routes.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: dashboardView.Route, Handler: h.Dashboard},
			{Method: "GET", Pattern: resultView.Route, Handler: h.Result},
			{Method: "POST", Pattern: resultView.Route, Handler: h.Result},
		},
	}
}

// Dashboard renders the upload form.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, dashboardView, DashboardData{APIBase: h.apiBase})
}

// Result renders the analysis carried in the posted envelope field. Without
// usable state it renders the not-run view rather than failing.
func (h *Handler) Result(w http.ResponseWriter, r *http.Request) {
	var (
		env      *analysis.Envelope
		raw      string
		selected int
	)

	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxStateSize)
		if err := r.ParseForm(); err != nil {
			h.logger.Warn("discarding unreadable result state", "error", err)
		} else {
			raw = r.PostFormValue("envelope")
			selected, _ = strconv.Atoi(r.PostFormValue("selected"))
		}
	}

	if raw != "" {
		var decoded analysis.Envelope
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			h.logger.Warn("discarding malformed result state", "error", err)
			raw = ""
		} else {
			env = &decoded
		}
	}

	h.render(w, http.StatusOK, resultView, ResultData{
		View:     review.NewView(env, selected),
		Envelope: raw,
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, view web.ViewDef, data any) {
	if err := h.ts.Render(w, status, layout, view, data); err != nil {
		h.logger.Error("render failed", "view", view.Template, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// NewModule creates the front-end module mounted at basePath.
func NewModule(basePath, apiBase string, logger *slog.Logger) (*module.Module, error) {
	h, err := NewHandler(basePath, apiBase, logger)
	if err != nil {
		return nil, err
	}

	assets, err := web.Assets(appFS, "static", "/static/")
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	router.Register(h.Routes())
	router.Handle("GET /static/", assets)
	router.SetFallback(h.ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	return module.New(basePath, router), nil
}
