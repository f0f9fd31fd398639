package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/redline/internal/analysis"
	"github.com/JaimeStill/redline/internal/users"
	"github.com/JaimeStill/redline/pkg/auth"
	"github.com/JaimeStill/redline/pkg/openapi"
	"github.com/JaimeStill/redline/pkg/routes"
)

// SpecPath is the route, relative to the module prefix, serving the OpenAPI document.
const SpecPath = "/openapi.json"

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) error {
	authn := auth.Middleware(runtime.Verifier, runtime.Audit, runtime.Logger)

	login := domain.Users.Handler().Routes()
	login.Middleware = []func(http.Handler) http.Handler{authn}

	analyze := domain.Analysis.Handler(domain.Uploads).Routes()
	analyze.Middleware = []func(http.Handler) http.Handler{
		authn,
		runtime.RateLimit.Middleware(callerKey),
	}

	groups := []routes.Group{login, analyze}

	spec, err := buildSpec(runtime, groups)
	if err != nil {
		return err
	}

	routes.Register(mux, groups...)
	mux.Handle("GET "+SpecPath, openapi.ServeSpec(spec))
	return nil
}

// callerKey buckets requests by verified user. It runs after the auth
// middleware, so a missing claim only happens when auth is bypassed.
func callerKey(r *http.Request) string {
	claim, ok := auth.ClaimFrom(r.Context())
	if !ok {
		return ""
	}
	return "user:" + claim.UID
}

func buildSpec(runtime *Runtime, groups []routes.Group) ([]byte, error) {
	spec := openapi.NewSpec(runtime.OpenAPI.Title, runtime.Version)
	spec.SetDescription(runtime.OpenAPI.Description)
	spec.AddServer(runtime.OpenAPI.ServerURL(runtime.BasePath))
	spec.EnableBearerAuth()
	spec.Components.AddSchemas(users.Schemas())
	spec.Components.AddSchemas(analysis.Schemas())

	routes.Describe(spec, "", groups...)

	data, err := spec.Encode()
	if err != nil {
		return nil, fmt.Errorf("openapi spec: %w", err)
	}
	return data, nil
}
