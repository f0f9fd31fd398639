package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/redline/pkg/openapi"
	"github.com/JaimeStill/redline/pkg/routes"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func header(name, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(name, value)
			next.ServeHTTP(w, r)
		})
	}
}

func deny(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
}

func TestRegisterNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/api",
		Children: []routes.Group{
			{
				Prefix: "/auth",
				Routes: []routes.Route{{Method: "POST", Pattern: "/login", Handler: ok}},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/api/auth/login", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("nested route: got %d, want 200", rec.Code)
	}
}

func TestGroupMiddlewareScope(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux,
		routes.Group{
			Prefix:     "/secure",
			Middleware: []func(http.Handler) http.Handler{deny},
			Routes:     []routes.Route{{Method: "GET", Pattern: "/data", Handler: ok}},
		},
		routes.Group{
			Prefix: "/open",
			Routes: []routes.Route{{Method: "GET", Pattern: "/data", Handler: ok}},
		},
	)

	tests := []struct {
		path string
		want int
	}{
		{"/secure/data", http.StatusUnauthorized},
		{"/open/data", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMiddlewareOrderAcrossChildren(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix:     "/a",
		Middleware: []func(http.Handler) http.Handler{header("X-Trace", "outer")},
		Children: []routes.Group{
			{
				Prefix:     "/b",
				Middleware: []func(http.Handler) http.Handler{header("X-Trace", "inner")},
				Routes:     []routes.Route{{Method: "GET", Pattern: "/c", Handler: ok}},
			},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/a/b/c", nil))

	got := rec.Header().Values("X-Trace")
	if len(got) != 2 || got[0] != "outer" || got[1] != "inner" {
		t.Errorf("X-Trace = %v, want [outer inner]", got)
	}
}

func TestDescribe(t *testing.T) {
	spec := openapi.NewSpec("test", "1.0.0")

	routes.Describe(spec, "/api", routes.Group{
		Prefix: "/auth",
		Tags:   []string{"Auth"},
		Routes: []routes.Route{
			{
				Method:  "POST",
				Pattern: "/login",
				Handler: ok,
				OpenAPI: &openapi.Operation{Summary: "Login"},
			},
			{Method: "GET", Pattern: "/hidden", Handler: ok},
		},
	})

	item, found := spec.Paths["/api/auth/login"]
	if !found || item.Post == nil {
		t.Fatalf("paths = %v, want POST /api/auth/login", spec.Paths)
	}
	if item.Post.Summary != "Login" {
		t.Errorf("summary = %q", item.Post.Summary)
	}
	if len(item.Post.Tags) != 1 || item.Post.Tags[0] != "Auth" {
		t.Errorf("tags = %v, want inherited [Auth]", item.Post.Tags)
	}
	if _, found := spec.Paths["/api/auth/hidden"]; found {
		t.Error("undocumented route should be omitted")
	}
}
