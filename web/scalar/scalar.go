// Package scalar serves the Scalar API reference UI for the OpenAPI document.
package scalar

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/redline/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

var index = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module at basePath that renders the reference UI for
// the OpenAPI document served at specURL.
func NewModule(basePath, specURL string) *module.Module {
	var page bytes.Buffer
	if err := index.Execute(&page, map[string]string{"SpecURL": specURL}); err != nil {
		panic(err)
	}
	body := page.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(body)
	})

	return module.New(basePath, mux)
}
