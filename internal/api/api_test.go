package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/JaimeStill/redline/internal/api"
	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/pkg/audit"
	"github.com/JaimeStill/redline/pkg/auth"
	"github.com/JaimeStill/redline/pkg/database"
	"github.com/JaimeStill/redline/pkg/inference"
	"github.com/JaimeStill/redline/pkg/middleware"
	"github.com/JaimeStill/redline/pkg/module"
	"github.com/JaimeStill/redline/pkg/storage"
)

const goodToken = "good-token"

type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, raw string) (*auth.Claim, error) {
	if raw != goodToken {
		return nil, &auth.VerifyError{Code: auth.CodeInvalidToken, Err: errors.New("signature mismatch")}
	}
	return &auth.Claim{UID: "u1", Email: "a@example.com"}, nil
}

type countingModel struct {
	calls   atomic.Int32
	content string
}

func (m *countingModel) Generate(context.Context, inference.Request) (string, error) {
	m.calls.Add(1)
	return m.content, nil
}

type harness struct {
	root   string
	infra  *infrastructure.Infrastructure
	model  *countingModel
	router *module.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	root := filepath.Join(dir, "files")
	cfg := &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "redline",
			User:            "redline",
			Password:        "redline",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    1,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{Provider: storage.ProviderLocal, Path: root},
		Audit:   audit.Config{Path: filepath.Join(dir, "audit.db")},
		Auth: auth.Config{
			Issuer:   "https://securetoken.google.com/redline-test",
			Audience: "redline-test",
			JWKSURL:  "http://127.0.0.1:1/jwks",
		},
		Model: inference.Config{
			Provider:      inference.ProviderGemini,
			APIKey:        "test-key",
			Name:          "gemini-1.5-pro",
			Timeout:       "5s",
			MaxConcurrent: 2,
		},
		API: config.APIConfig{
			BasePath:      "/api",
			MaxUploadSize: "1MB",
		},
		Version: "0.1.0",
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure.New() error = %v", err)
	}
	t.Cleanup(func() { infra.Audit.Close() })

	model := &countingModel{content: `{"riskScore": 30, "conflicts": []}`}
	infra.Verifier = stubVerifier{}
	infra.Model = model

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	router := module.NewRouter()
	router.Mount(m)

	return &harness{root: root, infra: infra, model: model, router: router}
}

func (h *harness) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) storedFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(h.root, "uploads"))
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("ReadDir() error = %v", err)
	}
	return len(entries)
}

func analyzeRequest(t *testing.T, token string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, field := range []string{"master", "candidate"} {
		fw, err := mw.CreateFormFile(field, field+".pdf")
		if err != nil {
			t.Fatalf("CreateFormFile() error = %v", err)
		}
		fmt.Fprintf(fw, "%%PDF-1.4 %s", field)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Code
}

func TestAnalyzeWithoutCredential(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(analyzeRequest(t, ""))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if code := errorCode(t, rec); code != "missing_credential" {
		t.Errorf("code = %q, want missing_credential", code)
	}
	if n := h.model.calls.Load(); n != 0 {
		t.Errorf("model calls = %d, want 0", n)
	}
	if n := h.storedFiles(t); n != 0 {
		t.Errorf("stored files = %d, want 0", n)
	}
}

func TestAnalyzeRejectedCredentialIsAudited(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(analyzeRequest(t, "forged"))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if code := errorCode(t, rec); code != "invalid_credential" {
		t.Errorf("code = %q, want invalid_credential", code)
	}
	if n := h.model.calls.Load(); n != 0 {
		t.Errorf("model calls = %d, want 0", n)
	}

	entries, err := h.infra.Audit.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	if entries[0].ErrorCode != auth.CodeInvalidToken {
		t.Errorf("audit code = %q, want %q", entries[0].ErrorCode, auth.CodeInvalidToken)
	}
}

func TestAnalyzeAuthorized(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(analyzeRequest(t, goodToken))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var env struct {
		Message      string `json:"message"`
		MockAnalysis struct {
			RiskScore int   `json:"riskScore"`
			Conflicts []any `json:"conflicts"`
		} `json:"mockAnalysis"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Message != "Analysis successful" {
		t.Errorf("message = %q", env.Message)
	}
	if env.MockAnalysis.RiskScore != 30 {
		t.Errorf("riskScore = %d, want 30", env.MockAnalysis.RiskScore)
	}
	if n := h.model.calls.Load(); n != 1 {
		t.Errorf("model calls = %d, want 1", n)
	}
	if n := h.storedFiles(t); n != 0 {
		t.Errorf("stored files after response = %d, want 0", n)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestLoginWithoutCredential(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if code := errorCode(t, rec); code != "missing_credential" {
		t.Errorf("code = %q, want missing_credential", code)
	}
}

func TestOpenAPIDocumentIsPublic(t *testing.T) {
	h := newHarness(t)

	rec := h.serve(httptest.NewRequest(http.MethodGet, "/api"+api.SpecPath, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		Paths      map[string]json.RawMessage `json:"paths"`
		Components struct {
			Schemas         map[string]json.RawMessage `json:"schemas"`
			SecuritySchemes map[string]json.RawMessage `json:"securitySchemes"`
		} `json:"components"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.Info.Version != "0.1.0" {
		t.Errorf("version = %q, want 0.1.0", doc.Info.Version)
	}
	for _, path := range []string{"/auth/login", "/analyze"} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("missing path %s", path)
		}
	}
	for _, schema := range []string{"Envelope", "Conflict", "LoginResponse", "Error"} {
		if _, ok := doc.Components.Schemas[schema]; !ok {
			t.Errorf("missing schema %s", schema)
		}
	}
	if _, ok := doc.Components.SecuritySchemes["bearerAuth"]; !ok {
		t.Error("missing bearerAuth security scheme")
	}
}
