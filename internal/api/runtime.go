package api

import (
	"time"

	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/internal/infrastructure"
	"github.com/JaimeStill/redline/pkg/openapi"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	BasePath      string
	MaxUploadSize int64
	ModelTimeout  time.Duration
	MaxConcurrent int
	OpenAPI       openapi.Config
	Version       string
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &scoped,
		BasePath:       cfg.API.BasePath,
		MaxUploadSize:  cfg.API.MaxUploadSizeBytes(),
		ModelTimeout:   cfg.Model.TimeoutDuration(),
		MaxConcurrent:  cfg.Model.MaxConcurrent,
		OpenAPI:        cfg.API.OpenAPI,
		Version:        cfg.Version,
	}
}
