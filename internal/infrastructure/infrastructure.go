// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, storage, audit log,
// token verification, model client, rate limiter) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/redline/internal/config"
	"github.com/JaimeStill/redline/pkg/audit"
	"github.com/JaimeStill/redline/pkg/auth"
	"github.com/JaimeStill/redline/pkg/database"
	"github.com/JaimeStill/redline/pkg/inference"
	"github.com/JaimeStill/redline/pkg/lifecycle"
	"github.com/JaimeStill/redline/pkg/ratelimit"
	"github.com/JaimeStill/redline/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Audit     audit.System
	Verifier  auth.Verifier
	Model     inference.Model
	RateLimit ratelimit.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	auditLog, err := audit.New(&cfg.Audit, logger)
	if err != nil {
		return nil, fmt.Errorf("audit init failed: %w", err)
	}

	verifier, err := auth.New(lc.Context(), &cfg.Auth)
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("verifier init failed: %w", err)
	}

	model, err := inference.New(lc.Context(), &cfg.Model, logger)
	if err != nil {
		auditLog.Close()
		return nil, fmt.Errorf("model init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Audit:     auditLog,
		Verifier:  verifier,
		Model:     model,
		RateLimit: ratelimit.New(&cfg.RateLimit, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Audit.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("audit start failed: %w", err)
	}
	if err := i.RateLimit.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("ratelimit start failed: %w", err)
	}
	return nil
}
