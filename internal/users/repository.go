package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/redline/pkg/auth"
	"github.com/JaimeStill/redline/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Sync(ctx context.Context, claim *auth.Claim) (*User, bool, error) {
	if claim == nil || claim.UID == "" {
		return nil, false, ErrInvalidClaim
	}

	// ON CONFLICT DO NOTHING returns no row when the subject already exists,
	// so a concurrent first login can never overwrite the winner's record.
	u, err := repository.QueryOne(
		ctx, r.db, insertIfAbsent,
		[]any{claim.UID, claim.Email, claim.Name, claim.Picture, DefaultRole},
		scanUser,
	)
	if err == nil {
		r.logger.Info("user created", "id", u.ID)
		return &u, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("%w: insert user: %w", ErrStorageFault, err)
	}

	existing, err := r.Find(ctx, claim.UID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *repo) Find(ctx context.Context, id string) (*User, error) {
	u, err := repository.QueryOne(ctx, r.db, selectByID, []any{id}, scanUser)
	if err != nil {
		mapped := repository.MapError(err, ErrNotFound, ErrStorageFault)
		if errors.Is(mapped, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", ErrStorageFault, mapped)
	}
	return &u, nil
}
