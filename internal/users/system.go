package users

import (
	"context"

	"github.com/JaimeStill/redline/pkg/auth"
)

// System defines the public contract for the user registry.
type System interface {
	Handler() *Handler

	// Sync ensures a record exists for claim.UID, creating it on first sight.
	// created reports whether this call inserted the record. Existing records
	// are returned unchanged.
	Sync(ctx context.Context, claim *auth.Claim) (user *User, created bool, err error)

	Find(ctx context.Context, id string) (*User, error)
}
