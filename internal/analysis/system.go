// Package analysis submits a master/candidate contract pair to a generative
// model and returns the validated conflict report.
package analysis

import (
	"context"

	"github.com/JaimeStill/redline/internal/uploads"
)

// System defines the contract analysis interface.
type System interface {
	Handler(up uploads.System) *Handler
	// Analyze compares the batch's candidate contract against its master
	// agreement. No retries are attempted and results are never cached.
	Analyze(ctx context.Context, batch *uploads.Batch) (*Envelope, error)
}
