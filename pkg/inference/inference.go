// Package inference abstracts a hosted generative model that accepts mixed
// text and binary prompt parts and returns text.
package inference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrEmptyResponse indicates the model returned no text.
	ErrEmptyResponse = errors.New("model returned empty response")
	// ErrBlocked indicates the provider refused the prompt.
	ErrBlocked = errors.New("prompt blocked by provider")
)

// Part is one element of a prompt: either text or an inline binary payload.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

// Text returns a text part.
func Text(s string) Part {
	return Part{Text: s}
}

// Blob returns an inline binary part tagged with mimeType.
func Blob(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// IsBlob reports whether p carries binary data.
func (p Part) IsBlob() bool {
	return p.MIMEType != ""
}

// Request is a single generation call. Parts are sent in order as one user turn.
type Request struct {
	System           string
	Parts            []Part
	ResponseMIMEType string
}

// Model generates text from a prompt.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// New creates the Model named by cfg.Provider.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (Model, error) {
	switch cfg.Provider {
	case ProviderGemini:
		return newGemini(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", cfg.Provider)
	}
}
