package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/JaimeStill/redline/pkg/storage"
)

// Form part names.
const (
	FieldMaster    = "master"
	FieldCandidate = "candidate"
)

// Handle describes one stored upload.
type Handle struct {
	Field        string `json:"field"`
	OriginalName string `json:"original_name"`
	StoredName   string `json:"stored_name"`
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
	PageCount    *int   `json:"page_count,omitempty"`
}

// Batch is the master/candidate pair stored for one analysis request.
// Release must be called once the batch is no longer needed.
type Batch struct {
	Master    *Handle
	Candidate *Handle

	store    storage.System
	logger   *slog.Logger
	mu       sync.Mutex
	released bool
}

// Handles returns the stored handles in submission order.
func (b *Batch) Handles() []*Handle {
	out := make([]*Handle, 0, 2)
	if b.Master != nil {
		out = append(out, b.Master)
	}
	if b.Candidate != nil {
		out = append(out, b.Candidate)
	}
	return out
}

// Read returns the full contents of h.
func (b *Batch) Read(ctx context.Context, h *Handle) ([]byte, error) {
	rc, err := b.store.Download(ctx, h.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStorageFault, h.StoredName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorageFault, h.StoredName, err)
	}
	return data, nil
}

// Release deletes every stored object in the batch. Objects already gone
// are ignored. Calling Release more than once is a no-op.
func (b *Batch) Release(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return nil
	}
	b.released = true

	var errs []error
	for _, h := range b.Handles() {
		err := b.store.Delete(ctx, h.Key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", h.Key, err))
			continue
		}
		b.logger.Debug("upload released", "key", h.Key)
	}
	return errors.Join(errs...)
}

func (b *Batch) set(h *Handle) {
	switch h.Field {
	case FieldMaster:
		b.Master = h
	case FieldCandidate:
		b.Candidate = h
	}
}
