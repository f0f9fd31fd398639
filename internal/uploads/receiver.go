// Package uploads accepts the master/candidate multipart submission and keeps
// the files in transient storage for the lifetime of one request.
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/redline/pkg/formatting"
	"github.com/JaimeStill/redline/pkg/storage"
)

const maxMemory = 32 << 20

// System receives analysis uploads.
type System interface {
	// Receive stores the master and candidate parts of r and returns them as a
	// Batch. On error nothing remains in storage.
	Receive(ctx context.Context, r *http.Request) (*Batch, error)
}

type receiver struct {
	store         storage.System
	logger        *slog.Logger
	maxUploadSize int64
	stamps        stamper
}

// New creates an upload System that stores files in store and rejects
// request bodies larger than maxUploadSize bytes.
func New(store storage.System, logger *slog.Logger, maxUploadSize int64) System {
	return &receiver{
		store:         store,
		logger:        logger.With("system", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

func (rc *receiver) Receive(ctx context.Context, r *http.Request) (*Batch, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, rc.maxUploadSize)

	if err := r.ParseMultipartForm(min(maxMemory, rc.maxUploadSize)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit %s", ErrFileTooLarge, formatting.FormatBytes(tooLarge.Limit, 0))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidForm, err)
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File
	master, candidate := files[FieldMaster], files[FieldCandidate]
	if len(master) == 0 || len(candidate) == 0 {
		return nil, ErrMissingFiles
	}
	if len(master) > 1 || len(candidate) > 1 {
		return nil, ErrUnexpectedFile
	}

	batch := &Batch{store: rc.store, logger: rc.logger}

	for _, part := range []struct {
		field  string
		header *multipart.FileHeader
	}{
		{FieldMaster, master[0]},
		{FieldCandidate, candidate[0]},
	} {
		h, err := rc.storeFile(ctx, part.field, part.header)
		if err != nil {
			if rerr := batch.Release(context.WithoutCancel(ctx)); rerr != nil {
				rc.logger.Error("release after failed upload", "error", rerr)
			}
			return nil, err
		}
		batch.set(h)
	}

	return batch, nil
}

func (rc *receiver) storeFile(ctx context.Context, field string, fh *multipart.FileHeader) (*Handle, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrInvalidForm, field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidForm, field, err)
	}

	stored := fmt.Sprintf("%d-%s", rc.stamps.next(), Sanitize(fh.Filename))
	h := &Handle{
		Field:        field,
		OriginalName: fh.Filename,
		StoredName:   stored,
		Key:          keyPrefix + stored,
		Size:         int64(len(data)),
		ContentType:  detectContentType(fh.Header.Get("Content-Type"), data),
	}
	h.PageCount = pdfPageCount(rc.logger, data, h.ContentType)

	if err := rc.store.Upload(ctx, h.Key, bytes.NewReader(data), h.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrStorageFault, h.Key, err)
	}

	rc.logger.Info(
		"upload stored",
		"field", field,
		"key", h.Key,
		"size", h.Size,
		"pages", h.PageCount,
	)

	return h, nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

// pdfPageCount is informational only; a payload that fails to parse is still accepted.
func pdfPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" && !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}
	return &count
}
