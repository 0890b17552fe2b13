package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
)

// Inline keeps the encoded payload inside the photo record itself.
// Sources are capped because the payload travels with every record read.
type Inline struct {
	cap int64
}

// DefaultInlineCap is the maximum source file size accepted in inline mode.
const DefaultInlineCap int64 = 750 * 1024

// NewInline constructs the inline strategy. A non-positive cap falls back
// to DefaultInlineCap.
func NewInline(capBytes int64) *Inline {
	if capBytes <= 0 {
		capBytes = DefaultInlineCap
	}
	return &Inline{cap: capBytes}
}

// InlineCap returns the source size cap.
func (s *Inline) InlineCap() int64 { return s.cap }

// Stage embeds the payload. Thumbnails are derived on demand, not stored.
func (s *Inline) Stage(_ context.Context, _ uuid.UUID, upload model.Upload, _ []byte) (Placement, error) {
	return Placement{Inline: upload.Data}, nil
}

// Discard is a no-op: nothing exists outside the (never written) row.
func (s *Inline) Discard(context.Context, Placement) {}

// Payload returns the embedded bytes.
func (s *Inline) Payload(_ context.Context, photo *model.Photo) ([]byte, error) {
	if len(photo.InlineData) == 0 {
		return nil, errs.ErrNotFound
	}
	return photo.InlineData, nil
}

// Thumbnail reports not-found; the caller derives thumbnails from the payload.
func (s *Inline) Thumbnail(context.Context, *model.Photo) ([]byte, error) {
	return nil, errs.ErrNotFound
}
