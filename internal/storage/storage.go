// Package storage selects where photo payloads live: inline in the photo
// record or as files behind a blob reference. Both modes sit behind one
// interface so the rest of the system never branches on deployment.
package storage

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/anlupatov/snaproom/internal/model"
)

// Placement reports where a staged payload ended up. Exactly one of
// Inline / BlobRef is set.
type Placement struct {
	Inline   []byte
	BlobRef  string
	ThumbRef string
}

// Strategy stages photo payloads according to the deployment mode.
type Strategy interface {
	// InlineCap returns the maximum accepted source size in bytes,
	// or 0 when the mode has no inline cap.
	InlineCap() int64

	// Stage persists the payload (and thumbnail, where the mode stores
	// one) before the database row exists.
	Stage(ctx context.Context, photoID uuid.UUID, upload model.Upload, thumb []byte) (Placement, error)

	// Discard removes staged artifacts after a failed batch. Best effort.
	Discard(ctx context.Context, p Placement)

	// Payload returns the photo's bytes for download.
	Payload(ctx context.Context, photo *model.Photo) ([]byte, error)

	// Thumbnail returns the stored thumbnail bytes, or errs.ErrNotFound
	// when the mode keeps none and the caller must derive it.
	Thumbnail(ctx context.Context, photo *model.Photo) ([]byte, error)
}
