package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/anlupatov/snaproom/internal/model"
)

// PhotoRepository provides access to photos and per-viewer reactions.
type PhotoRepository interface {
	// AddBatch inserts all photos and bumps the room's photo counter by
	// the batch size in a single transaction. A failed batch inserts nothing.
	AddBatch(ctx context.Context, roomID uuid.UUID, photos []*model.Photo) error

	// ListByRoom returns a room's photos ordered by upload time, newest
	// first, with the viewer's active reaction resolved per photo.
	// Malformed rows are skipped, not fatal; photos without an upload
	// timestamp get a "now" fallback.
	ListByRoom(ctx context.Context, roomID, viewerID uuid.UUID) ([]model.Photo, error)

	// GetByID loads a single photo including its payload.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error)

	// SetReaction applies the three-way reaction transition (create,
	// toggle-off, or swap) for (photo, viewer) atomically with the
	// denormalized counters, and returns the resulting state.
	SetReaction(ctx context.Context, photoID, viewerID uuid.UUID, action model.ReactionAction) (model.ReactionResult, error)
}
