// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/anlupatov/snaproom/internal/model"
)

// RoomRepository provides CRUD access for rooms.
type RoomRepository interface {
	// Create inserts a new room with photo_count = 0.
	Create(ctx context.Context, room *model.Room) error
	// GetByID loads a room by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error)
	// List returns all rooms ordered by creation time, newest first.
	List(ctx context.Context) ([]model.Room, error)
}
