package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
)

// RoomRepo implements RoomRepository using PostgreSQL.
type RoomRepo struct{ db *DB }

// NewRoomRepo constructs a room repository.
func NewRoomRepo(db *DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a new room row with a zero photo counter and reads the
// store-assigned creation timestamp back into the model.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const q = `
INSERT INTO rooms (id, name, is_private, secret_hash, secret_salt, photo_count, created_at)
VALUES ($1, $2, $3, $4, $5, 0, now())
RETURNING created_at`
	err := r.db.Pool.QueryRow(ctx, q, room.ID, room.Name, room.IsPrivate, room.SecretHash, room.SecretSalt).Scan(&room.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a room by ID.
func (r *RoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	const q = `
SELECT id, name, is_private, secret_hash, secret_salt, photo_count, created_at
FROM rooms WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var room model.Room
	if err := row.Scan(&room.ID, &room.Name, &room.IsPrivate, &room.SecretHash, &room.SecretSalt, &room.PhotoCount, &room.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List selects all rooms, newest first.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	const q = `
SELECT id, name, is_private, secret_hash, secret_salt, photo_count, created_at
FROM rooms ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.Name, &room.IsPrivate, &room.SecretHash, &room.SecretSalt, &room.PhotoCount, &room.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}
