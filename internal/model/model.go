// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// ReactionAction is a viewer's like/dislike state for a photo.
// The empty string means "no active reaction".
type ReactionAction string

const (
	ReactionNone    ReactionAction = ""
	ReactionLike    ReactionAction = "like"
	ReactionDislike ReactionAction = "dislike"
)

// Valid reports whether the action is one of the two settable reactions.
// ReactionNone is a stored state, not a client-settable action.
func (a ReactionAction) Valid() bool {
	return a == ReactionLike || a == ReactionDislike
}

// Room is a named shared space containing photos, optionally secret-gated.
type Room struct {
	ID         uuid.UUID
	Name       string
	IsPrivate  bool
	SecretHash []byte // argon2id(secret, SecretSalt); nil for public rooms
	SecretSalt []byte // per-room salt; nil for public rooms
	PhotoCount int64  // denormalized cache of the photo collection size; never decremented
	CreatedAt  time.Time
}

// Photo is one uploaded image record with metadata and aggregate reaction counts.
// Exactly one of InlineData / BlobRef is set, depending on the storage mode
// the server runs in.
type Photo struct {
	ID           uuid.UUID
	RoomID       uuid.UUID
	Name         string // original filename, not unique within a room
	Uploader     string
	MimeType     string
	SizeBytes    int64
	InlineData   []byte // encoded payload stored in the record (inline mode)
	BlobRef      string // blob store reference (disk/object mode)
	ThumbRef     string
	LikeCount    int
	DislikeCount int
	UploadedAt   time.Time

	// ViewerAction is the requesting viewer's active reaction, resolved
	// per listing. Not a column of the photo itself.
	ViewerAction ReactionAction
}

// Upload is a single staged file within an upload batch.
type Upload struct {
	Name     string
	MimeType string
	Data     []byte
}

// ReactionResult reports the photo's aggregates after a reaction transition.
// RoomID identifies the photo's room for event routing.
type ReactionResult struct {
	RoomID       uuid.UUID
	LikeCount    int
	DislikeCount int
	ViewerAction ReactionAction
}

// Viewer is a guest identity issued by the server. There are no accounts;
// the ID is generated per session and the name is chosen by the user.
type Viewer struct {
	ID   uuid.UUID
	Name string
}

// RoomEvent is pushed to websocket subscribers of a room.
type RoomEvent struct {
	Type    string      `json:"type"` // "photo.added" or "reaction.updated"
	RoomID  uuid.UUID   `json:"roomId"`
	PhotoID uuid.UUID   `json:"photoId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}
