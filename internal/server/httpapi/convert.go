package httpapi

import (
	"time"

	"github.com/anlupatov/snaproom/internal/model"
)

// roomResponse is the public view of a room. Secret material never leaves
// the server.
type roomResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsPrivate  bool      `json:"isPrivate"`
	PhotoCount int64     `json:"photoCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toRoomResponse(r *model.Room) roomResponse {
	return roomResponse{
		ID:         r.ID.String(),
		Name:       r.Name,
		IsPrivate:  r.IsPrivate,
		PhotoCount: r.PhotoCount,
		CreatedAt:  r.CreatedAt,
	}
}

func toRoomResponses(rooms []model.Room) []roomResponse {
	out := make([]roomResponse, len(rooms))
	for i := range rooms {
		out[i] = toRoomResponse(&rooms[i])
	}
	return out
}

// photoResponse carries photo metadata; payload bytes are served by the
// file and thumbnail endpoints.
type photoResponse struct {
	ID           string    `json:"id"`
	RoomID       string    `json:"roomId"`
	Name         string    `json:"name"`
	Uploader     string    `json:"uploader"`
	MimeType     string    `json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	LikeCount    int       `json:"likeCount"`
	DislikeCount int       `json:"dislikeCount"`
	ViewerAction string    `json:"viewerAction,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

func toPhotoResponse(p *model.Photo) photoResponse {
	return photoResponse{
		ID:           p.ID.String(),
		RoomID:       p.RoomID.String(),
		Name:         p.Name,
		Uploader:     p.Uploader,
		MimeType:     p.MimeType,
		SizeBytes:    p.SizeBytes,
		LikeCount:    p.LikeCount,
		DislikeCount: p.DislikeCount,
		ViewerAction: string(p.ViewerAction),
		UploadedAt:   p.UploadedAt,
	}
}

func toPhotoResponses(photos []model.Photo) []photoResponse {
	out := make([]photoResponse, len(photos))
	for i := range photos {
		out[i] = toPhotoResponse(&photos[i])
	}
	return out
}

// reactionResponse reports the aggregates after a reaction transition.
type reactionResponse struct {
	LikeCount    int    `json:"likeCount"`
	DislikeCount int    `json:"dislikeCount"`
	ViewerAction string `json:"viewerAction"`
}

func toReactionResponse(res model.ReactionResult) reactionResponse {
	return reactionResponse{
		LikeCount:    res.LikeCount,
		DislikeCount: res.DislikeCount,
		ViewerAction: string(res.ViewerAction),
	}
}
