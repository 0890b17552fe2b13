package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/hub"
	"github.com/anlupatov/snaproom/internal/model"
	"github.com/anlupatov/snaproom/internal/service"
)

// uploadField is the multipart form field carrying the image files.
const uploadField = "photos"

// listPhotos returns a room's photos newest-first. The viewer's own reaction
// is resolved when a session token was presented.
func (s *Server) listPhotos(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, err := s.rooms.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	if !s.guardRoom(c, room) {
		return
	}

	viewerID := uuid.Nil
	if viewer, ok := viewerFrom(c); ok {
		viewerID = viewer.ID
	}
	photos, err := s.photos.List(c.Request.Context(), room.ID, viewerID)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": toPhotoResponses(photos)})
}

// uploadPhotos stores a multipart batch of images. The batch is
// all-or-nothing; on success one photo.added event per photo is published
// to the room's subscribers.
func (s *Server) uploadPhotos(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, err := s.rooms.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	if !s.guardRoom(c, room) {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)
	form, err := c.MultipartForm()
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(c, s.log, fmt.Errorf("request exceeds %d bytes: %w", s.maxUploadBytes, errs.ErrPayloadTooLarge))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files := form.File[uploadField]
	uploads := make([]model.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(c, s.log, err)
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeError(c, s.log, err)
			return
		}
		uploads = append(uploads, model.Upload{Name: fh.Filename, Data: data})
	}

	uploader := service.AnonymousUploader
	if viewer, ok := viewerFrom(c); ok {
		uploader = viewer.Name
	}
	photos, err := s.photos.Add(c.Request.Context(), room.ID, uploads, uploader)
	if err != nil {
		writeError(c, s.log, err)
		return
	}

	for i := range photos {
		s.events.Publish(model.RoomEvent{
			Type:    hub.EventPhotoAdded,
			RoomID:  room.ID,
			PhotoID: photos[i].ID,
			Data:    toPhotoResponse(&photos[i]),
		})
	}
	c.JSON(http.StatusCreated, gin.H{"photos": toPhotoResponses(photos)})
}

type reactionRequest struct {
	Action string `json:"action"`
}

// setReaction applies a like/dislike transition for the authenticated viewer
// and broadcasts the new counts to the room.
func (s *Server) setReaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	viewer, ok := viewerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid session"})
		return
	}
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := s.photos.React(c.Request.Context(), id, viewer.ID, model.ReactionAction(req.Action))
	if err != nil {
		writeError(c, s.log, err)
		return
	}

	s.events.Publish(model.RoomEvent{
		Type:    hub.EventReactionUpdated,
		RoomID:  res.RoomID,
		PhotoID: id,
		Data:    toReactionResponse(res),
	})
	c.JSON(http.StatusOK, toReactionResponse(res))
}

// photoFile streams the full-size payload with its original MIME type.
func (s *Server) photoFile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	photo, data, err := s.photos.Payload(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	if !s.guardPhotoRoom(c, photo) {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", photo.Name))
	c.Data(http.StatusOK, photo.MimeType, data)
}

// photoThumbnail streams the JPEG thumbnail, derived on the fly when the
// storage mode keeps none.
func (s *Server) photoThumbnail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	photo, tb, err := s.photos.Thumbnail(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	if !s.guardPhotoRoom(c, photo) {
		return
	}
	c.Data(http.StatusOK, "image/jpeg", tb)
}

// guardPhotoRoom applies the room gate to a photo endpoint.
func (s *Server) guardPhotoRoom(c *gin.Context, photo *model.Photo) bool {
	room, err := s.rooms.Get(c.Request.Context(), photo.RoomID)
	if err != nil {
		writeError(c, s.log, err)
		return false
	}
	return s.guardRoom(c, room)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Rooms are link-shared across origins; the gate is the room token.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// roomEvents subscribes the connection to a room's event stream over a
// websocket. Private rooms require the access token as a query parameter.
func (s *Server) roomEvents(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, err := s.rooms.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	if !s.guardRoom(c, room) {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("websocket upgrade", zap.Error(err))
		return
	}
	client := hub.NewClient(s.events, conn, room.ID)
	go client.WritePump()
	client.ReadPump()
}
