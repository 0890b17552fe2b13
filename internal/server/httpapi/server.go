// Package httpapi exposes the photo room HTTP/JSON API handlers.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/hub"
	"github.com/anlupatov/snaproom/internal/model"
	"github.com/anlupatov/snaproom/internal/service"
)

// DefaultMaxUploadBytes bounds a whole multipart upload request.
const DefaultMaxUploadBytes = 64 << 20

// Server wires services into HTTP handlers.
type Server struct {
	rooms   service.RoomService
	photos  service.PhotoService
	viewers service.ViewerService
	events  *hub.Hub
	log     *zap.Logger

	maxUploadBytes int64
}

// New constructs a server with injected services.
func New(rooms service.RoomService, photos service.PhotoService, viewers service.ViewerService, events *hub.Hub, log *zap.Logger, maxUploadBytes int64) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{rooms: rooms, photos: photos, viewers: viewers, events: events, log: log, maxUploadBytes: maxUploadBytes}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(Recover(s.log), Logging(s.log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/session", s.createSession)

	api.GET("/rooms", s.listRooms)
	api.POST("/rooms", s.requireViewer(), s.createRoom)
	api.GET("/rooms/:id", s.getRoom)
	api.POST("/rooms/:id/access", s.checkAccess)
	api.GET("/rooms/:id/photos", s.optionalViewer(), s.listPhotos)
	api.POST("/rooms/:id/photos", s.requireViewer(), s.uploadPhotos)
	api.GET("/rooms/:id/events", s.roomEvents)

	api.POST("/photos/:id/reaction", s.requireViewer(), s.setReaction)
	api.GET("/photos/:id/file", s.photoFile)
	api.GET("/photos/:id/thumbnail", s.photoThumbnail)

	return r
}

type sessionRequest struct {
	Name string `json:"name"`
}

type sessionResponse struct {
	Token  string `json:"token"`
	Viewer struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"viewer"`
}

// createSession issues a fresh guest viewer identity. There are no accounts;
// the token is the whole identity.
func (s *Server) createSession(c *gin.Context) {
	var req sessionRequest
	// an empty body is a valid anonymous session request
	_ = c.ShouldBindJSON(&req)

	token, viewer, err := s.viewers.Issue(req.Name)
	if err != nil {
		writeError(c, s.log, err)
		return
	}

	var resp sessionResponse
	resp.Token = token
	resp.Viewer.ID = viewer.ID.String()
	resp.Viewer.Name = viewer.Name
	c.JSON(http.StatusOK, resp)
}

// pathID parses the ":id" route parameter. A malformed ID reads as 404, not
// 400: the URL simply names nothing.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil || id == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

// roomToken extracts the room access token. Browsers cannot set headers on
// websocket or <img> requests, so a query parameter is accepted too.
func roomToken(c *gin.Context) string {
	if tok := c.GetHeader("X-Room-Token"); tok != "" {
		return tok
	}
	return c.Query("access_token")
}

// guardRoom enforces the secret gate on private rooms. Public rooms always
// pass. Returns false after writing the error response.
func (s *Server) guardRoom(c *gin.Context, room *model.Room) bool {
	if !room.IsPrivate {
		return true
	}
	if err := s.rooms.VerifyAccessToken(roomToken(c), room.ID); err != nil {
		writeError(c, s.log, errs.ErrAccessDenied)
		return false
	}
	return true
}
