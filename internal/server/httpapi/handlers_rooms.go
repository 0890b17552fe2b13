package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createRoomRequest struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
	Secret    string `json:"secret"`
}

// createRoom stores a new room. The secret, when present, is hashed by the
// service and never echoed back.
func (s *Server) createRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	room, err := s.rooms.Create(c.Request.Context(), req.Name, req.IsPrivate, req.Secret)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusCreated, toRoomResponse(room))
}

// listRooms returns all rooms, newest first.
func (s *Server) listRooms(c *gin.Context) {
	rooms, err := s.rooms.List(c.Request.Context())
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": toRoomResponses(rooms)})
}

// getRoom returns one room's public summary. Visible without the secret so
// a viewer knows the room exists and is gated.
func (s *Server) getRoom(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	room, err := s.rooms.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(room))
}

type accessRequest struct {
	Secret string `json:"secret"`
}

type accessResponse struct {
	Token string `json:"token"`
}

// checkAccess verifies a secret attempt and returns a room access token.
// The attempt is passed through verbatim; matching is exact.
func (s *Server) checkAccess(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req accessRequest
	// public rooms need no secret, so an empty body is fine
	_ = c.ShouldBindJSON(&req)

	room, err := s.rooms.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	token, err := s.rooms.CheckAccess(c.Request.Context(), room, req.Secret, c.ClientIP())
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, accessResponse{Token: token})
}
