package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anlupatov/snaproom/internal/model"
)

const viewerKey = "snaproom.viewer"

// setViewer stores the authenticated viewer in the request context.
func setViewer(c *gin.Context, v model.Viewer) {
	c.Set(viewerKey, v)
}

// viewerFrom fetches the viewer stored by the auth middleware.
func viewerFrom(c *gin.Context) (model.Viewer, bool) {
	raw, ok := c.Get(viewerKey)
	if !ok {
		return model.Viewer{}, false
	}
	v, ok := raw.(model.Viewer)
	return v, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Empty string when the header is absent or malformed.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
