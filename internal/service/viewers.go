package service

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
)

// ViewerService issues and verifies guest viewer identities. There is no
// account system: a viewer is a generated ID plus a chosen display name,
// carried in a signed token for the lifetime of the session.
type ViewerService interface {
	// Issue creates a fresh viewer and its signed session token.
	Issue(name string) (string, model.Viewer, error)
	// Parse validates a session token and returns its viewer.
	Parse(token string) (model.Viewer, error)
}

type viewerClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type ViewerServiceImpl struct {
	signKey    []byte
	sessionTTL time.Duration
}

// NewViewerService constructs ViewerService.
func NewViewerService(signKey []byte, sessionTTL time.Duration) *ViewerServiceImpl {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &ViewerServiceImpl{signKey: signKey, sessionTTL: sessionTTL}
}

const viewerAudience = "viewer-session"

// Issue creates a viewer with a generated ID and signs it into an HS256 JWT.
func (s *ViewerServiceImpl) Issue(name string) (string, model.Viewer, error) {
	if name == "" {
		name = AnonymousUploader
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", model.Viewer{}, err
	}

	now := time.Now()
	claims := viewerClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			Audience:  jwt.ClaimStrings{viewerAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return "", model.Viewer{}, err
	}
	return signed, model.Viewer{ID: id, Name: name}, nil
}

// Parse validates signature, expiry and audience, and extracts the viewer.
func (s *ViewerServiceImpl) Parse(token string) (model.Viewer, error) {
	var claims viewerClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	}, jwt.WithAudience(viewerAudience))
	if err != nil || !parsed.Valid {
		return model.Viewer{}, errs.ErrUnauthorized
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return model.Viewer{}, errs.ErrUnauthorized
	}
	name := claims.Name
	if name == "" {
		name = AnonymousUploader
	}
	return model.Viewer{ID: id, Name: name}, nil
}
