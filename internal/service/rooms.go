// Package service contains application services for rooms, photos and viewers.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/anlupatov/snaproom/internal/crypto"
	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/limiter"
	"github.com/anlupatov/snaproom/internal/model"
	"github.com/anlupatov/snaproom/internal/repository"
)

// RoomService defines room creation, lookup and secret-gated access.
type RoomService interface {
	// Create validates input and stores a new room with a zero photo counter.
	Create(ctx context.Context, name string, isPrivate bool, secret string) (*model.Room, error)
	// Get loads a room by ID.
	Get(ctx context.Context, id uuid.UUID) (*model.Room, error)
	// List returns all rooms, newest first.
	List(ctx context.Context) ([]model.Room, error)
	// CheckAccess verifies a secret attempt with rate limiting and returns
	// a short-lived access token on success.
	CheckAccess(ctx context.Context, room *model.Room, attempt string, clientIP string) (string, error)
	// VerifyAccessToken checks a previously issued access token for a room.
	VerifyAccessToken(token string, roomID uuid.UUID) error
}

type RoomServiceImpl struct {
	rooms     repository.RoomRepository
	lim       limiter.Limiter
	signKey   []byte
	accessTTL time.Duration
}

// NewRoomService constructs RoomService with required dependencies.
func NewRoomService(rooms repository.RoomRepository, lim limiter.Limiter, signKey []byte, accessTTL time.Duration) *RoomServiceImpl {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &RoomServiceImpl{rooms: rooms, lim: lim, signKey: signKey, accessTTL: accessTTL}
}

// Create validates the name/secret combination and stores the room.
// The secret is hashed with a per-room salt; it is never stored verbatim.
func (s *RoomServiceImpl) Create(ctx context.Context, name string, isPrivate bool, secret string) (*model.Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("empty room name: %w", errs.ErrValidation)
	}
	if isPrivate && secret == "" {
		return nil, fmt.Errorf("private room requires a secret: %w", errs.ErrValidation)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	room := &model.Room{ID: id, Name: name, IsPrivate: isPrivate}
	if isPrivate {
		salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
		if err != nil {
			return nil, err
		}
		room.SecretSalt = salt
		room.SecretHash = pkgcrypto.HashSecret([]byte(secret), salt)
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Get loads a room by ID.
func (s *RoomServiceImpl) Get(ctx context.Context, id uuid.UUID) (*model.Room, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("empty room id: %w", errs.ErrValidation)
	}
	return s.rooms.GetByID(ctx, id)
}

// List returns all rooms, newest first.
func (s *RoomServiceImpl) List(ctx context.Context) ([]model.Room, error) {
	return s.rooms.List(ctx)
}

// CheckAccess grants access to public rooms unconditionally. For private
// rooms the attempt is verified against the stored hash (verbatim, case
// sensitive) under a per-(room, IP) rate limit, and a short-lived access
// token is issued so the secret is not re-sent with every request.
func (s *RoomServiceImpl) CheckAccess(ctx context.Context, room *model.Room, attempt string, clientIP string) (string, error) {
	if room == nil {
		return "", errs.ErrNotFound
	}
	if !room.IsPrivate {
		return s.issueAccessToken(room.ID)
	}

	ipHash := limiter.HashIP(clientIP)
	allowed, _, err := s.lim.Allow(ctx, room.ID, ipHash)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", errs.ErrRateLimited
	}

	if !pkgcrypto.VerifySecret([]byte(attempt), room.SecretSalt, room.SecretHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, room.ID, ipHash); ferr == nil && blocked {
			return "", errs.ErrRateLimited
		}
		return "", errs.ErrAccessDenied
	}

	// best-effort counter reset
	_ = s.lim.Success(ctx, room.ID, ipHash)
	return s.issueAccessToken(room.ID)
}

const roomAudience = "room-access"

// issueAccessToken creates a signed HS256 JWT scoped to one room.
func (s *RoomServiceImpl) issueAccessToken(roomID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   roomID.String(),
		Audience:  jwt.ClaimStrings{roomAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}

// VerifyAccessToken checks signature, expiry and room binding of a token.
func (s *RoomServiceImpl) VerifyAccessToken(token string, roomID uuid.UUID) error {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	}, jwt.WithAudience(roomAudience))
	if err != nil || !parsed.Valid {
		return errs.ErrAccessDenied
	}
	if claims.Subject != roomID.String() {
		return errs.ErrAccessDenied
	}
	return nil
}
