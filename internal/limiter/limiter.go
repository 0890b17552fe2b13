// Package limiter defines interfaces and implementations for rate limiting
// secret attempts on private rooms.
package limiter

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Limiter controls secret attempts and temporary lockouts per (room, client).
type Limiter interface {
	// Allow reports whether an attempt is currently allowed and optional retry-after.
	Allow(ctx context.Context, roomID uuid.UUID, ipHash []byte) (bool, time.Duration, error)
	// Success resets counters after a correct secret.
	Success(ctx context.Context, roomID uuid.UUID, ipHash []byte) error
	// Failure records a wrong secret; may place a temporary block.
	Failure(ctx context.Context, roomID uuid.UUID, ipHash []byte) (bool, time.Duration, error)
}
