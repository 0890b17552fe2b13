// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates rejected input (empty name, missing secret, bad action).
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates a missing or invalid viewer session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAccessDenied indicates a failed secret check on a private room.
	ErrAccessDenied = errors.New("access denied")

	// ErrPayloadTooLarge indicates an upload exceeding the inline payload cap.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrRateLimited indicates a temporary lock after repeated failed secret attempts.
	ErrRateLimited = errors.New("rate limited")

	// ErrAlreadyExists indicates a unique constraint violation.
	ErrAlreadyExists = errors.New("already exists")
)
