// Package common defines shared constants and sentinel errors used across
// the diary server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Validation errors (client-supplied data violates a field constraint).
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors.
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Diary errors.
	ErrNoMessages = errors.New("no messages for the requested date")

	// Upstream generation failure. Recovered inside the services via a
	// deterministic local fallback; never returned to callers.
	ErrGenerationUnavailable = errors.New("generation unavailable")
)
