package delivery

import "errors"

// Sentinel errors for the delivery workflow. Handlers map these to HTTP
// status codes with errors.Is; everything else is treated as a dependency
// failure.
var (
	ErrValidation        = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrEmptyManifest     = errors.New("no artworks provided")
	ErrDependency        = errors.New("dependency failure")
)
