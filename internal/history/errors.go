package history

import "errors"

// Domain errors for the history package.
var (
	// ErrSessionRequired is returned when an event is recorded without a session id.
	ErrSessionRequired = errors.New("history: session id is required")

	// ErrInvalidRetention is returned when Prune is called with a non-positive duration.
	ErrInvalidRetention = errors.New("history: retention must be positive")
)
