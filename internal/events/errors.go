package events

import "errors"

// Domain errors for the events package.
var (
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("events: dispatcher already running")

	// ErrSinkPanic wraps a recovered sink panic.
	ErrSinkPanic = errors.New("events: sink panicked")
)
