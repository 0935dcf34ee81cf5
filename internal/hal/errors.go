package hal

import "errors"

// Domain-specific errors for platform operations.
var (
	// ErrUnknownLine is returned when a line name is not one of the eight
	// lines the controller knows about.
	ErrUnknownLine = errors.New("hal: unknown line")

	// ErrPinNotFound is returned when a configured GPIO pin name cannot be
	// resolved by the host driver registry.
	ErrPinNotFound = errors.New("hal: pin not found")

	// ErrHostInit is returned when the periph.io host drivers fail to load.
	ErrHostInit = errors.New("hal: host initialisation failed")

	// ErrNotConfigured is returned when a line is used before it was
	// configured for the required direction.
	ErrNotConfigured = errors.New("hal: line not configured")

	// ErrInjected is the error returned by SimPlatform when a configuration
	// fault has been injected for a line.
	ErrInjected = errors.New("hal: injected fault")
)
