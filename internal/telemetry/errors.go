package telemetry

import "errors"

// Domain errors for the telemetry package.
var (
	// ErrUnknownTopic is returned for a message on a topic the handler does not own.
	ErrUnknownTopic = errors.New("telemetry: unknown topic")

	// ErrInvalidPayload is returned when a command payload cannot be decoded.
	ErrInvalidPayload = errors.New("telemetry: invalid payload")
)
