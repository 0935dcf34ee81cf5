package mqtt

import "errors"

var (
	// ErrNotConnected is returned while the broker connection is down.
	ErrNotConnected = errors.New("mqtt: not connected")

	// ErrConnectionFailed is returned when Connect cannot reach the broker.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed wraps marshal, timeout and broker errors from PublishJSON.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed wraps invalid arguments and broker errors from Subscribe.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrAlreadySubscribed is returned when the command route is already bound.
	ErrAlreadySubscribed = errors.New("mqtt: command subscription already bound")
)
