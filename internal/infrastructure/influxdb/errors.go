package influxdb

import "errors"

var (
	// ErrConnectionFailed is returned when the server does not answer the startup ping.
	ErrConnectionFailed = errors.New("influxdb: connection failed")

	// ErrUnhealthy is returned by HealthCheck when a ping fails after startup.
	ErrUnhealthy = errors.New("influxdb: unhealthy")

	// ErrClosed is returned by HealthCheck after Close.
	ErrClosed = errors.New("influxdb: client closed")
)
