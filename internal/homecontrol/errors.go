package homecontrol

import "errors"

// Domain-specific errors for the control loop.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrHardwareNotReady is returned by Init when an endpoint fails its
	// readiness check. It is fatal: the loop must not start.
	ErrHardwareNotReady = errors.New("homecontrol: hardware not ready")

	// ErrConfigurationFailed is returned by Init when a line cannot be
	// configured. It is fatal: the loop must not start.
	ErrConfigurationFailed = errors.New("homecontrol: configuration failed")

	// ErrNotInitialised is returned by Run when Init has not succeeded.
	ErrNotInitialised = errors.New("homecontrol: controller not initialised")
)
