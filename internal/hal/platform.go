package hal

// Platform is the digital I/O boundary used by the control loop.
//
// Read and Write are infallible once the line has been configured: the loop
// has no runtime failure path, so implementations must absorb transient
// errors themselves.
type Platform interface {
	// IsReady reports whether the endpoint behind line is present and usable.
	IsReady(line Line) bool

	// ConfigureOutput sets line up as an output driven to initial.
	ConfigureOutput(line Line, initial bool) error

	// ConfigureInput sets line up as an input.
	ConfigureInput(line Line) error

	// Read returns the logical (active-high) state of an input line.
	Read(line Line) bool

	// Write drives an output line to the logical state active.
	Write(line Line, active bool)
}

// Clock is a monotonic millisecond time source with a blocking sleep.
type Clock interface {
	// NowMS returns milliseconds since an arbitrary fixed origin.
	// The value never decreases.
	NowMS() int64

	// SleepMS blocks the caller for ms milliseconds.
	SleepMS(ms int64)
}

// InputSetter drives simulated input lines. SimPlatform implements it.
type InputSetter interface {
	SetInput(line Line, active bool) error
}
