package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
)

// DefaultBufferSize is the channel capacity when none is configured.
const DefaultBufferSize = 256

// Sink consumes control-loop events.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string

	// Handle processes one event. Errors are logged by the dispatcher.
	Handle(ctx context.Context, ev homecontrol.Event) error
}

// Logger interface for optional logging support.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Dispatcher buffers events and delivers them to sinks.
//
// Thread Safety:
//   - Publish, AddSink and Dropped are safe for concurrent use.
//   - Run must be called once.
type Dispatcher struct {
	queue   chan homecontrol.Event
	dropped atomic.Uint64
	running atomic.Bool

	mu     sync.RWMutex
	sinks  []Sink
	logger Logger
}

// NewDispatcher creates a dispatcher with the given buffer size.
// A size of zero or less uses DefaultBufferSize.
func NewDispatcher(bufferSize int) *Dispatcher {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Dispatcher{
		queue:  make(chan homecontrol.Event, bufferSize),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for delivery failures.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if logger == nil {
		d.logger = noopLogger{}
		return
	}
	d.logger = logger
}

// AddSink registers a sink. Sinks receive events in registration order.
func (d *Dispatcher) AddSink(sink Sink) {
	if sink == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sinks = append(d.sinks, sink)
}

// Publish enqueues an event without blocking. It implements
// homecontrol.Emitter.
func (d *Dispatcher) Publish(ev homecontrol.Event) {
	select {
	case d.queue <- ev:
	default:
		d.dropped.Add(1)
	}
}

// Dropped returns the number of events discarded because the buffer was full.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Run delivers events until ctx is cancelled, then drains whatever is still
// buffered using a context that is not cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	for {
		select {
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			return nil
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		default:
			if n := d.Dropped(); n > 0 {
				d.log().Warn("events dropped during run", "dropped", n)
			}
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, ev homecontrol.Event) {
	d.mu.RLock()
	sinks := make([]Sink, len(d.sinks))
	copy(sinks, d.sinks)
	logger := d.logger
	d.mu.RUnlock()

	for _, sink := range sinks {
		if err := handleSafely(ctx, sink, ev); err != nil {
			logger.Error("event sink failed",
				"sink", sink.Name(),
				"kind", string(ev.Kind),
				"error", err,
			)
		}
	}
}

func (d *Dispatcher) log() Logger {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.logger
}

// handleSafely calls sink.Handle and converts a panic into an error.
func handleSafely(ctx context.Context, sink Sink, ev homecontrol.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSinkPanic, r)
		}
	}()
	return sink.Handle(ctx, ev)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc struct {
	SinkName string
	Fn       func(ctx context.Context, ev homecontrol.Event) error
}

// Name returns the sink name.
func (s SinkFunc) Name() string { return s.SinkName }

// Handle calls Fn.
func (s SinkFunc) Handle(ctx context.Context, ev homecontrol.Event) error {
	return s.Fn(ctx, ev)
}
