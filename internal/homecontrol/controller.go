package homecontrol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/hal"
)

// Default loop timings in milliseconds.
const (
	DefaultPollIntervalMS = 10
	DefaultCoffeeTimerMS  = 500
	DefaultDebounceMS     = 300
)

// Timing holds the loop's fixed durations in milliseconds.
type Timing struct {
	// PollIntervalMS is the sleep at the end of every iteration.
	PollIntervalMS int64

	// CoffeeTimerMS is how long the coffee maker stays on after the
	// morning trigger.
	CoffeeTimerMS int64

	// DebounceMS is the blocking stall after each button rule fires.
	DebounceMS int64
}

// DefaultTiming returns the standard 10ms/500ms/300ms timings.
func DefaultTiming() Timing {
	return Timing{
		PollIntervalMS: DefaultPollIntervalMS,
		CoffeeTimerMS:  DefaultCoffeeTimerMS,
		DebounceMS:     DefaultDebounceMS,
	}
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

// Options configures a Controller.
type Options struct {
	// Platform provides the digital I/O lines. Required.
	Platform hal.Platform

	// Clock provides monotonic time and blocking sleeps. Required.
	Clock hal.Clock

	// Report receives the "Temperature: N°C" lines. Nil discards them.
	Report io.Writer

	// Emitter receives loop events. Nil discards them.
	Emitter Emitter

	// Logger is optional.
	Logger Logger

	// Timing overrides the loop durations. Zero fields use the defaults.
	Timing Timing

	// InitialTemperatureC is the starting counter value. Nil starts at
	// DefaultInitialTemperatureC; zero is a valid start.
	InitialTemperatureC *int
}

// Controller is the home control loop.
//
// Thread Safety:
//   - Init, Step and Run must be called from a single goroutine.
//   - Snapshot is safe to call from any goroutine.
type Controller struct {
	platform    hal.Platform
	clock       hal.Clock
	report      io.Writer
	emitter     Emitter
	logger      Logger
	timing      Timing
	initialTemp int

	initialised bool

	// outputs mirrors the last level written to each output line.
	// Owned by the loop goroutine.
	outputs    map[hal.Line]bool
	iterations uint64

	snapshot atomic.Pointer[Snapshot]
}

// New creates a Controller. The controller must be initialised with Init
// before Run is called.
//
// Returns:
//   - *Controller: Controller ready for Init
//   - error: If a required dependency is missing
func New(opts Options) (*Controller, error) {
	if opts.Platform == nil {
		return nil, fmt.Errorf("platform is required")
	}
	if opts.Clock == nil {
		return nil, fmt.Errorf("clock is required")
	}

	timing := opts.Timing
	defaults := DefaultTiming()
	if timing.PollIntervalMS <= 0 {
		timing.PollIntervalMS = defaults.PollIntervalMS
	}
	if timing.CoffeeTimerMS <= 0 {
		timing.CoffeeTimerMS = defaults.CoffeeTimerMS
	}
	if timing.DebounceMS <= 0 {
		timing.DebounceMS = defaults.DebounceMS
	}

	report := opts.Report
	if report == nil {
		report = io.Discard
	}
	emitter := opts.Emitter
	if emitter == nil {
		emitter = discardEmitter{}
	}

	initialTemp := DefaultInitialTemperatureC
	if opts.InitialTemperatureC != nil {
		initialTemp = *opts.InitialTemperatureC
	}

	c := &Controller{
		platform:    opts.Platform,
		clock:       opts.Clock,
		report:      report,
		emitter:     emitter,
		logger:      opts.Logger,
		timing:      timing,
		initialTemp: initialTemp,
		outputs:     make(map[hal.Line]bool, len(hal.Outputs())),
	}

	st := NewState(c.initialTemp)
	c.publishSnapshot(&st)

	return c, nil
}

// Timing returns the effective loop timings.
func (c *Controller) Timing() Timing {
	return c.timing
}

// Init checks hardware readiness and configures line directions.
//
// It performs:
//  1. Readiness check of every line (ErrHardwareNotReady on the first failure)
//  2. Configuration of all outputs, initially inactive
//  3. Configuration of all inputs
//
// Every line in a group is attempted before a configuration failure is
// reported. No output rule runs when Init fails.
//
// Returns:
//   - error: ErrHardwareNotReady or ErrConfigurationFailed, wrapped with detail
func (c *Controller) Init() error {
	for _, line := range hal.AllLines() {
		if !c.platform.IsReady(line) {
			return fmt.Errorf("%w: %s", ErrHardwareNotReady, line)
		}
	}

	var errs []error
	for _, line := range hal.Outputs() {
		if err := c.platform.ConfigureOutput(line, false); err != nil {
			errs = append(errs, err)
			continue
		}
		c.outputs[line] = false
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: outputs: %w", ErrConfigurationFailed, errors.Join(errs...))
	}

	for _, line := range hal.Inputs() {
		if err := c.platform.ConfigureInput(line); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: inputs: %w", ErrConfigurationFailed, errors.Join(errs...))
	}

	c.initialised = true
	return nil
}

// Run executes the loop until ctx is cancelled.
//
// Cancellation is only observed between iterations: a rule or debounce wait
// in progress always completes. Returns nil on cancellation.
func (c *Controller) Run(ctx context.Context) error {
	if !c.initialised {
		return ErrNotInitialised
	}

	st := NewState(c.initialTemp)
	now := c.clock.NowMS()
	c.emit(Event{
		Kind:         EventStarted,
		Rule:         RuleStartup,
		TemperatureC: st.TemperatureC,
		UptimeMS:     now,
	})
	c.publishSnapshot(&st)

	if c.logger != nil {
		c.logger.Info("control loop started",
			"poll_interval_ms", c.timing.PollIntervalMS,
			"coffee_timer_ms", c.timing.CoffeeTimerMS,
			"debounce_ms", c.timing.DebounceMS,
			"temperature_c", st.TemperatureC,
		)
	}

	for {
		select {
		case <-ctx.Done():
			if c.logger != nil {
				c.logger.Info("control loop stopped", "iterations", c.iterations)
			}
			return nil
		default:
		}

		c.Step(&st)
		c.clock.SleepMS(c.timing.PollIntervalMS)
	}
}

// Step runs one loop iteration against st, excluding the trailing poll
// sleep. Rules run in fixed order and all of them see the inputs sampled at
// the start of the iteration.
func (c *Controller) Step(st *State) {
	now := c.clock.NowMS()

	lightSwitch := c.platform.Read(hal.LineLightSwitch)
	button1 := c.platform.Read(hal.LineButton1)
	button2 := c.platform.Read(hal.LineButton2)
	button4 := c.platform.Read(hal.LineButton4)

	if lightSwitch && st.FirstMorningTrigger {
		c.morningTrigger(st, now)
	}

	if st.CoffeeMakerOn && now >= st.ShutoffDeadlineMS {
		c.coffeeAutoOff(st, now)
	}

	if button1 {
		c.toggleLighting(st)
		c.clock.SleepMS(c.timing.DebounceMS)
	}

	if button2 {
		st.TemperatureC++
		c.reportTemperature(st, RuleTemperatureUp)
		c.clock.SleepMS(c.timing.DebounceMS)
	}

	if button4 {
		st.TemperatureC--
		c.reportTemperature(st, RuleTemperatureDown)
		c.clock.SleepMS(c.timing.DebounceMS)
	}

	c.iterations++
	c.publishSnapshot(st)
}

// morningTrigger runs the one-shot appliance activation sequence.
func (c *Controller) morningTrigger(st *State, now int64) {
	c.setOutput(hal.LineCoffeeMaker, true, RuleMorningTrigger, st, now)
	c.setOutput(hal.LineHubIndicator, true, RuleMorningTrigger, st, now)
	if !st.LightingOn {
		c.setOutput(hal.LineLighting, true, RuleMorningTrigger, st, now)
		st.LightingOn = true
	}
	c.setOutput(hal.LineLock, true, RuleMorningTrigger, st, now)

	st.CoffeeMakerOn = true
	st.ShutoffDeadlineMS = now + c.timing.CoffeeTimerMS
	st.FirstMorningTrigger = false

	c.emit(Event{
		Kind:         EventMorningTriggered,
		Rule:         RuleMorningTrigger,
		Active:       true,
		TemperatureC: st.TemperatureC,
		UptimeMS:     now,
	})
	if c.logger != nil {
		c.logger.Info("morning trigger fired", "shutoff_deadline_ms", st.ShutoffDeadlineMS)
	}
}

// coffeeAutoOff switches the coffee maker and its hub indicator off.
func (c *Controller) coffeeAutoOff(st *State, now int64) {
	c.setOutput(hal.LineCoffeeMaker, false, RuleCoffeeAutoOff, st, now)
	c.setOutput(hal.LineHubIndicator, false, RuleCoffeeAutoOff, st, now)
	st.CoffeeMakerOn = false

	c.emit(Event{
		Kind:         EventCoffeeAutoOff,
		Rule:         RuleCoffeeAutoOff,
		TemperatureC: st.TemperatureC,
		UptimeMS:     now,
	})
	if c.logger != nil {
		c.logger.Info("coffee maker switched off", "uptime_ms", now)
	}
}

// toggleLighting flips the lighting output.
func (c *Controller) toggleLighting(st *State) {
	now := c.clock.NowMS()
	st.LightingOn = !st.LightingOn
	c.setOutput(hal.LineLighting, st.LightingOn, RuleLightingToggle, st, now)

	c.emit(Event{
		Kind:         EventLightingToggled,
		Rule:         RuleLightingToggle,
		Line:         hal.LineLighting,
		Active:       st.LightingOn,
		TemperatureC: st.TemperatureC,
		UptimeMS:     now,
	})
}

// reportTemperature writes the report line and emits the change.
func (c *Controller) reportTemperature(st *State, rule string) {
	//nolint:errcheck // Best-effort report; the loop has no failure path
	fmt.Fprintf(c.report, "Temperature: %d°C\n", st.TemperatureC)

	c.emit(Event{
		Kind:         EventTemperatureChanged,
		Rule:         rule,
		TemperatureC: st.TemperatureC,
		UptimeMS:     c.clock.NowMS(),
	})
	if c.logger != nil {
		c.logger.Debug("temperature changed", "temperature_c", st.TemperatureC, "rule", rule)
	}
}

// setOutput writes an output line and emits an event when its level changed.
// The write always reaches the platform, even when the level is unchanged.
func (c *Controller) setOutput(line hal.Line, active bool, rule string, st *State, now int64) {
	c.platform.Write(line, active)

	previous, known := c.outputs[line]
	c.outputs[line] = active
	if known && previous == active {
		return
	}

	c.emit(Event{
		Kind:         EventOutputChanged,
		Rule:         rule,
		Line:         line,
		Active:       active,
		TemperatureC: st.TemperatureC,
		UptimeMS:     now,
	})
}

// emit stamps and forwards an event.
func (c *Controller) emit(ev Event) {
	ev.Timestamp = time.Now().UTC()
	c.emitter.Publish(ev)
}

// publishSnapshot stores a copy of st for concurrent readers.
func (c *Controller) publishSnapshot(st *State) {
	outputs := make(map[string]bool, len(hal.Outputs()))
	for _, line := range hal.Outputs() {
		outputs[line.String()] = c.outputs[line]
	}

	c.snapshot.Store(&Snapshot{
		State:      *st,
		Outputs:    outputs,
		UptimeMS:   c.clock.NowMS(),
		Iterations: c.iterations,
		UpdatedAt:  time.Now().UTC(),
	})
}

// Snapshot returns the state published after the most recent iteration.
func (c *Controller) Snapshot() Snapshot {
	return c.snapshot.Load().clone()
}
