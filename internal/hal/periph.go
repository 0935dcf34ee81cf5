package hal

import (
	"fmt"
	"strings"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PinSpec maps a Line onto a host GPIO pin.
type PinSpec struct {
	// Name is the periph.io pin name, e.g. "GPIO17".
	Name string

	// ActiveLow inverts the logical state: a low level means active.
	ActiveLow bool

	// Pull selects the input bias: "up", "down", "float" or "" (leave as is).
	Pull string
}

// Logger is the optional logging interface used for absorbed write errors.
type Logger interface {
	Warn(msg string, args ...any)
}

// PeriphPlatform drives real GPIO pins through periph.io.
type PeriphPlatform struct {
	specs   map[Line]PinSpec
	resolve func(name string) gpio.PinIO

	mu   sync.Mutex
	pins map[Line]gpio.PinIO

	logger Logger
}

// NewPeriphPlatform loads the periph.io host drivers and returns a platform
// for the given pin mapping.
//
// Returns:
//   - *PeriphPlatform: Platform ready for the controller's Init
//   - error: ErrHostInit if no host driver could be loaded
func NewPeriphPlatform(specs map[Line]PinSpec) (*PeriphPlatform, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHostInit, err)
	}
	return newPeriphPlatform(specs, gpioreg.ByName), nil
}

func newPeriphPlatform(specs map[Line]PinSpec, resolve func(string) gpio.PinIO) *PeriphPlatform {
	copied := make(map[Line]PinSpec, len(specs))
	for line, spec := range specs {
		copied[line] = spec
	}
	return &PeriphPlatform{
		specs:   copied,
		resolve: resolve,
		pins:    make(map[Line]gpio.PinIO),
	}
}

// SetLogger sets a logger for write failures. Without one they are dropped.
func (p *PeriphPlatform) SetLogger(logger Logger) {
	p.logger = logger
}

// IsReady implements Platform. A line is ready when it has a pin mapping and
// the host registry knows that pin.
func (p *PeriphPlatform) IsReady(line Line) bool {
	_, err := p.pin(line)
	return err == nil
}

// ConfigureOutput implements Platform.
func (p *PeriphPlatform) ConfigureOutput(line Line, initial bool) error {
	pin, err := p.pin(line)
	if err != nil {
		return err
	}
	if err := pin.Out(p.level(line, initial)); err != nil {
		return fmt.Errorf("configuring %s (%s) as output: %w", line, pin.Name(), err)
	}
	return nil
}

// ConfigureInput implements Platform.
func (p *PeriphPlatform) ConfigureInput(line Line) error {
	pin, err := p.pin(line)
	if err != nil {
		return err
	}
	if err := pin.In(parsePull(p.specs[line].Pull), gpio.NoEdge); err != nil {
		return fmt.Errorf("configuring %s (%s) as input: %w", line, pin.Name(), err)
	}
	return nil
}

// Read implements Platform.
func (p *PeriphPlatform) Read(line Line) bool {
	pin, err := p.pin(line)
	if err != nil {
		return false
	}
	active := pin.Read() == gpio.High
	if p.specs[line].ActiveLow {
		return !active
	}
	return active
}

// Write implements Platform.
func (p *PeriphPlatform) Write(line Line, active bool) {
	pin, err := p.pin(line)
	if err != nil {
		return
	}
	if err := pin.Out(p.level(line, active)); err != nil && p.logger != nil {
		p.logger.Warn("gpio write failed", "line", line.String(), "pin", pin.Name(), "error", err)
	}
}

// pin resolves and caches the host pin for line.
func (p *PeriphPlatform) pin(line Line) (gpio.PinIO, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pin, ok := p.pins[line]; ok {
		return pin, nil
	}

	spec, ok := p.specs[line]
	if !ok || spec.Name == "" {
		return nil, fmt.Errorf("%w: no pin mapped for %s", ErrPinNotFound, line)
	}
	pin := p.resolve(spec.Name)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrPinNotFound, spec.Name, line)
	}
	p.pins[line] = pin
	return pin, nil
}

// level converts a logical state into the electrical level for line.
func (p *PeriphPlatform) level(line Line, active bool) gpio.Level {
	if p.specs[line].ActiveLow {
		active = !active
	}
	if active {
		return gpio.High
	}
	return gpio.Low
}

// parsePull converts a config pull string into a gpio.Pull.
func parsePull(pull string) gpio.Pull {
	switch strings.ToLower(pull) {
	case "up":
		return gpio.PullUp
	case "down":
		return gpio.PullDown
	case "float":
		return gpio.Float
	default:
		return gpio.PullNoChange
	}
}
