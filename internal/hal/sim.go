package hal

import (
	"fmt"
	"sync"
)

// SimPlatform is an in-memory Platform.
//
// Every known line starts ready and unconfigured. Tests can mark lines as not
// ready or make configuration fail to exercise the startup contract, drive
// inputs with SetInput and inspect outputs with Output and Writes.
type SimPlatform struct {
	mu         sync.RWMutex
	notReady   map[Line]bool
	faults     map[Line]bool
	directions map[Line]Direction
	levels     map[Line]bool
	writes     map[Line]int
}

// NewSimPlatform creates a simulated platform with all lines ready.
func NewSimPlatform() *SimPlatform {
	return &SimPlatform{
		notReady:   make(map[Line]bool),
		faults:     make(map[Line]bool),
		directions: make(map[Line]Direction),
		levels:     make(map[Line]bool),
		writes:     make(map[Line]int),
	}
}

// SetReady marks a line as ready or not ready.
func (p *SimPlatform) SetReady(line Line, ready bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notReady[line] = !ready
}

// InjectConfigureFault makes the next configuration of line fail.
func (p *SimPlatform) InjectConfigureFault(line Line) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faults[line] = true
}

// IsReady implements Platform.
func (p *SimPlatform) IsReady(line Line) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return line.Valid() && !p.notReady[line]
}

// ConfigureOutput implements Platform.
func (p *SimPlatform) ConfigureOutput(line Line, initial bool) error {
	return p.configure(line, DirectionOutput, initial)
}

// ConfigureInput implements Platform.
func (p *SimPlatform) ConfigureInput(line Line) error {
	return p.configure(line, DirectionInput, false)
}

func (p *SimPlatform) configure(line Line, dir Direction, level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !line.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownLine, line)
	}
	if p.faults[line] {
		delete(p.faults, line)
		return fmt.Errorf("%w: configuring %s as %s", ErrInjected, line, dir)
	}

	p.directions[line] = dir
	p.levels[line] = level
	return nil
}

// Read implements Platform. Unconfigured lines read as inactive.
func (p *SimPlatform) Read(line Line) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.directions[line] != DirectionInput {
		return false
	}
	return p.levels[line]
}

// Write implements Platform. Writes to lines not configured as outputs are
// ignored, matching a GPIO driver that rejects the call.
func (p *SimPlatform) Write(line Line, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.directions[line] != DirectionOutput {
		return
	}
	p.levels[line] = active
	p.writes[line]++
}

// SetInput implements InputSetter.
func (p *SimPlatform) SetInput(line Line, active bool) error {
	if line.Direction() != DirectionInput {
		return fmt.Errorf("%w: %q is not an input", ErrUnknownLine, line)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.directions[line] != DirectionInput {
		return fmt.Errorf("%w: %s", ErrNotConfigured, line)
	}
	p.levels[line] = active
	return nil
}

// Output returns the current level of an output line.
func (p *SimPlatform) Output(line Line) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.directions[line] == DirectionOutput && p.levels[line]
}

// Writes returns how many times Write was called for line.
func (p *SimPlatform) Writes(line Line) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.writes[line]
}

// DirectionOf returns the configured direction of line.
func (p *SimPlatform) DirectionOf(line Line) Direction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.directions[line]
}
