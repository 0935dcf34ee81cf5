package homecontrol

import (
	"time"

	"github.com/nerrad567/gray-logic-home/internal/hal"
)

// EventKind classifies an Event.
type EventKind string

const (
	// EventStarted is emitted once when Run begins.
	EventStarted EventKind = "started"

	// EventOutputChanged is emitted when an output line changes level.
	EventOutputChanged EventKind = "output_changed"

	// EventTemperatureChanged is emitted for every temperature report.
	EventTemperatureChanged EventKind = "temperature_changed"

	// EventMorningTriggered is emitted when the one-shot morning latch fires.
	EventMorningTriggered EventKind = "morning_triggered"

	// EventCoffeeAutoOff is emitted when the coffee deadline expires.
	EventCoffeeAutoOff EventKind = "coffee_auto_off"

	// EventLightingToggled is emitted for every button1 toggle.
	EventLightingToggled EventKind = "lighting_toggled"
)

// Rule names carried on events.
const (
	RuleStartup         = "startup"
	RuleMorningTrigger  = "morning_trigger"
	RuleCoffeeAutoOff   = "coffee_auto_off"
	RuleLightingToggle  = "lighting_toggle"
	RuleTemperatureUp   = "temperature_up"
	RuleTemperatureDown = "temperature_down"
)

// Event describes something the control loop did.
type Event struct {
	Kind         EventKind `json:"kind"`
	Rule         string    `json:"rule,omitempty"`
	Line         hal.Line  `json:"line,omitempty"`
	Active       bool      `json:"active"`
	TemperatureC int       `json:"temperature_c"`
	UptimeMS     int64     `json:"uptime_ms"`
	Timestamp    time.Time `json:"timestamp"`
}

// Emitter receives events from the loop. Publish must not block.
type Emitter interface {
	Publish(ev Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(ev Event)

// Publish implements Emitter.
func (f EmitterFunc) Publish(ev Event) {
	f(ev)
}

type discardEmitter struct{}

func (discardEmitter) Publish(Event) {}
