package homecontrol

import "time"

// DefaultInitialTemperatureC is the temperature counter value at startup.
const DefaultInitialTemperatureC = 20

// State is the mutable control state of the loop.
//
// ShutoffDeadlineMS is only meaningful while CoffeeMakerOn is true.
// FirstMorningTrigger goes from true to false exactly once.
// TemperatureC is deliberately unbounded.
type State struct {
	CoffeeMakerOn       bool  `json:"coffee_maker_on"`
	ShutoffDeadlineMS   int64 `json:"shutoff_deadline_ms"`
	FirstMorningTrigger bool  `json:"first_morning_trigger"`
	LightingOn          bool  `json:"lighting_on"`
	TemperatureC        int   `json:"temperature_c"`
}

// NewState returns the startup state: coffee off, latch armed, lighting off.
func NewState(initialTemperatureC int) State {
	return State{
		FirstMorningTrigger: true,
		TemperatureC:        initialTemperatureC,
	}
}

// Snapshot is a read-only copy of the loop state published after each
// iteration for observers outside the loop goroutine.
type Snapshot struct {
	State      State           `json:"state"`
	Outputs    map[string]bool `json:"outputs"`
	UptimeMS   int64           `json:"uptime_ms"`
	Iterations uint64          `json:"iterations"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// clone returns a deep copy of the snapshot.
func (s *Snapshot) clone() Snapshot {
	out := *s
	out.Outputs = make(map[string]bool, len(s.Outputs))
	for k, v := range s.Outputs {
		out.Outputs[k] = v
	}
	return out
}
