package hal

import "fmt"

// Line identifies one of the physical digital endpoints.
type Line string

// Input lines. There is no button3: the numbering follows the board mapping.
const (
	LineLightSwitch Line = "light_switch"
	LineButton1     Line = "button1"
	LineButton2     Line = "button2"
	LineButton4     Line = "button4"
)

// Output lines.
const (
	LineCoffeeMaker  Line = "coffee_maker"
	LineLighting     Line = "lighting"
	LineLock         Line = "lock"
	LineHubIndicator Line = "hub_indicator"
)

// Direction is the configured direction of a line.
type Direction string

const (
	DirectionUnset  Direction = ""
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Inputs returns the input lines in sampling order.
func Inputs() []Line {
	return []Line{LineLightSwitch, LineButton1, LineButton2, LineButton4}
}

// Outputs returns the output lines in configuration order.
func Outputs() []Line {
	return []Line{LineCoffeeMaker, LineLighting, LineLock, LineHubIndicator}
}

// AllLines returns every line the controller checks for readiness.
func AllLines() []Line {
	return append(Inputs(), Outputs()...)
}

// Direction returns the direction the controller uses for this line.
func (l Line) Direction() Direction {
	switch l {
	case LineLightSwitch, LineButton1, LineButton2, LineButton4:
		return DirectionInput
	case LineCoffeeMaker, LineLighting, LineLock, LineHubIndicator:
		return DirectionOutput
	default:
		return DirectionUnset
	}
}

// Valid reports whether l is one of the known lines.
func (l Line) Valid() bool {
	return l.Direction() != DirectionUnset
}

// String implements fmt.Stringer.
func (l Line) String() string {
	return string(l)
}

// ParseLine converts a configuration or topic name into a Line.
func ParseLine(name string) (Line, error) {
	l := Line(name)
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLine, name)
	}
	return l, nil
}
