package telemetry

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/gray-logic-home/internal/hal"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/mqtt"
)

// Subscriber is the subset of the MQTT client used by InputCommands.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// InputCommand is the payload of graylogic/home/command/input/{line}.
type InputCommand struct {
	Active *bool `json:"active"`
}

// Logger interface for optional logging support.
type Logger interface {
	Info(msg string, args ...any)
}

// InputCommands drives simulated input lines from MQTT messages.
type InputCommands struct {
	inputs hal.InputSetter
	logger Logger
}

// NewInputCommands creates a command handler bound to inputs.
func NewInputCommands(inputs hal.InputSetter) *InputCommands {
	return &InputCommands{inputs: inputs}
}

// SetLogger sets the logger for applied commands.
func (c *InputCommands) SetLogger(logger Logger) {
	c.logger = logger
}

// Bind subscribes to every input command topic.
func (c *InputCommands) Bind(sub Subscriber, qos byte) error {
	if err := sub.Subscribe(mqtt.InputCommandFilter, qos, c.Handle); err != nil {
		return fmt.Errorf("subscribing to input commands: %w", err)
	}
	return nil
}

// Handle applies one command message. It has the mqtt.MessageHandler signature.
func (c *InputCommands) Handle(topic string, payload []byte) error {
	name, ok := mqtt.InputFromCommandTopic(topic)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	line, err := hal.ParseLine(name)
	if err != nil {
		return err
	}

	var cmd InputCommand
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if cmd.Active == nil {
		return fmt.Errorf("%w: active is required", ErrInvalidPayload)
	}

	if err := c.inputs.SetInput(line, *cmd.Active); err != nil {
		return fmt.Errorf("setting %s: %w", line, err)
	}

	if c.logger != nil {
		c.logger.Info("simulated input set", "line", line.String(), "active", *cmd.Active)
	}
	return nil
}
