package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
)

// Logger is the logging surface used by Client. logging.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MessageHandler handles one inbound message. Returned errors are logged.
type MessageHandler func(topic string, payload []byte) error

// route is the inbound subscription, replayed on every reconnect.
type route struct {
	filter  string
	qos     byte
	handler MessageHandler
}

// Client publishes controller telemetry and carries the input command
// subscription. It is safe for concurrent use.
type Client struct {
	paho   pahomqtt.Client
	broker string
	qos    byte

	mu     sync.RWMutex
	route  *route
	logger Logger
}

// Connect dials the broker and blocks until the first connection succeeds
// or the connect timeout passes. Paho reconnects in the background after that.
func Connect(cfg config.MQTTConfig) (*Client, error) {
	c := &Client{broker: brokerURL(cfg), qos: byte(cfg.QoS)}

	opts := newOptions(cfg).
		SetOnConnectHandler(func(pahomqtt.Client) { c.connected() }).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			c.log().Warn("MQTT connection lost", "broker", c.broker, "error", err)
		})

	c.paho = pahomqtt.NewClient(opts)
	token := c.paho.Connect()
	if !token.WaitTimeout(connectTimeout) {
		c.paho.Disconnect(0)
		return nil, fmt.Errorf("%w: no answer from %s within %v", ErrConnectionFailed, c.broker, connectTimeout)
	}
	if err := token.Error(); err != nil {
		c.paho.Disconnect(0)
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return c, nil
}

// connected runs on every (re)connect: it announces availability and
// restores the command route, which a clean session drops.
func (c *Client) connected() {
	c.log().Info("MQTT connected", "broker", c.broker)
	c.paho.Publish(StatusTopic, c.qos, true, StatusOnline)

	c.mu.RLock()
	r := c.route
	c.mu.RUnlock()
	if r != nil {
		c.paho.Subscribe(r.filter, r.qos, c.dispatch(r.handler))
	}
}

// SetLogger sets the logger for connection changes and handler failures.
func (c *Client) SetLogger(logger Logger) {
	c.mu.Lock()
	c.logger = logger
	c.mu.Unlock()
}

func (c *Client) log() Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.logger == nil {
		return nopLogger{}
	}
	return c.logger
}

// IsConnected reports whether the broker connection is currently open.
func (c *Client) IsConnected() bool {
	return c.paho != nil && c.paho.IsConnectionOpen()
}

// HealthCheck reports ErrNotConnected while paho is reconnecting.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// PublishJSON marshals v and publishes it at the configured QoS.
func (c *Client) PublishJSON(topic string, v any, retained bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.paho.Publish(topic, c.qos, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s: timed out", ErrPublishFailed, topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// Subscribe binds the single inbound route. The controller only listens on
// InputCommandFilter, so a second call returns ErrAlreadySubscribed.
func (c *Client) Subscribe(filter string, qos byte, handler MessageHandler) error {
	if filter == "" || handler == nil || qos > 2 {
		return fmt.Errorf("%w: invalid filter %q, qos %d or handler", ErrSubscribeFailed, filter, qos)
	}

	c.mu.Lock()
	if c.route != nil {
		c.mu.Unlock()
		return ErrAlreadySubscribed
	}
	c.route = &route{filter: filter, qos: qos, handler: handler}
	c.mu.Unlock()

	if !c.IsConnected() {
		// connected() subscribes once paho is back.
		return nil
	}
	token := c.paho.Subscribe(filter, qos, c.dispatch(handler))
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("%w: %s: timed out", ErrSubscribeFailed, filter)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, filter, err)
	}
	return nil
}

// dispatch adapts a MessageHandler to paho, logging errors and panics.
func (c *Client) dispatch(handler MessageHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		defer func() {
			if r := recover(); r != nil {
				c.log().Error("MQTT handler panicked", "topic", msg.Topic(), "panic", r)
			}
		}()
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.log().Warn("MQTT message rejected", "topic", msg.Topic(), "error", err)
		}
	}
}

// Close publishes a retained "offline" and disconnects.
func (c *Client) Close() error {
	if c.paho == nil {
		return nil
	}
	if c.IsConnected() {
		c.paho.Publish(StatusTopic, c.qos, true, StatusOffline).WaitTimeout(publishTimeout)
	}
	c.paho.Disconnect(disconnectQuiesceMS)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
