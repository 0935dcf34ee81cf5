package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/mqtt"
)

// Publisher is the subset of the MQTT client used by MQTTSink.
type Publisher interface {
	PublishJSON(topic string, v any, retained bool) error
}

// StatePayload is published retained on graylogic/home/state/{line}.
type StatePayload struct {
	Line      string `json:"line"`
	Active    bool   `json:"active"`
	Rule      string `json:"rule,omitempty"`
	SessionID string `json:"session_id"`
	UptimeMS  int64  `json:"uptime_ms"`
	Timestamp string `json:"timestamp"`
}

// TemperaturePayload is published retained on graylogic/home/temperature.
type TemperaturePayload struct {
	TemperatureC int    `json:"temperature_c"`
	SessionID    string `json:"session_id"`
	UptimeMS     int64  `json:"uptime_ms"`
	Timestamp    string `json:"timestamp"`
}

// EventPayload is published on graylogic/home/event/{kind}.
type EventPayload struct {
	homecontrol.Event
	SessionID string `json:"session_id"`
}

// MQTTSink publishes controller events to MQTT.
type MQTTSink struct {
	pub       Publisher
	sessionID string
}

// NewMQTTSink creates a sink publishing through pub.
func NewMQTTSink(pub Publisher, sessionID string) *MQTTSink {
	return &MQTTSink{pub: pub, sessionID: sessionID}
}

// Name implements events.Sink.
func (s *MQTTSink) Name() string { return "mqtt" }

// Handle implements events.Sink.
//
// Output changes update the retained state topic and temperature changes the
// retained temperature topic. Every event is also published, not retained,
// on its event topic.
func (s *MQTTSink) Handle(_ context.Context, ev homecontrol.Event) error {
	ts := ev.Timestamp.UTC().Format(time.RFC3339Nano)

	switch ev.Kind {
	case homecontrol.EventOutputChanged:
		err := s.pub.PublishJSON(mqtt.StateTopic(ev.Line.String()), StatePayload{
			Line:      ev.Line.String(),
			Active:    ev.Active,
			Rule:      ev.Rule,
			SessionID: s.sessionID,
			UptimeMS:  ev.UptimeMS,
			Timestamp: ts,
		}, true)
		if err != nil {
			return fmt.Errorf("publishing %s state: %w", ev.Line, err)
		}
	case homecontrol.EventTemperatureChanged, homecontrol.EventStarted:
		err := s.pub.PublishJSON(mqtt.TemperatureTopic, TemperaturePayload{
			TemperatureC: ev.TemperatureC,
			SessionID:    s.sessionID,
			UptimeMS:     ev.UptimeMS,
			Timestamp:    ts,
		}, true)
		if err != nil {
			return fmt.Errorf("publishing temperature: %w", err)
		}
	}

	if err := s.pub.PublishJSON(mqtt.EventTopic(string(ev.Kind)), EventPayload{Event: ev, SessionID: s.sessionID}, false); err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Kind, err)
	}
	return nil
}
