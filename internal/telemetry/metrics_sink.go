package telemetry

import (
	"context"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
)

// MetricWriter is the subset of the InfluxDB client used by MetricsSink.
type MetricWriter interface {
	WriteOutputState(line string, active bool, ts time.Time)
	WriteTemperature(valueC int, ts time.Time)
	WriteEvent(kind string, ts time.Time)
}

// MetricsSink writes controller events as InfluxDB points.
type MetricsSink struct {
	w MetricWriter
}

// NewMetricsSink creates a sink writing through w.
func NewMetricsSink(w MetricWriter) *MetricsSink {
	return &MetricsSink{w: w}
}

// Name implements events.Sink.
func (s *MetricsSink) Name() string { return "influxdb" }

// Handle implements events.Sink. Writes are asynchronous so it never fails.
func (s *MetricsSink) Handle(_ context.Context, ev homecontrol.Event) error {
	switch ev.Kind {
	case homecontrol.EventOutputChanged:
		s.w.WriteOutputState(ev.Line.String(), ev.Active, ev.Timestamp)
	case homecontrol.EventTemperatureChanged, homecontrol.EventStarted:
		s.w.WriteTemperature(ev.TemperatureC, ev.Timestamp)
	}
	s.w.WriteEvent(string(ev.Kind), ev.Timestamp)
	return nil
}
