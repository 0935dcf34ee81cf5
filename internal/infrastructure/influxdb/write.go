package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementOutputState = "output_state"
	MeasurementTemperature = "temperature"
	MeasurementEvents      = "controller_events"
)

// WriteOutputState records an output line level as 0 or 1.
func (c *Client) WriteOutputState(line string, active bool, ts time.Time) {
	c.enqueue(outputStatePoint(line, active, ts))
}

// WriteTemperature records the temperature counter.
func (c *Client) WriteTemperature(valueC int, ts time.Time) {
	c.enqueue(temperaturePoint(valueC, ts))
}

// WriteEvent records one occurrence of an event kind. Sum count for rates.
func (c *Client) WriteEvent(kind string, ts time.Time) {
	c.enqueue(eventPoint(kind, ts))
}

func (c *Client) enqueue(p *write.Point) {
	if !c.open() {
		return
	}
	c.writes.WritePoint(p)
}

func outputStatePoint(line string, active bool, ts time.Time) *write.Point {
	level := 0
	if active {
		level = 1
	}
	return write.NewPointWithMeasurement(MeasurementOutputState).
		AddTag("line", line).
		AddField("active", level).
		SetTime(orNow(ts))
}

func temperaturePoint(valueC int, ts time.Time) *write.Point {
	return write.NewPointWithMeasurement(MeasurementTemperature).
		AddField("value_c", valueC).
		SetTime(orNow(ts))
}

func eventPoint(kind string, ts time.Time) *write.Point {
	return write.NewPointWithMeasurement(MeasurementEvents).
		AddTag("kind", kind).
		AddField("count", 1).
		SetTime(orNow(ts))
}

func orNow(ts time.Time) time.Time {
	if ts.IsZero() {
		return time.Now()
	}
	return ts
}
