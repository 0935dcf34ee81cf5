package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
)

func fieldValue(p *write.Point, key string) interface{} {
	for _, f := range p.FieldList() {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

func tagValue(p *write.Point, key string) string {
	for _, tag := range p.TagList() {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

func TestOutputStatePoint(t *testing.T) {
	ts := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		active bool
		want   int64
	}{
		{active: true, want: 1},
		{active: false, want: 0},
	}

	for _, tt := range tests {
		p := outputStatePoint("coffee_maker", tt.active, ts)
		if p.Name() != MeasurementOutputState {
			t.Errorf("Name() = %q", p.Name())
		}
		if tagValue(p, "line") != "coffee_maker" {
			t.Errorf("line tag = %q", tagValue(p, "line"))
		}
		if got := fieldValue(p, "active"); got != tt.want {
			t.Errorf("active field = %v (%T), want %d", got, got, tt.want)
		}
		if !p.Time().Equal(ts) {
			t.Errorf("Time() = %v, want %v", p.Time(), ts)
		}
	}
}

func TestTemperaturePoint(t *testing.T) {
	p := temperaturePoint(-3, time.Time{})

	if p.Name() != MeasurementTemperature {
		t.Errorf("Name() = %q", p.Name())
	}
	if got := fieldValue(p, "value_c"); got != int64(-3) {
		t.Errorf("value_c = %v, want -3", got)
	}
	if p.Time().IsZero() {
		t.Error("zero timestamp not replaced")
	}
}

func TestEventPoint(t *testing.T) {
	p := eventPoint("coffee_auto_off", time.Now())

	if p.Name() != MeasurementEvents || tagValue(p, "kind") != "coffee_auto_off" {
		t.Errorf("point = %s kind=%q", p.Name(), tagValue(p, "kind"))
	}
	if got := fieldValue(p, "count"); got != int64(1) {
		t.Errorf("count = %v, want 1", got)
	}
}

func TestUnconnectedClientDropsWrites(t *testing.T) {
	var c Client

	// Must not panic without a write API.
	c.WriteOutputState("lock", true, time.Now())
	c.WriteTemperature(20, time.Now())
	c.WriteEvent("started", time.Now())
	c.Flush()

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrClosed)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestWriteOptions(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.InfluxDBConfig
		wantBatch uint
		wantFlush uint
	}{
		{name: "defaults", cfg: config.InfluxDBConfig{}, wantBatch: 100, wantFlush: 10000},
		{name: "configured", cfg: config.InfluxDBConfig{BatchSize: 20, FlushInterval: 2}, wantBatch: 20, wantFlush: 2000},
		{name: "negative falls back", cfg: config.InfluxDBConfig{BatchSize: -1, FlushInterval: -5}, wantBatch: 100, wantFlush: 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := writeOptions(tt.cfg)
			if got := opts.BatchSize(); got != tt.wantBatch {
				t.Errorf("BatchSize() = %d, want %d", got, tt.wantBatch)
			}
			if got := opts.FlushInterval(); got != tt.wantFlush {
				t.Errorf("FlushInterval() = %d, want %d", got, tt.wantFlush)
			}
		})
	}
}
