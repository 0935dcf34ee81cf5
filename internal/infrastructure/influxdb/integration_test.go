//go:build integration

package influxdb

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
)

// Requires InfluxDB v2 on 127.0.0.1:8086 with the dev token:
//
//	go test -tags=integration -count=1 ./internal/infrastructure/influxdb/...

func serverConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "graylogic-dev-token",
		Org:           "graylogic",
		Bucket:        "home",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

type warnings struct {
	mu   sync.Mutex
	msgs []string
}

func (w *warnings) Warn(msg string, _ ...any) {
	w.mu.Lock()
	w.msgs = append(w.msgs, msg)
	w.mu.Unlock()
}

func TestIntegration_WriteFlushClose(t *testing.T) {
	client, err := Connect(context.Background(), serverConfig())
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	logger := &warnings{}
	client.SetLogger(logger)

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	now := time.Now()
	client.WriteOutputState("coffee_maker", true, now)
	client.WriteTemperature(21, now)
	client.WriteEvent("coffee_auto_off", now)
	client.Flush()

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("HealthCheck() after Close error = %v, want %v", err, ErrClosed)
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.msgs) != 0 {
		t.Errorf("write failures = %v", logger.msgs)
	}
}

func TestIntegration_ConnectRefused(t *testing.T) {
	cfg := serverConfig()
	cfg.URL = "http://127.0.0.1:59999"

	if _, err := Connect(context.Background(), cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want %v", err, ErrConnectionFailed)
	}
}
