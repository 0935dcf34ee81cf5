//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
)

// Requires a broker on 127.0.0.1:1883:
//
//	go test -tags=integration -count=1 ./internal/infrastructure/mqtt/...

func brokerConfig(clientID string) config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: clientID,
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func dial(t *testing.T, clientID string) *Client {
	t.Helper()
	client, err := Connect(brokerConfig(clientID))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

func TestIntegration_ConnectCloseHealth(t *testing.T) {
	client, err := Connect(brokerConfig("graylogic-home-int-health"))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want %v", err, ErrNotConnected)
	}
}

func TestIntegration_StatusRetainedOnline(t *testing.T) {
	dial(t, "graylogic-home-int-status")
	watcher := dial(t, "graylogic-home-int-status-watch")

	got := make(chan string, 1)
	if err := watcher.Subscribe(StatusTopic, 1, func(_ string, p []byte) error {
		select {
		case got <- string(p):
		default:
		}
		return nil
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case status := <-got:
		if status != StatusOnline {
			t.Errorf("status = %q, want %q", status, StatusOnline)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no retained status received")
	}
}

func TestIntegration_InputCommandRoundtrip(t *testing.T) {
	pub := dial(t, "graylogic-home-int-pub")
	sub := dial(t, "graylogic-home-int-sub")

	received := make(chan []byte, 1)
	if err := sub.Subscribe(InputCommandFilter, 1, func(topic string, p []byte) error {
		if line, ok := InputFromCommandTopic(topic); ok && line == "button2" {
			received <- p
		}
		return nil
	}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if err := pub.PublishJSON(commandTopic("button2"), map[string]bool{"active": true}, false); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	select {
	case payload := <-received:
		var cmd map[string]bool
		if err := json.Unmarshal(payload, &cmd); err != nil || !cmd["active"] {
			t.Errorf("payload = %s (%v)", payload, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("command not delivered")
	}
}

func TestIntegration_ConnectRefused(t *testing.T) {
	cfg := brokerConfig("graylogic-home-int-refused")
	cfg.Broker.Port = 19998

	if _, err := Connect(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want %v", err, ErrConnectionFailed)
	}
}
