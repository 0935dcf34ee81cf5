package mqtt

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
)

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
	warns []string
	errs  []string
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	l.infos = append(l.infos, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func (l *recordingLogger) Error(msg string, _ ...any) {
	l.mu.Lock()
	l.errs = append(l.errs, msg)
	l.mu.Unlock()
}

func commandTopic(line string) string {
	return inputCommandPrefix + line
}

// inboundMessage implements pahomqtt.Message.
type inboundMessage struct {
	topic   string
	payload []byte
}

func (m inboundMessage) Duplicate() bool   { return false }
func (m inboundMessage) Qos() byte         { return 1 }
func (m inboundMessage) Retained() bool    { return false }
func (m inboundMessage) Topic() string     { return m.topic }
func (m inboundMessage) MessageID() uint16 { return 1 }
func (m inboundMessage) Payload() []byte   { return m.payload }
func (m inboundMessage) Ack()              {}

func TestNewOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 8883, TLS: true, ClientID: "graylogic-home"},
		Auth:   config.MQTTAuthConfig{Username: "home", Password: "secret"},
		QoS:    1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 2,
			MaxDelay:     30,
		},
	}
	opts := newOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://broker.local:8883" {
		t.Errorf("Servers = %v, want ssl://broker.local:8883", opts.Servers)
	}
	if opts.ClientID != "graylogic-home" || opts.Username != "home" || opts.Password != "secret" {
		t.Errorf("identity = %q %q/%q", opts.ClientID, opts.Username, opts.Password)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig = nil with TLS enabled")
	}
	if !opts.AutoReconnect || !opts.CleanSession {
		t.Error("expected auto-reconnect with a clean session")
	}
}

func TestNewOptions_Will(t *testing.T) {
	opts := newOptions(config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "localhost", Port: 1883, ClientID: "c"},
		QoS:    1,
	})

	if !opts.WillEnabled || opts.WillTopic != "graylogic/home/status" {
		t.Fatalf("will = %v on %q", opts.WillEnabled, opts.WillTopic)
	}
	if string(opts.WillPayload) != StatusOffline {
		t.Errorf("will payload = %q, want %q", opts.WillPayload, StatusOffline)
	}
	if !opts.WillRetained || opts.WillQos != 1 {
		t.Errorf("will retained=%v qos=%d", opts.WillRetained, opts.WillQos)
	}
	if opts.Username != "" {
		t.Errorf("Username = %q without auth", opts.Username)
	}
}

func TestBrokerURL(t *testing.T) {
	tests := []struct {
		tls  bool
		want string
	}{
		{false, "tcp://broker.local:1883"},
		{true, "ssl://broker.local:1883"},
	}
	for _, tt := range tests {
		cfg := config.MQTTConfig{Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 1883, TLS: tt.tls}}
		if got := brokerURL(cfg); got != tt.want {
			t.Errorf("brokerURL(tls=%v) = %q, want %q", tt.tls, got, tt.want)
		}
	}
}

func TestDisconnectedClient(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() = true without a connection")
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want %v", err, ErrNotConnected)
	}
	if err := client.PublishJSON(TemperatureTopic, map[string]int{"temperature_c": 21}, true); !errors.Is(err, ErrNotConnected) {
		t.Errorf("PublishJSON() error = %v, want %v", err, ErrNotConnected)
	}
	if err := client.PublishJSON(TemperatureTopic, make(chan int), true); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("PublishJSON(chan) error = %v, want %v", err, ErrPublishFailed)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestHealthCheck_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := (&Client{}).HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want %v", err, context.Canceled)
	}
}

func TestSubscribe(t *testing.T) {
	handler := func(string, []byte) error { return nil }

	t.Run("invalid arguments", func(t *testing.T) {
		client := &Client{}
		for _, tc := range []struct {
			filter  string
			qos     byte
			handler MessageHandler
		}{
			{"", 1, handler},
			{InputCommandFilter, 3, handler},
			{InputCommandFilter, 1, nil},
		} {
			if err := client.Subscribe(tc.filter, tc.qos, tc.handler); !errors.Is(err, ErrSubscribeFailed) {
				t.Errorf("Subscribe(%q, %d) error = %v, want %v", tc.filter, tc.qos, err, ErrSubscribeFailed)
			}
		}
		if client.route != nil {
			t.Error("route recorded for rejected subscription")
		}
	})

	t.Run("deferred until connected", func(t *testing.T) {
		client := &Client{}
		if err := client.Subscribe(InputCommandFilter, 1, handler); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		if client.route == nil || client.route.filter != InputCommandFilter {
			t.Errorf("route = %+v, want %q", client.route, InputCommandFilter)
		}
	})

	t.Run("single route", func(t *testing.T) {
		client := &Client{}
		if err := client.Subscribe(InputCommandFilter, 1, handler); err != nil {
			t.Fatalf("Subscribe() error = %v", err)
		}
		if err := client.Subscribe(commandTopic("button1"), 1, handler); !errors.Is(err, ErrAlreadySubscribed) {
			t.Errorf("second Subscribe() error = %v, want %v", err, ErrAlreadySubscribed)
		}
	})
}

func TestDispatch(t *testing.T) {
	client := &Client{}
	logger := &recordingLogger{}
	client.SetLogger(logger)

	msg := inboundMessage{topic: commandTopic("button1"), payload: []byte(`{"active":true}`)}

	client.dispatch(func(string, []byte) error { return errors.New("rejected") })(nil, msg)
	client.dispatch(func(string, []byte) error { panic("boom") })(nil, msg)

	var got []byte
	client.dispatch(func(_ string, p []byte) error {
		got = p
		return nil
	})(nil, msg)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.warns) != 1 || len(logger.errs) != 1 {
		t.Errorf("warns=%v errors=%v, want one of each", logger.warns, logger.errs)
	}
	if string(got) != `{"active":true}` {
		t.Errorf("payload = %q", got)
	}
}

func TestDispatch_NoLogger(t *testing.T) {
	client := &Client{}
	msg := inboundMessage{topic: commandTopic("button4")}

	// Must not panic without a logger.
	client.dispatch(func(string, []byte) error { panic("boom") })(nil, msg)
}

func TestTopics(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"StateTopic", StateTopic("coffee_maker"), "graylogic/home/state/coffee_maker"},
		{"TemperatureTopic", TemperatureTopic, "graylogic/home/temperature"},
		{"EventTopic", EventTopic("morning_triggered"), "graylogic/home/event/morning_triggered"},
		{"InputCommandTopic", commandTopic("button2"), "graylogic/home/command/input/button2"},
		{"InputCommandFilter", InputCommandFilter, "graylogic/home/command/input/+"},
		{"StatusTopic", StatusTopic, "graylogic/home/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestInputFromCommandTopic(t *testing.T) {
	tests := []struct {
		topic    string
		wantLine string
		wantOK   bool
	}{
		{"graylogic/home/command/input/button4", "button4", true},
		{"graylogic/home/command/input/", "", false},
		{"graylogic/home/command/input/a/b", "", false},
		{"graylogic/home/state/lock", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			line, ok := InputFromCommandTopic(tt.topic)
			if line != tt.wantLine || ok != tt.wantOK {
				t.Errorf("InputFromCommandTopic(%q) = %q, %v; want %q, %v", tt.topic, line, ok, tt.wantLine, tt.wantOK)
			}
		})
	}
}
