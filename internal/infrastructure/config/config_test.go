package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
site:
  id: "test-home"
control:
  debounce_ms: 250
  initial_temperature_c: 18
platform:
  driver: periph
  lines:
    light_switch: {pin: GPIO17, active_low: true, pull: up}
    button1: {pin: GPIO27, active_low: true, pull: up}
    button2: {pin: GPIO22, active_low: true, pull: up}
    button4: {pin: GPIO23, active_low: true, pull: up}
    coffee_maker: {pin: GPIO5}
    lighting: {pin: GPIO6}
    lock: {pin: GPIO13}
    hub_indicator: {pin: GPIO19}
database:
  enabled: true
  path: "/tmp/test.db"
mqtt:
  enabled: true
  broker:
    host: "broker.local"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Site.ID != "test-home" {
		t.Errorf("Site.ID = %q, want %q", cfg.Site.ID, "test-home")
	}
	if cfg.Control.DebounceMS != 250 {
		t.Errorf("Control.DebounceMS = %d, want 250", cfg.Control.DebounceMS)
	}
	if cfg.Control.PollIntervalMS != 10 {
		t.Errorf("Control.PollIntervalMS = %d, want default 10", cfg.Control.PollIntervalMS)
	}
	if cfg.Control.InitialTemperatureC != 18 {
		t.Errorf("Control.InitialTemperatureC = %d, want 18", cfg.Control.InitialTemperatureC)
	}
	if pin := cfg.Platform.Lines["button1"]; pin.Pin != "GPIO27" || !pin.ActiveLow || pin.Pull != "up" {
		t.Errorf("Platform.Lines[button1] = %+v", pin)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want default 1883", cfg.MQTT.Broker.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")

	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
site:
  id: ""
control:
  report_output: "printer"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected validation error, got nil")
	}
	for _, want := range []string{"site.id", "control.report_output"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("explicit path must exist", func(t *testing.T) {
		t.Setenv("GRAYLOGIC_CONFIG", "/nonexistent/config.yaml")
		if _, _, err := LoadFromEnv(); err == nil {
			t.Error("LoadFromEnv() expected error for missing explicit file")
		}
	})

	t.Run("explicit path is read", func(t *testing.T) {
		path := writeConfig(t, "site:\n  id: from-env\n")
		t.Setenv("GRAYLOGIC_CONFIG", path)

		cfg, used, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if used != path || cfg.Site.ID != "from-env" {
			t.Errorf("LoadFromEnv() = %q, %q", cfg.Site.ID, used)
		}
	})

	t.Run("missing default falls back", func(t *testing.T) {
		t.Setenv("GRAYLOGIC_CONFIG", "")
		wd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Getwd() error = %v", err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatalf("Chdir() error = %v", err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })

		cfg, used, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if used != "" {
			t.Errorf("path = %q, want empty", used)
		}
		if cfg.Platform.Driver != DriverSim {
			t.Errorf("Platform.Driver = %q, want %q", cfg.Platform.Driver, DriverSim)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "missing site ID",
			mutate:  func(c *Config) { c.Site.ID = "" },
			wantErr: "site.id",
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Control.PollIntervalMS = 0 },
			wantErr: "control.poll_interval_ms",
		},
		{
			name:    "negative coffee timer",
			mutate:  func(c *Config) { c.Control.CoffeeTimerMS = -1 },
			wantErr: "control.coffee_timer_ms",
		},
		{
			name:    "zero debounce",
			mutate:  func(c *Config) { c.Control.DebounceMS = 0 },
			wantErr: "control.debounce_ms",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *Config) { c.Platform.Driver = "serial" },
			wantErr: "platform.driver",
		},
		{
			name:    "periph without pins",
			mutate:  func(c *Config) { c.Platform.Driver = DriverPeriph },
			wantErr: "platform.lines.light_switch.pin",
		},
		{
			name: "unknown line name",
			mutate: func(c *Config) {
				c.Platform.Lines = map[string]PinConfig{"doorbell": {Pin: "GPIO4"}}
			},
			wantErr: `unknown line "doorbell"`,
		},
		{
			name: "database enabled without path",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Path = ""
			},
			wantErr: "database.path",
		},
		{
			name:   "database disabled without path",
			mutate: func(c *Config) { c.Database.Path = "" },
		},
		{
			name: "invalid QoS",
			mutate: func(c *Config) {
				c.MQTT.Enabled = true
				c.MQTT.QoS = 3
			},
			wantErr: "mqtt.qos",
		},
		{
			name: "influx without bucket",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.Bucket = ""
			},
			wantErr: "influxdb.bucket",
		},
		{
			name: "invalid port high",
			mutate: func(c *Config) {
				c.API.Enabled = true
				c.API.Port = 70000
			},
			wantErr: "api.port",
		},
		{
			name:    "zero event buffer",
			mutate:  func(c *Config) { c.Events.BufferSize = 0 },
			wantErr: "events.buffer_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("GRAYLOGIC_LOG_LEVEL", "debug")
	t.Setenv("GRAYLOGIC_PLATFORM_DRIVER", "periph")
	t.Setenv("GRAYLOGIC_DATABASE_ENABLED", "true")
	t.Setenv("GRAYLOGIC_DATABASE_PATH", "/custom/path.db")
	t.Setenv("GRAYLOGIC_MQTT_ENABLED", "1")
	t.Setenv("GRAYLOGIC_MQTT_HOST", "mqtt.example.com")
	t.Setenv("GRAYLOGIC_MQTT_PORT", "8883")
	t.Setenv("GRAYLOGIC_MQTT_USERNAME", "testuser")
	t.Setenv("GRAYLOGIC_MQTT_PASSWORD", "testpass")
	t.Setenv("GRAYLOGIC_INFLUXDB_TOKEN", "secret-token")
	t.Setenv("GRAYLOGIC_API_ENABLED", "not-a-bool")
	t.Setenv("GRAYLOGIC_API_PORT", "9090")

	applyEnvOverrides(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Platform.Driver != "periph" {
		t.Errorf("Platform.Driver = %q, want periph", cfg.Platform.Driver)
	}
	if !cfg.Database.Enabled || cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if !cfg.MQTT.Enabled || cfg.MQTT.Broker.Host != "mqtt.example.com" || cfg.MQTT.Broker.Port != 8883 {
		t.Errorf("MQTT.Broker = %+v, enabled %v", cfg.MQTT.Broker, cfg.MQTT.Enabled)
	}
	if cfg.MQTT.Auth.Username != "testuser" || cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth = %+v", cfg.MQTT.Auth)
	}
	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
	if cfg.API.Enabled {
		t.Error("API.Enabled changed by unparsable value")
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Control.PollIntervalMS != 10 || cfg.Control.CoffeeTimerMS != 500 || cfg.Control.DebounceMS != 300 {
		t.Errorf("Control timings = %+v, want 10/500/300", cfg.Control)
	}
	if cfg.Control.InitialTemperatureC != 20 {
		t.Errorf("InitialTemperatureC = %d, want 20", cfg.Control.InitialTemperatureC)
	}
	if cfg.Database.Enabled || cfg.MQTT.Enabled || cfg.InfluxDB.Enabled || cfg.API.Enabled {
		t.Error("outer surfaces should be disabled by default")
	}
	if cfg.Events.BufferSize != 256 {
		t.Errorf("Events.BufferSize = %d, want 256", cfg.Events.BufferSize)
	}
}
