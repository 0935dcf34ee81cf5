package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-home/internal/hal"
)

// DefaultPath is used when GRAYLOGIC_CONFIG is not set.
const DefaultPath = "configs/config.yaml"

// Platform driver names.
const (
	DriverSim    = "sim"
	DriverPeriph = "periph"
)

// Report destinations for the temperature report line.
const (
	ReportStdout = "stdout"
	ReportStderr = "stderr"
	ReportNone   = "none"
)

// Config is the root configuration structure for the home controller.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Logging   LoggingConfig   `yaml:"logging"`
	Control   ControlConfig   `yaml:"control"`
	Platform  PlatformConfig  `yaml:"platform"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Events    EventsConfig    `yaml:"events"`
}

// SiteConfig identifies the installation.
type SiteConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ControlConfig contains the control loop timings and report settings.
type ControlConfig struct {
	PollIntervalMS      int64  `yaml:"poll_interval_ms"`
	CoffeeTimerMS       int64  `yaml:"coffee_timer_ms"`
	DebounceMS          int64  `yaml:"debounce_ms"`
	InitialTemperatureC int    `yaml:"initial_temperature_c"`
	ReportOutput        string `yaml:"report_output"`
}

// PlatformConfig selects the I/O driver.
type PlatformConfig struct {
	// Driver is "sim" (in-memory lines) or "periph" (real GPIO).
	Driver string `yaml:"driver"`

	// Lines maps line names (light_switch, button1, ...) to GPIO pins.
	// Only used by the periph driver.
	Lines map[string]PinConfig `yaml:"lines"`
}

// PinConfig maps one logical line to a GPIO pin.
type PinConfig struct {
	Pin       string `yaml:"pin"`
	ActiveLow bool   `yaml:"active_low"`
	Pull      string `yaml:"pull"`
}

// DatabaseConfig contains SQLite event history settings.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Path           string `yaml:"path"`
	WALMode        bool   `yaml:"wal_mode"`
	BusyTimeout    int    `yaml:"busy_timeout"`
	RetentionHours int    `yaml:"retention_hours"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// EventsConfig sizes the event dispatcher.
type EventsConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: GRAYLOGIC_SECTION_KEY
// For example: GRAYLOGIC_DATABASE_PATH, GRAYLOGIC_API_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file; it must exist
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadFromEnv loads the file named by GRAYLOGIC_CONFIG. When the variable is
// unset DefaultPath is tried and a missing file falls back to defaults.
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - string: Path that was read, or "" when defaults were used
//   - error: If an explicit file is missing or loading fails
func LoadFromEnv() (*Config, string, error) {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}

	cfg, err := Load(DefaultPath)
	if err == nil {
		return cfg, DefaultPath, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, DefaultPath, err
	}

	cfg, err = finish(defaultConfig())
	return cfg, "", err
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults. Only the control
// loop runs by default; every outer surface is opt-in.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:   "home-001",
			Name: "Home",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Control: ControlConfig{
			PollIntervalMS:      10,
			CoffeeTimerMS:       500,
			DebounceMS:          300,
			InitialTemperatureC: 20,
			ReportOutput:        ReportStdout,
		},
		Platform: PlatformConfig{
			Driver: DriverSim,
		},
		Database: DatabaseConfig{
			Path:           "./data/homecontrol.db",
			WALMode:        true,
			BusyTimeout:    5,
			RetentionHours: 168,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graylogic-home",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "graylogic",
			Bucket:        "home",
			BatchSize:     100,
			FlushInterval: 10,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Events: EventsConfig{
			BufferSize: 256,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: GRAYLOGIC_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Logging
	if v := os.Getenv("GRAYLOGIC_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Platform
	if v := os.Getenv("GRAYLOGIC_PLATFORM_DRIVER"); v != "" {
		cfg.Platform.Driver = v
	}

	// Database
	envBool("GRAYLOGIC_DATABASE_ENABLED", &cfg.Database.Enabled)
	if v := os.Getenv("GRAYLOGIC_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	envBool("GRAYLOGIC_MQTT_ENABLED", &cfg.MQTT.Enabled)
	if v := os.Getenv("GRAYLOGIC_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	envInt("GRAYLOGIC_MQTT_PORT", &cfg.MQTT.Broker.Port)
	if v := os.Getenv("GRAYLOGIC_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GRAYLOGIC_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	envBool("GRAYLOGIC_INFLUXDB_ENABLED", &cfg.InfluxDB.Enabled)
	if v := os.Getenv("GRAYLOGIC_INFLUXDB_URL"); v != "" {
		cfg.InfluxDB.URL = v
	}
	if v := os.Getenv("GRAYLOGIC_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// API
	envBool("GRAYLOGIC_API_ENABLED", &cfg.API.Enabled)
	if v := os.Getenv("GRAYLOGIC_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	envInt("GRAYLOGIC_API_PORT", &cfg.API.Port)
}

// envBool overwrites dst when key holds a parsable boolean.
func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// envInt overwrites dst when key holds a parsable integer.
func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of every validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	// Control loop
	if c.Control.PollIntervalMS <= 0 {
		errs = append(errs, "control.poll_interval_ms must be positive")
	}
	if c.Control.CoffeeTimerMS <= 0 {
		errs = append(errs, "control.coffee_timer_ms must be positive")
	}
	if c.Control.DebounceMS <= 0 {
		errs = append(errs, "control.debounce_ms must be positive")
	}
	switch c.Control.ReportOutput {
	case ReportStdout, ReportStderr, ReportNone:
	default:
		errs = append(errs, "control.report_output must be stdout, stderr, or none")
	}

	errs = append(errs, c.validatePlatform()...)

	if c.Database.Enabled {
		if c.Database.Path == "" {
			errs = append(errs, "database.path is required")
		}
		if c.Database.RetentionHours < 0 {
			errs = append(errs, "database.retention_hours must not be negative")
		}
	}

	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required")
		}
		if c.InfluxDB.Bucket == "" {
			errs = append(errs, "influxdb.bucket is required")
		}
	}

	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if c.Events.BufferSize <= 0 {
		errs = append(errs, "events.buffer_size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

func (c *Config) validatePlatform() []string {
	var errs []string

	names := make([]string, 0, len(c.Platform.Lines))
	for name := range c.Platform.Lines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := hal.ParseLine(name); err != nil {
			errs = append(errs, fmt.Sprintf("platform.lines: unknown line %q", name))
		}
	}

	switch c.Platform.Driver {
	case DriverSim:
	case DriverPeriph:
		for _, line := range hal.AllLines() {
			if c.Platform.Lines[line.String()].Pin == "" {
				errs = append(errs, fmt.Sprintf("platform.lines.%s.pin is required for the periph driver", line))
			}
		}
	default:
		errs = append(errs, "platform.driver must be sim or periph")
	}

	return errs
}

// Retention returns the event history retention as a Duration.
// Zero disables pruning.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Database.RetentionHours) * time.Hour
}
