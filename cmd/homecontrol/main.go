// Gray Logic Home - morning routine and room controller
//
// This is the main entry point for the home controller. It runs a single
// polling loop over four inputs (a light switch and three buttons) and four
// outputs (coffee maker, lighting, door lock and a hub indicator), and
// optionally mirrors every loop event to SQLite, MQTT, InfluxDB and a
// WebSocket API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-home/internal/api"
	"github.com/nerrad567/gray-logic-home/internal/events"
	"github.com/nerrad567/gray-logic-home/internal/hal"
	"github.com/nerrad567/gray-logic-home/internal/history"
	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-home/internal/telemetry"
	"github.com/nerrad567/gray-logic-home/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// pruneInterval is how often expired event history is deleted.
const pruneInterval = time.Hour

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the controller and its optional surfaces, then blocks in the
// control loop until ctx is cancelled.
//
// Returns:
//   - error: nil on clean shutdown, or the first startup failure
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // Linear startup sequence
	log := logging.Default()
	log.Info("starting Gray Logic Home",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, configPath, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if configPath == "" {
		log.Info("no config file found, using defaults")
	} else {
		log.Info("configuration loaded", "path", configPath)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"site", cfg.Site.ID,
	)

	platform, inputs, err := buildPlatform(cfg, log)
	if err != nil {
		return fmt.Errorf("creating platform: %w", err)
	}

	dispatcher := events.NewDispatcher(cfg.Events.BufferSize)
	dispatcher.SetLogger(log.Component("events"))

	ctrl, err := homecontrol.New(homecontrol.Options{
		Platform: platform,
		Clock:    hal.NewSystemClock(),
		Report:   reportWriter(cfg.Control.ReportOutput),
		Emitter:  dispatcher,
		Logger:   log.Component("control"),
		Timing: homecontrol.Timing{
			PollIntervalMS: cfg.Control.PollIntervalMS,
			CoffeeTimerMS:  cfg.Control.CoffeeTimerMS,
			DebounceMS:     cfg.Control.DebounceMS,
		},
		InitialTemperatureC: &cfg.Control.InitialTemperatureC,
	})
	if err != nil {
		return fmt.Errorf("creating controller: %w", err)
	}

	// No output rule may run on hardware that failed to initialise.
	if err := ctrl.Init(); err != nil {
		return fmt.Errorf("initialising hardware: %w", err)
	}
	log.Info("hardware initialised", "driver", cfg.Platform.Driver)

	sessionID := uuid.NewString()
	log = log.With("session_id", sessionID)

	checks := make(map[string]api.HealthChecker)
	var historyRepo *history.Repository

	if cfg.Database.Enabled {
		db, dbErr := database.Open(ctx, database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		applied, migrateErr := db.Migrate(ctx, migrations.FS)
		if migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database ready", "path", cfg.Database.Path, "applied_migrations", len(applied))

		historyRepo = history.NewRepository(db.DB)
		dispatcher.AddSink(history.NewSink(historyRepo, sessionID))
		checks["database"] = db

		if retention := cfg.Retention(); retention > 0 {
			go pruneLoop(ctx, historyRepo, retention, log)
		}
	} else {
		log.Info("event history disabled")
	}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT ready", "client_id", cfg.MQTT.Broker.ClientID)

		dispatcher.AddSink(telemetry.NewMQTTSink(mqttClient, sessionID))
		checks["mqtt"] = mqttClient

		if inputs != nil {
			cmds := telemetry.NewInputCommands(inputs)
			cmds.SetLogger(log)
			if bindErr := cmds.Bind(mqttClient, byte(cfg.MQTT.QoS)); bindErr != nil {
				return fmt.Errorf("binding input commands: %w", bindErr)
			}
			log.Info("simulated inputs accept MQTT commands", "topic", mqtt.InputCommandFilter)
		}
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB)
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("flushing metrics")
			influxClient.Flush()
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetLogger(log)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		dispatcher.AddSink(telemetry.NewMetricsSink(influxClient))
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	if cfg.API.Enabled {
		hub := api.NewHub(cfg.WebSocket, log.Component("websocket"))
		dispatcher.AddSink(hub)

		deps := api.Deps{
			Config:    cfg.API,
			WS:        cfg.WebSocket,
			Logger:    log.Component("api"),
			State:     ctrl,
			Checks:    checks,
			Events:    dispatcher,
			Hub:       hub,
			SessionID: sessionID,
			Version:   version,
		}
		if historyRepo != nil {
			deps.History = historyRepo
		}

		server, apiErr := api.New(deps)
		if apiErr != nil {
			return fmt.Errorf("creating API server: %w", apiErr)
		}
		if startErr := server.Start(ctx); startErr != nil {
			return fmt.Errorf("starting API server: %w", startErr)
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	} else {
		log.Info("API disabled")
	}

	// The dispatcher outlives the loop so events from the final iteration
	// are delivered before sinks close.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()
	dispatchDone := make(chan error, 1)
	go func() {
		dispatchDone <- dispatcher.Run(dispatchCtx)
	}()

	log.Info("initialisation complete, control loop running")
	loopErr := ctrl.Run(ctx)

	stopDispatch()
	if dispatchErr := <-dispatchDone; dispatchErr != nil {
		log.Error("event dispatcher error", "error", dispatchErr)
	}

	if loopErr != nil {
		return fmt.Errorf("control loop: %w", loopErr)
	}

	log.Info("Gray Logic Home stopped", "dropped_events", dispatcher.Dropped())
	return nil
}

// buildPlatform creates the configured I/O driver. The returned InputSetter
// is nil for hardware drivers.
func buildPlatform(cfg *config.Config, log *logging.Logger) (hal.Platform, hal.InputSetter, error) {
	switch cfg.Platform.Driver {
	case config.DriverPeriph:
		specs := make(map[hal.Line]hal.PinSpec, len(cfg.Platform.Lines))
		for name, pin := range cfg.Platform.Lines {
			line, err := hal.ParseLine(name)
			if err != nil {
				return nil, nil, err
			}
			specs[line] = hal.PinSpec{Name: pin.Pin, ActiveLow: pin.ActiveLow, Pull: pin.Pull}
		}
		p, err := hal.NewPeriphPlatform(specs)
		if err != nil {
			return nil, nil, err
		}
		p.SetLogger(log.Component("gpio"))
		return p, nil, nil
	default:
		sim := hal.NewSimPlatform()
		return sim, sim, nil
	}
}

// reportWriter maps control.report_output to a writer.
func reportWriter(output string) io.Writer {
	switch output {
	case config.ReportStderr:
		return os.Stderr
	case config.ReportNone:
		return io.Discard
	default:
		return os.Stdout
	}
}

// pruneLoop deletes expired event history once at startup and then hourly.
func pruneLoop(ctx context.Context, repo *history.Repository, retention time.Duration, log *logging.Logger) {
	prune := func() {
		n, err := repo.Prune(ctx, retention)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("pruning event history", "error", err)
			}
			return
		}
		if n > 0 {
			log.Info("pruned event history", "deleted", n, "retention", retention.String())
		}
	}

	prune()
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune()
		}
	}
}
