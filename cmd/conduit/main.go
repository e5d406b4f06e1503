// Conduit Core is the command validation and actuation dispatch service.
//
// It accepts component commands over HTTP, validates them against the
// component type catalog, expands complex commands, and delivers
// validated commands to devices over MQTT while recording actuation
// history.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-redis/redis/v8"

	"github.com/conduitiot/conduit-core/internal/api"
	"github.com/conduitiot/conduit-core/internal/catalog"
	"github.com/conduitiot/conduit-core/internal/command"
	"github.com/conduitiot/conduit-core/internal/connection"
	"github.com/conduitiot/conduit-core/internal/device"
	"github.com/conduitiot/conduit-core/internal/history"
	"github.com/conduitiot/conduit-core/internal/infrastructure/config"
	"github.com/conduitiot/conduit-core/internal/infrastructure/database"
	"github.com/conduitiot/conduit-core/internal/infrastructure/influxdb"
	"github.com/conduitiot/conduit-core/internal/infrastructure/logging"
	"github.com/conduitiot/conduit-core/internal/infrastructure/mqtt"
	"github.com/conduitiot/conduit-core/internal/template"

	_ "github.com/conduitiot/conduit-core/migrations"
)

// version is set at build time via -ldflags.
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "conduit: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath returns the configuration file path, honouring the
// CONDUIT_CONFIG environment variable.
func getConfigPath() string {
	if path := os.Getenv("CONDUIT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

func run(ctx context.Context) error {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, version)
	logger.Info("starting conduit core", "service_id", cfg.Service.ID)

	// Database and schema.
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	// Stores.
	catalogRepo := catalog.NewSQLiteRepository(db.DB)
	registry := catalog.NewRegistry(catalogRepo)
	registry.SetLogger(logger)
	if err := registry.RefreshCache(ctx); err != nil {
		return fmt.Errorf("loading component type catalog: %w", err)
	}

	deviceRepo := device.NewSQLiteRepository(db.DB)
	templateRepo := template.NewSQLiteRepository(db.DB)
	historyRepo := history.NewSQLiteRepository(db.DB)

	// Connection tracker.
	var tracker connection.Tracker
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		redisTracker := connection.NewRedisTracker(redisClient, cfg.GetBindingTTL())
		if err := redisTracker.HealthCheck(ctx); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		tracker = redisTracker
		logger.Info("using redis connection tracker", "addr", cfg.Redis.Addr)
	} else {
		tracker = connection.NewMemoryTracker(cfg.GetBindingTTL())
		logger.Info("using in-memory connection tracker")
	}

	// MQTT transport.
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to mqtt broker: %w", err)
	}
	mqttClient.SetLogger(logger)
	defer mqttClient.Close()

	if err := subscribeConnectionEvents(ctx, mqttClient, tracker, logger); err != nil {
		return fmt.Errorf("subscribing to connection events: %w", err)
	}

	// Optional actuation telemetry.
	emitters := command.MultiEmitter{command.NewMQTTEmitter(mqttClient)}
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to influxdb: %w", err)
		}
		defer influxClient.Close()
		influxClient.SetOnError(func(err error) {
			logger.Warn("influxdb write failed", "error", err)
		})
		emitters = append(emitters, &telemetryEmitter{client: influxClient})
		logger.Info("actuation telemetry enabled", "url", cfg.InfluxDB.URL)
	}

	// Command pipeline.
	sink := command.NewSink(historyRepo, nil)
	expander := command.NewExpander(templateRepo)
	dispatcher := command.NewDispatcher(deviceRepo, registry, expander, sink)
	dispatcher.SetLogger(logger)

	// API server. The WebSocket hub is itself an emitter, so it is wired
	// into the sink after construction.
	server, err := api.New(api.Deps{
		Config:            cfg.API,
		WebSocket:         cfg.WebSocket,
		Logger:            logger,
		Dispatcher:        dispatcher,
		Templates:         templateRepo,
		TemplateValidator: template.NewValidator(deviceRepo, registry),
		Devices:           deviceRepo,
		History:           historyRepo,
		Tracker:           tracker,
		MQTT:              mqttClient,
		Version:           version,
	})
	if err != nil {
		return fmt.Errorf("creating api server: %w", err)
	}
	sink.SetEmitter(append(emitters, server.Hub()))
	sink.SetLogger(logger)

	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	logger.Info("all health checks passed")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
	}

	if err := server.Close(); err != nil {
		logger.Error("closing api server", "error", err)
	}
	logger.Info("conduit core stopped")
	return nil
}

// healthCheck verifies the infrastructure connections before the API
// starts accepting traffic.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}
	return nil
}

// connectionEvent is the payload devices publish on conduit/connection/{deviceID}.
type connectionEvent struct {
	Status    string `json:"status"`
	Transport string `json:"transport"`
}

// subscribeConnectionEvents feeds device connection announcements into
// the tracker so the alert path can gate on reachability.
func subscribeConnectionEvents(ctx context.Context, client *mqtt.Client, tracker connection.Tracker, logger *logging.Logger) error {
	topics := mqtt.Topics{}
	return client.Subscribe(topics.AllDeviceConnections(), 1, func(topic string, payload []byte) error {
		deviceID := topic[strings.LastIndex(topic, "/")+1:]
		if deviceID == "" {
			return nil
		}

		var event connectionEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.Warn("malformed connection event", "topic", topic, "error", err)
			return nil
		}
		if event.Status == "offline" {
			return nil
		}

		transport := connection.TransportMQTT
		if event.Transport == string(connection.TransportWS) {
			transport = connection.TransportWS
		}
		if err := tracker.Touch(ctx, deviceID, transport); err != nil {
			logger.Warn("recording connection binding", "device_id", deviceID, "error", err)
		}
		return nil
	})
}

// telemetryEmitter mirrors dispatched commands into InfluxDB as
// actuation measurements. Writes are non-blocking and never fail the
// dispatch path.
type telemetryEmitter struct {
	client *influxdb.Client
}

func (e *telemetryEmitter) Emit(msg *command.Message) error {
	e.client.WriteActuation(
		msg.Content.DeviceID,
		msg.Content.ComponentID,
		msg.Content.Command,
		len(msg.Content.Params),
		"mqtt",
	)
	return nil
}
