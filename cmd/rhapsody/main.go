// Rhapsody Core - installation control plane.
//
// This is the main entry point for the Rhapsody Core service. It wires the
// SQLite-backed device inventory, the switch toggle pipeline, the audioboard
// player client, the DHT sensor reader and the HTTP API together, with
// optional MQTT state publishing and InfluxDB telemetry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/rhapsody24/rhapsody-core/migrations"

	"github.com/rhapsody24/rhapsody-core/internal/api"
	"github.com/rhapsody24/rhapsody-core/internal/audio"
	"github.com/rhapsody24/rhapsody-core/internal/color"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/config"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/database"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/influxdb"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/logging"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/mqtt"
	"github.com/rhapsody24/rhapsody-core/internal/project"
	"github.com/rhapsody24/rhapsody-core/internal/sensor"
	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
	"github.com/rhapsody24/rhapsody-core/internal/toggle"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Rhapsody Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Repositories share the one connection; SQLite serialises writers.
	boardRepo := switchboard.NewSQLiteRepository(db.DB)
	projectRepo := project.NewSQLiteRepository(db.DB)
	audioRepo := audio.NewSQLiteRepository(db.DB)
	sensorRepo := sensor.NewSQLiteRepository(db.DB)
	colorRepo := color.NewSQLiteRepository(db.DB)

	// Toggle pipeline
	toggleSvc := toggle.NewService(boardRepo, boardRepo, cfg.GetDispatchTimeout())
	toggleSvc.SetLogger(log)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		toggleSvc.SetPublisher(mqttClient)
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional); feeds the sensor reading recorder
	var influxClient *influxdb.Client
	var recorder sensor.Recorder
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		recorder = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	player := audio.NewPlayer(cfg.GetDispatchTimeout())
	reader := sensor.NewReader(cfg.GetDispatchTimeout(), recorder)

	// HTTP API
	server, err := api.New(api.Deps{
		Config:      cfg.Server,
		Logger:      log,
		ProjectRepo: projectRepo,
		BoardRepo:   boardRepo,
		AudioRepo:   audioRepo,
		SensorRepo:  sensorRepo,
		ColorRepo:   colorRepo,
		Toggle:      toggleSvc,
		Player:      player,
		Reader:      reader,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.Server.Host, "port", cfg.Server.Port)

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Rhapsody Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses RHAPSODY_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("RHAPSODY_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
