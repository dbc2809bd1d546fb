// Package api provides the HTTP REST API for Rhapsody Core.
//
// It exposes the toggle batch entry point plus CRUD endpoints for
// projects, switchboards, switches, audioboards, audiotracks, DHT sensors
// and color presets, consumed by the installation's show-control tooling.
//
// The server follows the same lifecycle pattern as the infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rhapsody24/rhapsody-core/internal/audio"
	"github.com/rhapsody24/rhapsody-core/internal/color"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/config"
	"github.com/rhapsody24/rhapsody-core/internal/infrastructure/logging"
	"github.com/rhapsody24/rhapsody-core/internal/project"
	"github.com/rhapsody24/rhapsody-core/internal/sensor"
	"github.com/rhapsody24/rhapsody-core/internal/switchboard"
	"github.com/rhapsody24/rhapsody-core/internal/toggle"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config      config.ServerConfig
	Logger      *logging.Logger
	ProjectRepo project.Repository
	BoardRepo   switchboard.Repository
	AudioRepo   audio.Repository
	SensorRepo  sensor.Repository
	ColorRepo   color.Repository
	Toggle      *toggle.Service
	Player      *audio.Player
	Reader      *sensor.Reader
	Version     string
}

// Server is the HTTP API server for Rhapsody Core.
//
// It manages the HTTP listener, routes and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg         config.ServerConfig
	logger      *logging.Logger
	projectRepo project.Repository
	boardRepo   switchboard.Repository
	audioRepo   audio.Repository
	sensorRepo  sensor.Repository
	colorRepo   color.Repository
	toggle      *toggle.Service
	player      *audio.Player
	reader      *sensor.Reader
	version     string
	server      *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.BoardRepo == nil {
		return nil, fmt.Errorf("switchboard repository is required")
	}
	if deps.Toggle == nil {
		return nil, fmt.Errorf("toggle service is required")
	}

	return &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		projectRepo: deps.ProjectRepo,
		boardRepo:   deps.BoardRepo,
		audioRepo:   deps.AudioRepo,
		sensorRepo:  deps.SensorRepo,
		colorRepo:   deps.ColorRepo,
		toggle:      deps.Toggle,
		player:      deps.Player,
		reader:      deps.Reader,
		version:     deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener runs in a background goroutine; stop it with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
