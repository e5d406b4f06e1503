package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/conduitiot/conduit-core/internal/command"
	"github.com/conduitiot/conduit-core/internal/connection"
	"github.com/conduitiot/conduit-core/internal/device"
	"github.com/conduitiot/conduit-core/internal/history"
	"github.com/conduitiot/conduit-core/internal/infrastructure/config"
	"github.com/conduitiot/conduit-core/internal/infrastructure/logging"
	"github.com/conduitiot/conduit-core/internal/infrastructure/mqtt"
	"github.com/conduitiot/conduit-core/internal/template"
)

// gracefulShutdownTimeout is how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config            config.APIConfig
	WebSocket         config.WebSocketConfig
	Logger            *logging.Logger
	Dispatcher        *command.Dispatcher
	Templates         template.Repository
	TemplateValidator *template.Validator
	Devices           device.Repository
	History           history.Repository
	Tracker           connection.Tracker
	MQTT              *mqtt.Client
	Version           string
}

// Server is the HTTP API server. It exposes command dispatch, complex
// command management, actuation history, and the dispatched-command
// event feed over WebSocket.
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	logger     *logging.Logger
	dispatcher *command.Dispatcher
	templates  template.Repository
	validator  *template.Validator
	devices    device.Repository
	history    history.Repository
	tracker    connection.Tracker
	mqtt       *mqtt.Client
	version    string

	hub    *Hub
	server *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new API server with the given dependencies.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("api: logger is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("api: dispatcher is required")
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:        deps.Config,
		wsCfg:      deps.WebSocket,
		logger:     deps.Logger,
		dispatcher: deps.Dispatcher,
		templates:  deps.Templates,
		validator:  deps.TemplateValidator,
		devices:    deps.Devices,
		history:    deps.History,
		tracker:    deps.Tracker,
		mqtt:       deps.MQTT,
		version:    deps.Version,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.hub = NewHub(deps.WebSocket, deps.Logger)

	return s, nil
}

// Hub returns the WebSocket hub, for wiring as a command emitter.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  s.timeout(s.cfg.Timeouts.Read, 30),
		WriteTimeout: s.timeout(s.cfg.Timeouts.Write, 30),
		IdleTimeout:  s.timeout(s.cfg.Timeouts.Idle, 60),
	}

	if s.cfg.TLS.Enabled {
		s.logger.Info("starting HTTPS server", "addr", addr)
		err := s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("https server: %w", err)
		}
		return nil
	}

	s.logger.Info("starting HTTP server", "addr", addr)
	err := s.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server, waiting for in-flight
// requests up to gracefulShutdownTimeout.
func (s *Server) Close() error {
	s.cancel()
	s.hub.CloseAll()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	return nil
}

// HealthCheck verifies the server and its transport dependencies.
func (s *Server) HealthCheck(ctx context.Context) error {
	if s.mqtt != nil {
		if err := s.mqtt.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	return nil
}

func (s *Server) timeout(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
