package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-home/internal/history"
	"github.com/nerrad567/gray-logic-home/internal/homecontrol"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-home/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// StateSource provides the controller's latest published state.
// homecontrol.Controller implements it.
type StateSource interface {
	Snapshot() homecontrol.Snapshot
}

// HistoryReader lists stored controller events. history.Repository implements it.
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// HealthChecker is implemented by the database, MQTT and InfluxDB clients.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// DropCounter reports events discarded by the dispatcher.
type DropCounter interface {
	Dropped() uint64
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Logger    *logging.Logger
	State     StateSource
	History   HistoryReader            // nil disables /history (503)
	Checks    map[string]HealthChecker // reported by /health
	Events    DropCounter              // optional, reported by /metrics
	Hub       *Hub                     // required; also registered as an event sink
	SessionID string
	Version   string
}

// Server is the HTTP API server for the home controller.
//
// It manages the HTTP listener, routes and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	wsCfg     config.WebSocketConfig
	logger    *logging.Logger
	state     StateSource
	history   HistoryReader
	checks    map[string]HealthChecker
	events    DropCounter
	hub       *Hub
	sessionID string
	version   string
	startTime time.Time
	server    *http.Server
	listener  net.Listener
	cancel    context.CancelFunc
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.State == nil {
		return nil, fmt.Errorf("state source is required")
	}
	if deps.Hub == nil {
		return nil, fmt.Errorf("websocket hub is required")
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    deps.Logger,
		state:     deps.State,
		history:   deps.History,
		checks:    deps.Checks,
		events:    deps.Events,
		hub:       deps.Hub,
		sessionID: deps.SessionID,
		version:   deps.Version,
		startTime: time.Now(),
	}, nil
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start begins listening for HTTP connections.
//
// The listener is bound synchronously so a port conflict is reported here;
// serving continues in a background goroutine until Close.
//
// Parameters:
//   - ctx: Parent context for the hub's lifetime
//
// Returns:
//   - error: If the listener cannot be bound
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		s.cancel()
		return fmt.Errorf("binding API listener: %w", err)
	}
	s.listener = ln

	s.logger.Info("API server listening", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
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
