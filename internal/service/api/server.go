package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"linkpreview/internal/config"
)

// APIService serves the link preview HTTP API
type APIService struct {
	config *config.Config
	logger *slog.Logger

	// HTTP server
	server *http.Server
}

// New creates a new API service serving handler on the configured port
func New(config *config.Config, logger *slog.Logger, handler http.Handler) (*APIService, error) {
	if handler == nil {
		return nil, errors.New("handler is required")
	}

	apiService := &APIService{
		config: config,
		logger: logger,
	}

	// Write timeout leaves room for the outbound fetch timeout
	apiService.server = &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      config.FetchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return apiService, nil
}

// Start begins serving the API. It returns nil after a graceful Stop.
func (s *APIService) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln
func (s *APIService) Serve(ln net.Listener) error {
	s.logger.Info("Server is running", "addr", ln.Addr().String(), "env", s.config.Env)

	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the API server
func (s *APIService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}
