package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/specsinspector/webapp/internal/pkg/config"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
	router     http.Handler
}

// New creates a new Server instance with all dependencies. The
// http.Client here is the one shared by every per-request gateway
// client; its timeout is the fixed budget for platform API calls.
func New(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Gateway.RequestTimeout,
		},
	}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// HTTPClient returns the shared outbound client
func (s *Server) HTTPClient() *http.Client {
	return s.httpClient
}

// GetLogger returns the logger instance
func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

// GetConfig returns the configuration
func (s *Server) GetConfig() *config.Config {
	return s.cfg
}
