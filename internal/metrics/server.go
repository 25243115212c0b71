package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Server exposes the Prometheus registry over HTTP.
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a metrics HTTP server on the given port and path.
func NewServer(port int, path string, logger *logrus.Logger) *Server {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, Handler())

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves the metrics endpoint in the background.
func (s *Server) Start() {
	go func() {
		if s.logger != nil {
			s.logger.WithField("addr", s.server.Addr).Info("Metrics server starting")
		}
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.WithError(err).Error("Metrics server failed")
			}
		}
	}()
}

// Stop gracefully shuts the metrics server down.
func (s *Server) Stop(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.WithError(err).Error("Metrics server shutdown failed")
	}
}
