// Package health serves liveness and readiness probes for the engine.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DatabasePinger checks database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// ModelSource reports which league models currently hold a live predictor.
type ModelSource interface {
	Loaded() []string
}

// StatusResponse is the JSON body for the /health and /live endpoints.
type StatusResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Leagues   int    `json:"leagues,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ReadinessResponse is the JSON body for the /ready endpoint.
type ReadinessResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Checks       map[string]string `json:"checks,omitempty"`
	ModelsLoaded int               `json:"models_loaded"`
	Duration     string            `json:"duration,omitempty"`
}

// Server answers container health probes with the engine's own state: the
// supported leagues, the loaded model count and database connectivity.
type Server struct {
	serviceName string
	version     string
	commit      string
	port        int
	leagues     []string
	models      ModelSource
	db          DatabasePinger
	logger      *logrus.Logger
	server      *http.Server

	mu    sync.RWMutex
	ready bool
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        int
	Leagues     []string
	Models      ModelSource
	DB          DatabasePinger
	Logger      *logrus.Logger
}

// NewServer creates a health server. The port comes from configuration; a
// zero value falls back to 8080.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port <= 0 {
		port = 8080
	}

	return &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		commit:      cfg.Commit,
		port:        port,
		leagues:     cfg.Leagues,
		models:      cfg.Models,
		db:          cfg.DB,
		logger:      cfg.Logger,
	}
}

// SetReady marks the service ready or not ready to take traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the service is marked ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start serves the probe endpoints in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"port":    s.port,
				"service": s.serviceName,
			}).Info("Health server starting")
		}

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.WithError(err).Error("Health server error")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully stops the health server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("Health server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Version:   s.version,
		Commit:    s.commit,
		Leagues:   len(s.leagues),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "ok",
		Service: s.serviceName,
	})
}

// handleReady reports whether the engine can serve decisions: the ready flag
// is set, the database answers a ping, and the loaded model count is
// exposed. Models load lazily on first use, so zero loaded models does not
// fail readiness.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	healthy := true

	if s.IsReady() {
		checks["service"] = "ok"
	} else {
		healthy = false
		checks["service"] = "not_ready"
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			healthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	loaded := 0
	if s.models != nil {
		loaded = len(s.models.Loaded())
		checks["models"] = fmt.Sprintf("%d of %d leagues loaded", loaded, len(s.leagues))
	}

	response := ReadinessResponse{
		Service:      s.serviceName,
		Checks:       checks,
		ModelsLoaded: loaded,
		Duration:     time.Since(start).String(),
	}

	if healthy {
		response.Status = "ok"
		writeJSON(w, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, response)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
