// Package api exposes the decision engine's operations over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/engine"
)

// Config holds the API server settings.
type Config struct {
	Port int
	// BettingEnabled gates the bet placement and settlement endpoints.
	// Prediction and recommendation stay available either way.
	BettingEnabled bool
}

// Server serves the engine's prediction, recommendation and betting
// endpoints.
type Server struct {
	engine *engine.Engine
	cfg    Config
	logger *logrus.Logger
	srv    *http.Server
}

// NewServer creates an API server over the engine.
func NewServer(eng *engine.Engine, cfg Config, logger *logrus.Logger) *Server {
	return &Server{engine: eng, cfg: cfg, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.POST("/predictions", s.handlePredict)
	v1.GET("/predictions/:id", s.handleGetPrediction)
	v1.POST("/accounts/:accountID/recommendations", s.handleRecommend)
	v1.POST("/accounts/:accountID/bets", s.handlePlaceBet)
	v1.POST("/bets/:id/settle", s.handleSettleBet)

	return r
}

// Start runs the server in the background.
func (s *Server) Start() {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":            s.cfg.Port,
			"betting_enabled": s.cfg.BettingEnabled,
		}).Info("API server starting")

		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}

	s.logger.Info("API server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
