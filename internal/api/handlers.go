package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/stake-engine/internal/engine"
	"github.com/yourusername/stake-engine/internal/league"
	"github.com/yourusername/stake-engine/internal/models"
)

type predictRequest struct {
	League string                 `json:"league" binding:"required"`
	Match  league.MatchAttributes `json:"match"`
}

type recommendRequest struct {
	PredictionID *uuid.UUID             `json:"prediction_id"`
	League       string                 `json:"league"`
	Match        league.MatchAttributes `json:"match"`
}

type placeBetRequest struct {
	Outcome      models.Outcome `json:"outcome" binding:"required"`
	Odds         float64        `json:"odds" binding:"required"`
	Stake        float64        `json:"stake" binding:"required"`
	PredictionID *uuid.UUID     `json:"prediction_id"`
}

type settleRequest struct {
	Won  bool `json:"won"`
	Void bool `json:"void"`
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	record, err := s.engine.Predict(c.Request.Context(), req.League, req.Match)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleGetPrediction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction id"})
		return
	}

	record, err := s.engine.Prediction(id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleRecommend(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.PredictionID == nil && req.League == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either prediction_id or league and match are required"})
		return
	}

	recommendation, err := s.engine.RecommendStake(c.Request.Context(), accountID, engine.RecommendInput{
		PredictionID: req.PredictionID,
		LeagueName:   req.League,
		Attributes:   req.Match,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, recommendation)
}

func (s *Server) handlePlaceBet(c *gin.Context) {
	if !s.cfg.BettingEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "betting is disabled by configuration"})
		return
	}

	accountID, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return
	}

	var req placeBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	tx, err := s.engine.PlaceBet(c.Request.Context(), accountID, req.Outcome, req.Odds, req.Stake, req.PredictionID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (s *Server) handleSettleBet(c *gin.Context) {
	if !s.cfg.BettingEnabled {
		c.JSON(http.StatusForbidden, gin.H{"error": "betting is disabled by configuration"})
		return
	}

	txID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	tx, err := s.engine.SettleBet(c.Request.Context(), txID, req.Won, req.Void)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// writeError maps the engine's error taxonomy onto HTTP statuses so callers
// can tell an unsupported league from a ledger refusal.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUnsupportedLeague), errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrInvalidOdds),
		errors.Is(err, models.ErrInvalidProbabilities),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrMissingRequiredField):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrInsufficientBankroll), errors.Is(err, models.ErrLimitExceeded):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrAlreadySettled):
		status = http.StatusConflict
	case errors.Is(err, models.ErrModelLoadFailure):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
