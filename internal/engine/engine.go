package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/bankroll"
	"github.com/yourusername/stake-engine/internal/league"
	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/models"
	"github.com/yourusername/stake-engine/internal/predictor"
	"github.com/yourusername/stake-engine/internal/staking"
)

// Options tunes facade behavior that is not per-account.
type Options struct {
	StrategyParams staking.StrategyParams
	CacheTTL       time.Duration
	CacheMaxSize   int
}

// Engine is the decision-engine facade exposed to transport layers. It wires
// league resolution, model routing, gating, staking and the bankroll ledger.
type Engine struct {
	registry *league.Registry
	router   *predictor.Router
	gate     *Gate
	sizer    *staking.Sizer
	ledgers  *bankroll.Manager
	machine  *bankroll.Machine
	cache    *predictor.RecordCache
	params   staking.StrategyParams
	logger   *logrus.Logger

	mu      sync.RWMutex
	records map[uuid.UUID]*models.PredictionRecord
}

// New creates an engine over its collaborators.
func New(registry *league.Registry, router *predictor.Router, ledgers *bankroll.Manager, machine *bankroll.Machine, opts Options, logger *logrus.Logger) *Engine {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxSize := opts.CacheMaxSize
	if maxSize <= 0 {
		maxSize = 10000
	}

	return &Engine{
		registry: registry,
		router:   router,
		gate:     NewGate(logger),
		sizer:    staking.NewSizer(logger),
		ledgers:  ledgers,
		machine:  machine,
		cache:    predictor.NewRecordCache(ttl, maxSize),
		params:   opts.StrategyParams,
		logger:   logger,
		records:  make(map[uuid.UUID]*models.PredictionRecord),
	}
}

// Predict resolves the league, runs its model and gates the result against
// the league's thresholds. Repeated calls for the same fixture at the same
// prices are served from the record cache.
func (e *Engine) Predict(ctx context.Context, leagueName string, attrs league.MatchAttributes) (*models.PredictionRecord, error) {
	key, err := e.registry.Resolve(leagueName)
	if err != nil {
		return nil, err
	}

	cacheKey := predictor.CacheKey{
		LeagueKey: key,
		HomeTeam:  attrs.HomeTeam,
		AwayTeam:  attrs.AwayTeam,
		Odds:      attrs.Odds,
	}
	if cached := e.cache.Get(cacheKey); cached != nil {
		return cached, nil
	}

	probs, err := e.router.Predict(ctx, key, attrs)
	if err != nil {
		return nil, err
	}

	profile, err := e.registry.Profile(key)
	if err != nil {
		return nil, err
	}

	record, err := e.gate.Decide(probs, attrs.Odds, profile)
	if err != nil {
		return nil, err
	}
	record.HomeTeam = attrs.HomeTeam
	record.AwayTeam = attrs.AwayTeam

	e.mu.Lock()
	e.records[record.ID] = record
	e.mu.Unlock()

	e.cache.Set(cacheKey, record)
	metrics.RecordPrediction(key, string(record.Reason))

	return record, nil
}

// Prediction returns a previously issued prediction record.
func (e *Engine) Prediction(id uuid.UUID) (*models.PredictionRecord, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	record, ok := e.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: prediction %s", models.ErrNotFound, id)
	}
	return record, nil
}

// RecommendInput selects the prediction a recommendation is for: either an
// existing record by ID, or raw inputs to predict from.
type RecommendInput struct {
	PredictionID *uuid.UUID
	LeagueName   string
	Attributes   league.MatchAttributes
}

// RecommendStake sizes a stake for an account against a prediction under the
// account's staking strategy and risk policy. Advisory only: the ledger is
// read, never mutated.
func (e *Engine) RecommendStake(ctx context.Context, accountID uuid.UUID, input RecommendInput) (*models.StakeRecommendation, error) {
	var record *models.PredictionRecord
	var err error
	if input.PredictionID != nil {
		record, err = e.Prediction(*input.PredictionID)
	} else {
		record, err = e.Predict(ctx, input.LeagueName, input.Attributes)
	}
	if err != nil {
		return nil, err
	}

	ledger, err := e.ledgers.Ledger(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account := ledger.Snapshot()

	result, err := e.sizer.Size(staking.SizeInput{
		Bankroll:        account.CurrentBankroll,
		Strategy:        account.Strategy,
		Probability:     record.Confidence,
		Odds:            record.SelectedOdds,
		ConfidencePct:   record.Confidence * 100.0,
		Params:          e.params,
		MaxStakePercent: account.MaxStakePercent,
	})
	if err != nil {
		return nil, err
	}

	warnings := append([]string(nil), result.Warnings...)
	if !record.Recommend {
		warnings = append(warnings, fmt.Sprintf("prediction is not recommended (%s)", record.Reason))
	}
	if result.Stake > 0 {
		if ledgerWarnings, err := bankroll.CanPlace(&account, result.Stake); err != nil {
			warnings = append(warnings, fmt.Sprintf("ledger would refuse this stake: %v", err))
		} else {
			warnings = append(warnings, ledgerWarnings...)
		}
	}

	level, factors := staking.Classify(result.StakePercent, record.Confidence*100.0, record.SelectedOdds, record.ExpectedValue)
	metrics.StakeRecommendationsTotal.WithLabelValues(string(level)).Inc()

	recommendation := &models.StakeRecommendation{
		AccountID:       accountID,
		PredictionID:    &record.ID,
		Strategy:        account.Strategy,
		Stake:           result.Stake,
		StakePercent:    result.StakePercent,
		KellyFull:       result.Kelly.Full,
		KellyFractional: result.Kelly.Fractional,
		RiskLevel:       level,
		RiskFactors:     factors,
		Warnings:        warnings,
		CreatedAt:       time.Now(),
	}

	e.logger.WithFields(logrus.Fields{
		"account_id":    accountID,
		"prediction_id": record.ID,
		"stake":         recommendation.Stake,
		"risk_level":    recommendation.RiskLevel,
	}).Info("Stake recommendation issued")

	return recommendation, nil
}

// PlaceBet places a bet through the transaction machine.
func (e *Engine) PlaceBet(ctx context.Context, accountID uuid.UUID, outcome models.Outcome, odds, stake float64, predictionID *uuid.UUID) (*models.BetTransaction, error) {
	return e.machine.Place(ctx, accountID, outcome, odds, stake, predictionID)
}

// SettleBet settles a pending bet through the transaction machine.
func (e *Engine) SettleBet(ctx context.Context, txID uuid.UUID, won, void bool) (*models.BetTransaction, error) {
	return e.machine.Settle(ctx, txID, won, void)
}

// CacheStats exposes record cache statistics for monitoring.
func (e *Engine) CacheStats() (hits, misses uint64, ratio float64) {
	return e.cache.Stats()
}
