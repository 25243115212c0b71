// Package engine combines model routing, decision rules and staking into the
// betting decision facade.
package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/league"
	"github.com/yourusername/stake-engine/internal/models"
)

// probabilitySumTolerance bounds how far a model's raw triple may drift from
// summing to one before it is rejected instead of renormalized.
const probabilitySumTolerance = 0.05

// Gate turns probabilities and odds into a recommend/skip decision.
type Gate struct {
	logger *logrus.Logger
}

// NewGate creates a prediction gate.
func NewGate(logger *logrus.Logger) *Gate {
	return &Gate{logger: logger}
}

// Decide evaluates a probability triple against bookmaker odds under a
// league's thresholds. The outcome is the arg-max probability (ties resolve
// home, away, draw), EV is confidence*odds - 1, and the reason code is
// exactly one of RECOMMENDED, SKIP_LOW_ODDS, SKIP_LOW_CONFIDENCE, SKIP_BOTH.
func (g *Gate) Decide(probs models.ProbabilityTriple, odds models.OddsTriple, profile *league.Profile) (*models.PredictionRecord, error) {
	if err := odds.Validate(); err != nil {
		return nil, err
	}

	sum := probs.Sum()
	if sum <= 0 || math.Abs(sum-1.0) > probabilitySumTolerance {
		return nil, fmt.Errorf("%w: probabilities sum to %.4f", models.ErrInvalidProbabilities, sum)
	}
	probs = probs.Normalized()

	outcome, confidence := probs.Max()
	selectedOdds := odds.For(outcome)
	ev := confidence*selectedOdds - 1.0

	confidenceOK := confidence >= profile.ConfidenceThreshold
	oddsOK := selectedOdds >= profile.OddsThreshold

	var reason models.ReasonCode
	switch {
	case confidenceOK && oddsOK:
		reason = models.ReasonRecommended
	case confidenceOK:
		reason = models.ReasonSkipLowOdds
	case oddsOK:
		reason = models.ReasonSkipLowConfidence
	default:
		reason = models.ReasonSkipBoth
	}

	record := &models.PredictionRecord{
		ID:            uuid.New(),
		LeagueKey:     profile.Key,
		Probabilities: probs,
		Outcome:       outcome,
		Confidence:    confidence,
		Odds:          odds,
		SelectedOdds:  selectedOdds,
		ExpectedValue: ev,
		Recommend:     reason == models.ReasonRecommended,
		Reason:        reason,
		PredictedAt:   time.Now(),
	}

	g.logger.WithFields(logrus.Fields{
		"league":     profile.Key,
		"outcome":    outcome,
		"confidence": confidence,
		"odds":       selectedOdds,
		"ev":         ev,
		"reason":     reason,
	}).Debug("Prediction gated")

	return record, nil
}
