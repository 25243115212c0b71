package models

import (
	"time"

	"github.com/google/uuid"
)

// ReasonCode explains a recommend/skip decision
type ReasonCode string

const (
	ReasonRecommended       ReasonCode = "RECOMMENDED"
	ReasonSkipLowOdds       ReasonCode = "SKIP_LOW_ODDS"
	ReasonSkipLowConfidence ReasonCode = "SKIP_LOW_CONFIDENCE"
	ReasonSkipBoth          ReasonCode = "SKIP_BOTH"
)

// PredictionRecord represents one model prediction evaluated against bookmaker odds.
// Records are created once per prediction call and never mutated.
type PredictionRecord struct {
	ID            uuid.UUID         `db:"id" json:"id" validate:"required"`
	LeagueKey     string            `db:"league_key" json:"league_key" validate:"required"`
	HomeTeam      string            `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam      string            `db:"away_team" json:"away_team" validate:"required"`
	Probabilities ProbabilityTriple `db:"probabilities" json:"probabilities"`
	Outcome       Outcome           `db:"outcome" json:"outcome" validate:"required,oneof=home away draw"`
	Confidence    float64           `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	Odds          OddsTriple        `db:"odds" json:"odds"`
	SelectedOdds  float64           `db:"selected_odds" json:"selected_odds" validate:"gt=1"`
	ExpectedValue float64           `db:"expected_value" json:"expected_value"`
	Recommend     bool              `db:"recommend" json:"recommend"`
	Reason        ReasonCode        `db:"reason" json:"reason" validate:"required"`
	PredictedAt   time.Time         `db:"predicted_at" json:"predicted_at" validate:"required"`
}

// Edge returns the fractional edge over break-even for the selected outcome
func (p *PredictionRecord) Edge() float64 {
	return p.Confidence*p.SelectedOdds - 1.0
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *PredictionRecord) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}
