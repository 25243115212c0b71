package models

import (
	"time"

	"github.com/google/uuid"
)

// StakingStrategy identifies how a stake is sized for an account
type StakingStrategy string

const (
	StrategyKelly            StakingStrategy = "kelly"
	StrategyKellyFractional  StakingStrategy = "kelly_fractional"
	StrategyFixedPercentage  StakingStrategy = "fixed_percentage"
	StrategyFixedAmount      StakingStrategy = "fixed_amount"
	StrategyConfidenceScaled StakingStrategy = "confidence_scaled"
)

// RiskLevel classifies a proposed stake
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// BankrollAccount tracks a bettor's bankroll and loss limits.
// Mutated only through the transaction machine under the per-account lock.
type BankrollAccount struct {
	ID               uuid.UUID       `db:"id" json:"id" validate:"required"`
	OwnerID          string          `db:"owner_id" json:"owner_id" validate:"required"`
	Currency         string          `db:"currency" json:"currency" validate:"required,len=3"`
	InitialBankroll  float64         `db:"initial_bankroll" json:"initial_bankroll" validate:"required,gt=0"`
	CurrentBankroll  float64         `db:"current_bankroll" json:"current_bankroll" validate:"gte=0"`
	Strategy         StakingStrategy `db:"strategy" json:"strategy" validate:"required,oneof=kelly kelly_fractional fixed_percentage fixed_amount confidence_scaled"`
	MaxStakePercent  float64         `db:"max_stake_percent" json:"max_stake_percent" validate:"required,gt=0,lte=100"`
	DailyLossLimit   float64         `db:"daily_loss_limit" json:"daily_loss_limit" validate:"gte=0"`
	WeeklyLossLimit  float64         `db:"weekly_loss_limit" json:"weekly_loss_limit" validate:"gte=0"`
	DailyLoss        float64         `db:"daily_loss" json:"daily_loss"`
	WeeklyLoss       float64         `db:"weekly_loss" json:"weekly_loss"`
	DailyWindowStart time.Time       `db:"daily_window_start" json:"daily_window_start"`
	WeeklyWindowStart time.Time      `db:"weekly_window_start" json:"weekly_window_start"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// MaxStake returns the largest stake the cap allows at the current bankroll
func (a *BankrollAccount) MaxStake() float64 {
	return a.MaxStakePercent / 100.0 * a.CurrentBankroll
}

// ROI returns lifetime return on the initial bankroll as a percentage
func (a *BankrollAccount) ROI() float64 {
	if a.InitialBankroll == 0 {
		return 0
	}
	return (a.CurrentBankroll - a.InitialBankroll) / a.InitialBankroll * 100
}

// StakeRecommendation is an advisory stake suggestion. It never mutates the ledger.
type StakeRecommendation struct {
	AccountID       uuid.UUID       `json:"account_id"`
	PredictionID    *uuid.UUID      `json:"prediction_id,omitempty"`
	Strategy        StakingStrategy `json:"strategy"`
	Stake           float64         `json:"stake"`
	StakePercent    float64         `json:"stake_percent"`
	KellyFull       float64         `json:"kelly_full"`
	KellyFractional float64         `json:"kelly_fractional"`
	RiskLevel       RiskLevel       `json:"risk_level"`
	RiskFactors     []string        `json:"risk_factors,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
