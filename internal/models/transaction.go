package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus represents the lifecycle state of a bet transaction
type TransactionStatus string

const (
	TxStatusPending     TransactionStatus = "pending"
	TxStatusSettledWon  TransactionStatus = "settled_won"
	TxStatusSettledLost TransactionStatus = "settled_lost"
	TxStatusVoid        TransactionStatus = "void"
)

// BetTransaction represents one bet from placement to settlement.
// Status transitions exactly once: pending to settled_won, settled_lost or void.
type BetTransaction struct {
	ID              uuid.UUID         `db:"id" json:"id" validate:"required"`
	AccountID       uuid.UUID         `db:"account_id" json:"account_id" validate:"required"`
	PredictionID    *uuid.UUID        `db:"prediction_id" json:"prediction_id,omitempty"`
	Outcome         Outcome           `db:"outcome" json:"outcome" validate:"required,oneof=home away draw"`
	Odds            float64           `db:"odds" json:"odds" validate:"required,gt=1"`
	Stake           float64           `db:"stake" json:"stake" validate:"required,gt=0"`
	PotentialReturn float64           `db:"potential_return" json:"potential_return"`
	Status          TransactionStatus `db:"status" json:"status" validate:"required"`
	BankrollBefore  float64           `db:"bankroll_before" json:"bankroll_before"`
	BankrollAfter   *float64          `db:"bankroll_after" json:"bankroll_after,omitempty"`
	ProfitLoss      *float64          `db:"profit_loss" json:"profit_loss,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"created_at"`
	SettledAt       *time.Time        `db:"settled_at" json:"settled_at,omitempty"`
}

// IsSettled reports whether the transaction has left the pending state
func (t *BetTransaction) IsSettled() bool {
	return t.Status != TxStatusPending
}

// SettledProfitLoss returns the realised profit or loss, zero while pending
func (t *BetTransaction) SettledProfitLoss() float64 {
	if t.ProfitLoss == nil {
		return 0
	}
	return *t.ProfitLoss
}

// ROI returns the return on stake percentage for a settled transaction
func (t *BetTransaction) ROI() float64 {
	if t.Stake == 0 {
		return 0
	}
	return t.SettledProfitLoss() / t.Stake * 100
}
