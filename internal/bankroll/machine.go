package bankroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/logger"
	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/models"
	"github.com/yourusername/stake-engine/internal/repository"
)

// Machine drives the bet transaction lifecycle. Every placement and
// settlement is one atomic unit of work against exactly one account: the
// ledger mutation and the transaction write happen inside the same
// per-account critical section, never as a separate read-then-subtract.
type Machine struct {
	ledgers *Manager
	txs     repository.TransactionRepository
	audit   *logger.AuditLogger
	logger  *logrus.Logger
}

// NewMachine creates a transaction machine over the ledger manager and
// transaction storage.
func NewMachine(ledgers *Manager, txs repository.TransactionRepository, audit *logger.AuditLogger, log *logrus.Logger) *Machine {
	return &Machine{ledgers: ledgers, txs: txs, audit: audit, logger: log}
}

// Place creates a pending transaction and debits the stake. It fails with
// ErrInsufficientBankroll or ErrLimitExceeded when the ledger refuses, and
// with ErrInvalidOdds/ErrInvalidInput on malformed inputs.
func (m *Machine) Place(ctx context.Context, accountID uuid.UUID, outcome models.Outcome, odds, stake float64, predictionID *uuid.UUID) (*models.BetTransaction, error) {
	start := time.Now()

	if odds <= 1.0 {
		return nil, fmt.Errorf("%w: decimal odds must be greater than 1.0, got %.2f", models.ErrInvalidOdds, odds)
	}

	ledger, err := m.ledgers.Ledger(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var tx *models.BetTransaction
	err = ledger.Update(func(account *models.BankrollAccount) error {
		warnings, err := CanPlace(account, stake)
		if err != nil {
			metrics.RecordLedgerRefusal(refusalReason(err))
			m.audit.LogLimitRefusal(accountID, stake, refusalReason(err))
			return err
		}
		for _, warning := range warnings {
			m.logger.WithFields(logrus.Fields{
				"account_id": accountID,
				"stake":      stake,
			}).Warn(warning)
		}

		now := m.ledgers.clock()
		tx = &models.BetTransaction{
			ID:              uuid.New(),
			AccountID:       accountID,
			PredictionID:    predictionID,
			Outcome:         outcome,
			Odds:            odds,
			Stake:           stake,
			PotentialReturn: stake * odds,
			Status:          models.TxStatusPending,
			BankrollBefore:  account.CurrentBankroll,
			CreatedAt:       now,
		}

		account.CurrentBankroll -= stake
		account.UpdatedAt = now

		if err := m.txs.Create(ctx, tx); err != nil {
			// Storage failed: undo the in-memory debit before releasing
			// the lock so ledger and storage stay consistent.
			account.CurrentBankroll += stake
			return fmt.Errorf("failed to persist transaction: %w", err)
		}
		if err := m.ledgers.accounts.Update(ctx, account); err != nil {
			account.CurrentBankroll += stake
			return fmt.Errorf("failed to persist account: %w", err)
		}

		metrics.UpdateBankroll(accountID.String(), account.CurrentBankroll)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBetPlaced(time.Since(start).Seconds())
	m.audit.LogBetPlacement(tx.ID, accountID, string(outcome), odds, stake, tx.CreatedAt)

	return tx, nil
}

// Settle resolves a pending transaction to won, lost or void. Settling an
// already-settled transaction fails with ErrAlreadySettled and never credits
// twice. Profit rules: void 0, won stake*(odds-1), lost -stake; the ledger is
// credited stake + profit_loss and negative profit is folded into the loss
// windows.
func (m *Machine) Settle(ctx context.Context, txID uuid.UUID, won, void bool) (*models.BetTransaction, error) {
	start := time.Now()

	// Only used to find the owning account; the authoritative status check
	// happens on a re-read inside the critical section.
	peek, err := m.txs.GetByID(ctx, txID)
	if err != nil {
		return nil, err
	}

	ledger, err := m.ledgers.Ledger(ctx, peek.AccountID)
	if err != nil {
		return nil, err
	}

	var settled *models.BetTransaction
	err = ledger.Update(func(account *models.BankrollAccount) error {
		tx, err := m.txs.GetByID(ctx, txID)
		if err != nil {
			return err
		}
		if tx.IsSettled() {
			return fmt.Errorf("%w: transaction %s is %s", models.ErrAlreadySettled, tx.ID, tx.Status)
		}

		var profitLoss float64
		switch {
		case void:
			tx.Status = models.TxStatusVoid
			profitLoss = 0
		case won:
			tx.Status = models.TxStatusSettledWon
			profitLoss = tx.Stake * (tx.Odds - 1.0)
		default:
			tx.Status = models.TxStatusSettledLost
			profitLoss = -tx.Stake
		}

		now := m.ledgers.clock()
		account.CurrentBankroll += tx.Stake + profitLoss
		account.UpdatedAt = now
		if profitLoss < 0 {
			account.DailyLoss += -profitLoss
			account.WeeklyLoss += -profitLoss
		}

		after := account.CurrentBankroll
		tx.ProfitLoss = &profitLoss
		tx.BankrollAfter = &after
		tx.SettledAt = &now

		if err := m.txs.Update(ctx, tx); err != nil {
			m.rollbackSettlement(account, tx.Stake, profitLoss)
			return fmt.Errorf("failed to persist settlement: %w", err)
		}
		if err := m.ledgers.accounts.Update(ctx, account); err != nil {
			m.rollbackSettlement(account, tx.Stake, profitLoss)
			return fmt.Errorf("failed to persist account: %w", err)
		}

		metrics.UpdateBankroll(account.ID.String(), account.CurrentBankroll)
		metrics.UpdateDailyLoss(account.ID.String(), account.DailyLoss)
		settled = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBetSettled(string(settled.Status), time.Since(start).Seconds())
	m.audit.LogBetSettlement(settled.ID, settled.AccountID, string(settled.Status), settled.SettledProfitLoss(), *settled.SettledAt)

	return settled, nil
}

// PendingExposure sums the outstanding pending stakes for an account.
func (m *Machine) PendingExposure(ctx context.Context, accountID uuid.UUID) (float64, error) {
	pending, err := m.txs.GetPendingByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, tx := range pending {
		total += tx.Stake
	}
	return total, nil
}

func (m *Machine) rollbackSettlement(account *models.BankrollAccount, stake, profitLoss float64) {
	account.CurrentBankroll -= stake + profitLoss
	if profitLoss < 0 {
		account.DailyLoss -= -profitLoss
		account.WeeklyLoss -= -profitLoss
	}
}

func refusalReason(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientBankroll):
		return "insufficient_bankroll"
	case errors.Is(err, models.ErrLimitExceeded):
		return "limit_exceeded"
	default:
		return "invalid_input"
	}
}
