// Package repository provides durable storage for bankroll accounts and bet
// transactions, keyed by opaque ids.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/stake-engine/internal/models"
)

// AccountRepository persists bankroll accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *models.BankrollAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BankrollAccount, error)
	Update(ctx context.Context, account *models.BankrollAccount) error
	GetAll(ctx context.Context) ([]*models.BankrollAccount, error)
}

// TransactionRepository persists bet transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.BetTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BetTransaction, error)
	Update(ctx context.Context, tx *models.BetTransaction) error
	GetPendingByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.BetTransaction, error)
	GetSettledByAccount(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.BetTransaction, error)
}
