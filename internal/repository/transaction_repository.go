package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/stake-engine/internal/database"
	"github.com/yourusername/stake-engine/internal/models"
)

// PostgresTransactionRepository implements TransactionRepository for PostgreSQL
type PostgresTransactionRepository struct {
	db *database.DB
}

// NewPostgresTransactionRepository creates a new transaction repository
func NewPostgresTransactionRepository(db *database.DB) TransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

const transactionColumns = `id, account_id, prediction_id, outcome, odds, stake, potential_return,
	       status, bankroll_before, bankroll_after, profit_loss, created_at, settled_at`

// Create inserts a new bet transaction
func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *models.BetTransaction) error {
	query := `
		INSERT INTO bet_transactions (id, account_id, prediction_id, outcome, odds, stake, potential_return,
		                              status, bankroll_before, bankroll_after, profit_loss, created_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		tx.ID, tx.AccountID, tx.PredictionID, tx.Outcome, tx.Odds, tx.Stake, tx.PotentialReturn,
		tx.Status, tx.BankrollBefore, tx.BankrollAfter, tx.ProfitLoss, tx.CreatedAt, tx.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID
func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BetTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bet_transactions WHERE id = $1`

	tx := &models.BetTransaction{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&tx.ID, &tx.AccountID, &tx.PredictionID, &tx.Outcome, &tx.Odds, &tx.Stake, &tx.PotentialReturn,
		&tx.Status, &tx.BankrollBefore, &tx.BankrollAfter, &tx.ProfitLoss, &tx.CreatedAt, &tx.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return tx, nil
}

// Update persists settlement fields. The status guard in SQL backs up the
// in-memory lifecycle check: a settled row never returns to pending.
func (r *PostgresTransactionRepository) Update(ctx context.Context, tx *models.BetTransaction) error {
	query := `
		UPDATE bet_transactions
		SET status = $2, bankroll_after = $3, profit_loss = $4, settled_at = $5
		WHERE id = $1 AND (status = 'pending' OR status = $2)
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		tx.ID, tx.Status, tx.BankrollAfter, tx.ProfitLoss, tx.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetPendingByAccount retrieves the open transactions for an account
func (r *PostgresTransactionRepository) GetPendingByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.BetTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bet_transactions
		WHERE account_id = $1 AND status = 'pending'
		ORDER BY created_at DESC`

	return r.queryTransactions(ctx, query, accountID)
}

// GetSettledByAccount retrieves transactions settled within a time range
func (r *PostgresTransactionRepository) GetSettledByAccount(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.BetTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM bet_transactions
		WHERE account_id = $1 AND status != 'pending' AND settled_at >= $2 AND settled_at < $3
		ORDER BY settled_at DESC`

	return r.queryTransactions(ctx, query, accountID, start, end)
}

func (r *PostgresTransactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.BetTransaction, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []*models.BetTransaction
	for rows.Next() {
		tx := &models.BetTransaction{}
		err := rows.Scan(
			&tx.ID, &tx.AccountID, &tx.PredictionID, &tx.Outcome, &tx.Odds, &tx.Stake, &tx.PotentialReturn,
			&tx.Status, &tx.BankrollBefore, &tx.BankrollAfter, &tx.ProfitLoss, &tx.CreatedAt, &tx.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}
