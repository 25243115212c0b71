package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/stake-engine/internal/database"
	"github.com/yourusername/stake-engine/internal/models"
)

// PostgresAccountRepository implements AccountRepository for PostgreSQL
type PostgresAccountRepository struct {
	db *database.DB
}

// NewPostgresAccountRepository creates a new account repository
func NewPostgresAccountRepository(db *database.DB) AccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, owner_id, currency, initial_bankroll, current_bankroll, strategy,
	       max_stake_percent, daily_loss_limit, weekly_loss_limit, daily_loss, weekly_loss,
	       daily_window_start, weekly_window_start, created_at, updated_at`

// Create inserts a new bankroll account
func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.BankrollAccount) error {
	query := `
		INSERT INTO bankroll_accounts (id, owner_id, currency, initial_bankroll, current_bankroll, strategy,
		                               max_stake_percent, daily_loss_limit, weekly_loss_limit, daily_loss,
		                               weekly_loss, daily_window_start, weekly_window_start, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		account.ID, account.OwnerID, account.Currency, account.InitialBankroll, account.CurrentBankroll,
		account.Strategy, account.MaxStakePercent, account.DailyLossLimit, account.WeeklyLossLimit,
		account.DailyLoss, account.WeeklyLoss, account.DailyWindowStart, account.WeeklyWindowStart,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BankrollAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM bankroll_accounts WHERE id = $1`

	account := &models.BankrollAccount{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&account.ID, &account.OwnerID, &account.Currency, &account.InitialBankroll, &account.CurrentBankroll,
		&account.Strategy, &account.MaxStakePercent, &account.DailyLossLimit, &account.WeeklyLossLimit,
		&account.DailyLoss, &account.WeeklyLoss, &account.DailyWindowStart, &account.WeeklyWindowStart,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// Update persists the mutable account fields
func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.BankrollAccount) error {
	query := `
		UPDATE bankroll_accounts
		SET current_bankroll = $2, strategy = $3, max_stake_percent = $4, daily_loss_limit = $5,
		    weekly_loss_limit = $6, daily_loss = $7, weekly_loss = $8, daily_window_start = $9,
		    weekly_window_start = $10, updated_at = $11
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		account.ID, account.CurrentBankroll, account.Strategy, account.MaxStakePercent,
		account.DailyLossLimit, account.WeeklyLossLimit, account.DailyLoss, account.WeeklyLoss,
		account.DailyWindowStart, account.WeeklyWindowStart, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetAll retrieves every account, for reconciliation jobs
func (r *PostgresAccountRepository) GetAll(ctx context.Context) ([]*models.BankrollAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM bankroll_accounts ORDER BY created_at`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.BankrollAccount
	for rows.Next() {
		account := &models.BankrollAccount{}
		err := rows.Scan(
			&account.ID, &account.OwnerID, &account.Currency, &account.InitialBankroll, &account.CurrentBankroll,
			&account.Strategy, &account.MaxStakePercent, &account.DailyLossLimit, &account.WeeklyLossLimit,
			&account.DailyLoss, &account.WeeklyLoss, &account.DailyWindowStart, &account.WeeklyWindowStart,
			&account.CreatedAt, &account.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
