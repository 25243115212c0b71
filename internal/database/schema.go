package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const accountsDDL = `
CREATE TABLE IF NOT EXISTS bankroll_accounts (
	id                  UUID PRIMARY KEY,
	owner_id            TEXT NOT NULL,
	currency            CHAR(3) NOT NULL,
	initial_bankroll    DOUBLE PRECISION NOT NULL,
	current_bankroll    DOUBLE PRECISION NOT NULL,
	strategy            TEXT NOT NULL,
	max_stake_percent   DOUBLE PRECISION NOT NULL,
	daily_loss_limit    DOUBLE PRECISION NOT NULL DEFAULT 0,
	weekly_loss_limit   DOUBLE PRECISION NOT NULL DEFAULT 0,
	daily_loss          DOUBLE PRECISION NOT NULL DEFAULT 0,
	weekly_loss         DOUBLE PRECISION NOT NULL DEFAULT 0,
	daily_window_start  TIMESTAMPTZ NOT NULL,
	weekly_window_start TIMESTAMPTZ NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);
`

const transactionsDDL = `
CREATE TABLE IF NOT EXISTS bet_transactions (
	id               UUID PRIMARY KEY,
	account_id       UUID NOT NULL REFERENCES bankroll_accounts(id),
	prediction_id    UUID,
	outcome          TEXT NOT NULL,
	odds             DOUBLE PRECISION NOT NULL,
	stake            DOUBLE PRECISION NOT NULL,
	potential_return DOUBLE PRECISION NOT NULL,
	status           TEXT NOT NULL,
	bankroll_before  DOUBLE PRECISION NOT NULL,
	bankroll_after   DOUBLE PRECISION,
	profit_loss      DOUBLE PRECISION,
	created_at       TIMESTAMPTZ NOT NULL,
	settled_at       TIMESTAMPTZ
);
`

var schemaStatements = []string{
	accountsDDL,
	transactionsDDL,
	`CREATE INDEX IF NOT EXISTS idx_bet_transactions_account_status
		ON bet_transactions (account_id, status);`,
	`CREATE INDEX IF NOT EXISTS idx_bet_transactions_settled_at
		ON bet_transactions (account_id, settled_at);`,
}

// EnsureSchema creates the tables if they do not exist, all statements in
// one transaction so a partial bootstrap never persists. Production runs
// migrations separately; this covers local and simulate setups.
func (db *DB) EnsureSchema(ctx context.Context) error {
	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
