// Package bankroll owns the bankroll ledger state machine: per-account
// balances, loss-limit windows and the bet transaction lifecycle.
package bankroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/models"
	"github.com/yourusername/stake-engine/internal/repository"
)

const (
	dailyWindow  = 24 * time.Hour
	weeklyWindow = 7 * 24 * time.Hour

	// remainingLimitWarnShare triggers the advisory warning when one stake
	// would consume more than this share of the remaining daily limit.
	remainingLimitWarnShare = 0.5
)

// Ledger serializes every mutation of one account. All balance reads and
// writes go through Update so window resets, limit checks and debits/credits
// share a single critical section.
type Ledger struct {
	mu      sync.Mutex
	account *models.BankrollAccount
	clock   func() time.Time
	logger  *logrus.Logger
}

func newLedger(account *models.BankrollAccount, clock func() time.Time, logger *logrus.Logger) *Ledger {
	return &Ledger{account: account, clock: clock, logger: logger}
}

// Update runs fn against the account under the per-account lock, after lazily
// resetting any elapsed loss windows. fn must not retain the account pointer.
func (l *Ledger) Update(fn func(account *models.BankrollAccount) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetWindowsLocked(l.clock())
	return fn(l.account)
}

// Snapshot returns a copy of the account state after window evaluation.
func (l *Ledger) Snapshot() models.BankrollAccount {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.resetWindowsLocked(l.clock())
	return *l.account
}

// resetWindowsLocked resets the daily and weekly loss aggregates once their
// window has fully elapsed. Idempotent: after a reset the elapsed time is
// below the period again, so a second call in the same instant is a no-op.
func (l *Ledger) resetWindowsLocked(now time.Time) {
	acct := l.account

	if acct.DailyWindowStart.IsZero() {
		acct.DailyWindowStart = now
	}
	if acct.WeeklyWindowStart.IsZero() {
		acct.WeeklyWindowStart = now
	}

	if !now.Before(acct.DailyWindowStart.Add(dailyWindow)) {
		l.logger.WithFields(logrus.Fields{
			"account_id":   acct.ID,
			"daily_loss":   acct.DailyLoss,
			"window_start": acct.DailyWindowStart,
		}).Debug("Daily loss window reset")
		acct.DailyLoss = 0
		acct.DailyWindowStart = now
	}
	if !now.Before(acct.WeeklyWindowStart.Add(weeklyWindow)) {
		acct.WeeklyLoss = 0
		acct.WeeklyWindowStart = now
	}
}

// CanPlace checks a stake against balance, stake cap and loss limits.
// Hard refusals come back as an error; warnings are advisory and never block.
func CanPlace(account *models.BankrollAccount, stake float64) ([]string, error) {
	if stake <= 0 {
		return nil, fmt.Errorf("%w: stake must be positive, got %.2f", models.ErrInvalidInput, stake)
	}
	if stake > account.CurrentBankroll {
		return nil, fmt.Errorf("%w: stake %.2f exceeds bankroll %.2f",
			models.ErrInsufficientBankroll, stake, account.CurrentBankroll)
	}
	if maxStake := account.MaxStake(); stake > maxStake {
		return nil, fmt.Errorf("%w: stake %.2f exceeds max stake %.2f (%.1f%% of bankroll)",
			models.ErrLimitExceeded, stake, maxStake, account.MaxStakePercent)
	}
	if account.DailyLossLimit > 0 && account.DailyLoss+stake > account.DailyLossLimit {
		return nil, fmt.Errorf("%w: losing this stake would breach the daily loss limit (lost %.2f of %.2f)",
			models.ErrLimitExceeded, account.DailyLoss, account.DailyLossLimit)
	}
	if account.WeeklyLossLimit > 0 && account.WeeklyLoss+stake > account.WeeklyLossLimit {
		return nil, fmt.Errorf("%w: losing this stake would breach the weekly loss limit (lost %.2f of %.2f)",
			models.ErrLimitExceeded, account.WeeklyLoss, account.WeeklyLossLimit)
	}

	var warnings []string
	if account.DailyLossLimit > 0 {
		remaining := account.DailyLossLimit - account.DailyLoss
		if remaining > 0 && stake > remainingLimitWarnShare*remaining {
			warnings = append(warnings,
				fmt.Sprintf("stake is more than 50%% of the remaining daily loss limit (%.2f left)", remaining))
		}
	}
	return warnings, nil
}

// Manager hands out one ledger per account. Different accounts proceed fully
// in parallel; the same account is always funneled through the same Ledger.
type Manager struct {
	mu       sync.Mutex
	ledgers  map[uuid.UUID]*Ledger
	accounts repository.AccountRepository
	clock    func() time.Time
	logger   *logrus.Logger
}

// NewManager creates a ledger manager over the account repository.
func NewManager(accounts repository.AccountRepository, logger *logrus.Logger) *Manager {
	return &Manager{
		ledgers:  make(map[uuid.UUID]*Ledger),
		accounts: accounts,
		clock:    time.Now,
		logger:   logger,
	}
}

// SetClock overrides the time source, for tests.
func (m *Manager) SetClock(clock func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
	for _, ledger := range m.ledgers {
		ledger.clock = clock
	}
}

// Ledger returns the ledger for an account, loading the account from storage
// on first access.
func (m *Manager) Ledger(ctx context.Context, accountID uuid.UUID) (*Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ledger, ok := m.ledgers[accountID]; ok {
		return ledger, nil
	}

	account, err := m.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ledger := newLedger(account, m.clock, m.logger)
	m.ledgers[accountID] = ledger
	metrics.UpdateBankroll(accountID.String(), account.CurrentBankroll)
	return ledger, nil
}

// Open registers a new account and returns its ledger.
func (m *Manager) Open(ctx context.Context, account *models.BankrollAccount) (*Ledger, error) {
	now := m.clock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CurrentBankroll == 0 {
		account.CurrentBankroll = account.InitialBankroll
	}
	account.DailyWindowStart = now
	account.WeeklyWindowStart = now
	account.CreatedAt = now
	account.UpdatedAt = now

	if err := m.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	ledger := newLedger(account, m.clock, m.logger)
	m.ledgers[account.ID] = ledger
	metrics.UpdateBankroll(account.ID.String(), account.CurrentBankroll)
	return ledger, nil
}
