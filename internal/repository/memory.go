package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/stake-engine/internal/models"
)

// MemoryAccountRepository is an in-memory AccountRepository used by tests and
// the simulate command.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]models.BankrollAccount
}

// NewMemoryAccountRepository creates an empty in-memory account repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[uuid.UUID]models.BankrollAccount)}
}

// Create implements AccountRepository.
func (r *MemoryAccountRepository) Create(ctx context.Context, account *models.BankrollAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[account.ID]; exists {
		return models.ErrDuplicateKey
	}
	r.accounts[account.ID] = *account
	return nil
}

// GetByID implements AccountRepository.
func (r *MemoryAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BankrollAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := account
	return &copied, nil
}

// Update implements AccountRepository.
func (r *MemoryAccountRepository) Update(ctx context.Context, account *models.BankrollAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return models.ErrNotFound
	}
	r.accounts[account.ID] = *account
	return nil
}

// GetAll implements AccountRepository.
func (r *MemoryAccountRepository) GetAll(ctx context.Context) ([]*models.BankrollAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts := make([]*models.BankrollAccount, 0, len(r.accounts))
	for _, account := range r.accounts {
		copied := account
		accounts = append(accounts, &copied)
	}
	return accounts, nil
}

// MemoryTransactionRepository is an in-memory TransactionRepository.
type MemoryTransactionRepository struct {
	mu  sync.RWMutex
	txs map[uuid.UUID]models.BetTransaction
}

// NewMemoryTransactionRepository creates an empty in-memory transaction
// repository.
func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{txs: make(map[uuid.UUID]models.BetTransaction)}
}

// Create implements TransactionRepository.
func (r *MemoryTransactionRepository) Create(ctx context.Context, tx *models.BetTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.txs[tx.ID]; exists {
		return models.ErrDuplicateKey
	}
	r.txs[tx.ID] = *tx
	return nil
}

// GetByID implements TransactionRepository.
func (r *MemoryTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BetTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := tx
	return &copied, nil
}

// Update implements TransactionRepository.
func (r *MemoryTransactionRepository) Update(ctx context.Context, tx *models.BetTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.txs[tx.ID]; !ok {
		return models.ErrNotFound
	}
	r.txs[tx.ID] = *tx
	return nil
}

// GetPendingByAccount implements TransactionRepository.
func (r *MemoryTransactionRepository) GetPendingByAccount(ctx context.Context, accountID uuid.UUID) ([]*models.BetTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var pending []*models.BetTransaction
	for _, tx := range r.txs {
		if tx.AccountID == accountID && tx.Status == models.TxStatusPending {
			copied := tx
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

// GetSettledByAccount implements TransactionRepository.
func (r *MemoryTransactionRepository) GetSettledByAccount(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]*models.BetTransaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var settled []*models.BetTransaction
	for _, tx := range r.txs {
		if tx.AccountID != accountID || tx.Status == models.TxStatusPending || tx.SettledAt == nil {
			continue
		}
		if tx.SettledAt.Before(start) || !tx.SettledAt.Before(end) {
			continue
		}
		copied := tx
		settled = append(settled, &copied)
	}
	return settled, nil
}
