// Package scheduler runs periodic background reconciliation jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/repository"
)

// Scheduler manages scheduled reconciliation jobs
type Scheduler struct {
	cron            *cron.Cron
	accounts        repository.AccountRepository
	transactions    repository.TransactionRepository
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(accounts repository.AccountRepository, transactions repository.TransactionRepository, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		accounts:        accounts,
		transactions:    transactions,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleReconciliation schedules periodic reconciliation of account gauges
// against the persisted accounts and their pending transactions.
func (s *Scheduler) ScheduleReconciliation(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := s.Reconcile(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled reconciliation failed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("Scheduled account reconciliation job")

	return nil
}

// Reconcile refreshes bankroll, loss, and exposure gauges for every account.
func (s *Scheduler) Reconcile(ctx context.Context) error {
	started := time.Now()

	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	var failures int
	for _, account := range accounts {
		metrics.UpdateBankroll(account.ID.String(), account.CurrentBankroll)
		metrics.UpdateDailyLoss(account.ID.String(), account.DailyLoss)

		pending, err := s.transactions.GetPendingByAccount(ctx, account.ID)
		if err != nil {
			failures++
			s.logger.WithFields(logrus.Fields{
				"account_id": account.ID,
				"error":      err,
			}).Warn("Failed to load pending transactions during reconciliation")
			continue
		}

		var exposure float64
		for _, tx := range pending {
			exposure += tx.Stake
		}
		metrics.UpdateExposure(account.ID.String(), exposure)
	}

	s.logger.WithFields(logrus.Fields{
		"accounts": len(accounts),
		"failures": failures,
		"duration": time.Since(started),
	}).Info("Account reconciliation completed")

	if failures > 0 {
		return fmt.Errorf("reconciliation completed with %d account failures", failures)
	}

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
