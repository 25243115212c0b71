// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for ledger mutations.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetPlacement logs a bet placement event.
func (al *AuditLogger) LogBetPlacement(txID, accountID uuid.UUID, outcome string, odds, stake float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"transaction_id": txID,
		"account_id":     accountID,
		"outcome":        outcome,
		"odds":           odds,
		"stake":          stake,
		"timestamp":      timestamp.Unix(),
	}).Info("Bet placement recorded")
}

// LogBetSettlement logs a bet settlement event.
func (al *AuditLogger) LogBetSettlement(txID, accountID uuid.UUID, status string, profitLoss float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"transaction_id": txID,
		"account_id":     accountID,
		"status":         status,
		"profit_loss":    profitLoss,
		"timestamp":      timestamp.Unix(),
	}).Info("Bet settlement recorded")
}

// LogLimitRefusal logs a placement refused by the bankroll ledger.
func (al *AuditLogger) LogLimitRefusal(accountID uuid.UUID, stake float64, reason string) {
	al.WithFields(logrus.Fields{
		"account_id": accountID,
		"stake":      stake,
		"reason":     reason,
	}).Warn("Placement refused by ledger")
}
