// Package metrics provides the centralized Prometheus registry for the
// decision engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stake_engine",
		Name:      "predictions_total",
		Help:      "Total number of predictions evaluated",
	}, []string{"league", "reason"})
	BetsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stake_engine",
		Name:      "bets_placed_total",
		Help:      "Total number of bets placed",
	})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stake_engine",
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled",
	}, []string{"result"})
	LedgerRefusalsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stake_engine",
		Name:      "ledger_refusals_total",
		Help:      "Total number of placements refused by the bankroll ledger",
	}, []string{"reason"})
	StakeRecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stake_engine",
		Name:      "stake_recommendations_total",
		Help:      "Total number of stake recommendations issued",
	}, []string{"risk_level"})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stake_engine",
		Name:      "current_bankroll",
		Help:      "Current bankroll per account in currency units",
	}, []string{"account_id"})
	PendingExposure = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stake_engine",
		Name:      "pending_exposure",
		Help:      "Outstanding pending stakes per account",
	}, []string{"account_id"})
	DailyLoss = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stake_engine",
		Name:      "daily_loss",
		Help:      "Accumulated loss in the current daily window per account",
	}, []string{"account_id"})
	LoadedModels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stake_engine",
		Name:      "loaded_models",
		Help:      "Number of league models currently loaded",
	})
)

// Histogram metrics
var (
	BetPlacementLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stake_engine",
		Name:      "bet_placement_latency_seconds",
		Help:      "Latency of bet placement operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	SettlementLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stake_engine",
		Name:      "settlement_latency_seconds",
		Help:      "Latency of bet settlement operations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(LedgerRefusalsTotal)
		registry.MustRegister(StakeRecommendationsTotal)

		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(PendingExposure)
		registry.MustRegister(DailyLoss)
		registry.MustRegister(LoadedModels)

		registry.MustRegister(BetPlacementLatency)
		registry.MustRegister(SettlementLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a prediction decision.
func RecordPrediction(league, reason string) {
	PredictionsTotal.WithLabelValues(league, reason).Inc()
}

// RecordBetPlaced records a bet placement event.
func RecordBetPlaced(latencySeconds float64) {
	BetsPlacedTotal.Inc()
	BetPlacementLatency.Observe(latencySeconds)
}

// RecordBetSettled records a bet settlement event.
func RecordBetSettled(result string, latencySeconds float64) {
	BetsSettledTotal.WithLabelValues(result).Inc()
	SettlementLatency.Observe(latencySeconds)
}

// RecordLedgerRefusal records a placement refused by the ledger.
func RecordLedgerRefusal(reason string) {
	LedgerRefusalsTotal.WithLabelValues(reason).Inc()
}

// UpdateBankroll updates the per-account bankroll gauge.
func UpdateBankroll(accountID string, amount float64) {
	CurrentBankroll.WithLabelValues(accountID).Set(amount)
}

// UpdateExposure updates the per-account pending exposure gauge.
func UpdateExposure(accountID string, amount float64) {
	PendingExposure.WithLabelValues(accountID).Set(amount)
}

// UpdateDailyLoss updates the per-account daily loss gauge.
func UpdateDailyLoss(accountID string, amount float64) {
	DailyLoss.WithLabelValues(accountID).Set(amount)
}

// SetLoadedModels records how many league models are held in memory.
func SetLoadedModels(count int) {
	LoadedModels.Set(float64(count))
}
