// Package predictor provides Prometheus metrics for model routing.
package predictor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ModelLoadsTotal tracks model artifact loads per league
	ModelLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of model artifact load attempts",
		},
		[]string{"league", "status"},
	)

	// PredictionLatency tracks per-league prediction latency
	PredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"league"},
	)

	// PredictionCacheHitRatio tracks prediction record cache effectiveness
	PredictionCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prediction_cache_hit_ratio",
			Help: "Prediction record cache hit ratio",
		},
	)

	// RemotePredictorErrorsTotal tracks remote model service failures
	RemotePredictorErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "remote_predictor_errors_total",
			Help: "Total number of remote model service errors",
		},
		[]string{"error_type"},
	)
)
