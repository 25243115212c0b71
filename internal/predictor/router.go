package predictor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/stake-engine/internal/league"
	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/models"
)

// Router caches one predictor per league and adapts raw match attributes to
// each league's feature schema before invoking it.
type Router struct {
	registry *league.Registry
	loader   Loader
	logger   *logrus.Logger

	mu         sync.RWMutex
	predictors map[string]Predictor
	group      singleflight.Group
}

// NewRouter creates a router over the given registry and loader.
func NewRouter(registry *league.Registry, loader Loader, logger *logrus.Logger) *Router {
	return &Router{
		registry:   registry,
		loader:     loader,
		logger:     logger,
		predictors: make(map[string]Predictor),
	}
}

// Get returns the predictor for a league key, loading it on first use.
// Concurrent first use for the same key is single-flighted: one load runs,
// the rest wait for its result. A failed load is not cached, so the next call
// retries, and a failure for one league never touches another league's entry.
func (r *Router) Get(ctx context.Context, leagueKey string) (Predictor, error) {
	r.mu.RLock()
	cached, ok := r.predictors[leagueKey]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	result, err, shared := r.group.Do(leagueKey, func() (interface{}, error) {
		// Re-check under the flight: a previous flight may have stored it
		// between our read and Do.
		r.mu.RLock()
		existing, ok := r.predictors[leagueKey]
		r.mu.RUnlock()
		if ok {
			return existing, nil
		}

		profile, err := r.registry.Profile(leagueKey)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		loaded, err := r.loader.Load(ctx, profile.ModelRef)
		if err != nil {
			ModelLoadsTotal.WithLabelValues(leagueKey, "failure").Inc()
			r.logger.WithError(err).WithField("league", leagueKey).Error("Model load failed")
			return nil, fmt.Errorf("%w: league %s: %v", models.ErrModelLoadFailure, leagueKey, err)
		}

		r.mu.Lock()
		r.predictors[leagueKey] = loaded
		count := len(r.predictors)
		r.mu.Unlock()

		ModelLoadsTotal.WithLabelValues(leagueKey, "success").Inc()
		metrics.SetLoadedModels(count)
		r.logger.WithFields(logrus.Fields{
			"league":        leagueKey,
			"model_version": loaded.ModelVersion(),
			"duration":      time.Since(start),
		}).Info("Model loaded")
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.WithField("league", leagueKey).Debug("Model load shared with concurrent caller")
	}
	return result.(Predictor), nil
}

// Predict adapts the attributes through the league's feature schema and runs
// the league's predictor, returning probabilities in canonical order.
func (r *Router) Predict(ctx context.Context, leagueKey string, attrs league.MatchAttributes) (models.ProbabilityTriple, error) {
	profile, err := r.registry.Profile(leagueKey)
	if err != nil {
		return models.ProbabilityTriple{}, err
	}

	features, err := profile.Adapter.Vector(attrs)
	if err != nil {
		return models.ProbabilityTriple{}, err
	}

	pred, err := r.Get(ctx, leagueKey)
	if err != nil {
		return models.ProbabilityTriple{}, err
	}

	start := time.Now()
	probs, err := pred.Predict(ctx, features)
	PredictionLatency.WithLabelValues(leagueKey).Observe(time.Since(start).Seconds())
	if err != nil {
		return models.ProbabilityTriple{}, err
	}

	r.logger.WithFields(logrus.Fields{
		"league":   leagueKey,
		"schema":   profile.Adapter.SchemaID(),
		"features": len(features),
		"p_home":   probs.Home,
		"p_away":   probs.Away,
		"p_draw":   probs.Draw,
	}).Debug("Prediction computed")

	return probs, nil
}

// Loaded returns the league keys with a live predictor, for monitoring.
func (r *Router) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.predictors))
	for key := range r.predictors {
		keys = append(keys, key)
	}
	return keys
}
