// Package predictor routes prediction requests to per-league model artifacts.
package predictor

import (
	"context"

	"github.com/yourusername/stake-engine/internal/models"
)

// Predictor produces class probabilities from a league's feature vector.
// One trained artifact backs each league.
type Predictor interface {
	Predict(ctx context.Context, features []float64) (models.ProbabilityTriple, error)
	ModelVersion() string
}

// Loader instantiates the predictor backing a model reference. Loading is
// expensive (artifact fetch, warm-up), which is why the router single-flights
// first use per league.
type Loader interface {
	Load(ctx context.Context, modelRef string) (Predictor, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, modelRef string) (Predictor, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, modelRef string) (Predictor, error) {
	return f(ctx, modelRef)
}
