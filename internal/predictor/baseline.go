package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/stake-engine/internal/models"
)

// BaselinePredictor is a deterministic softmax over the implied-probability
// features, lightly tilted by form. It backs the simulate command and any
// environment without a model service. Zero dependencies, zero I/O.
type BaselinePredictor struct {
	modelRef string
}

// NewBaselinePredictor creates a baseline predictor labelled with the model
// reference it stands in for.
func NewBaselinePredictor(modelRef string) *BaselinePredictor {
	return &BaselinePredictor{modelRef: modelRef}
}

// BaselineLoader returns a Loader that satisfies every artifact reference
// with a baseline predictor.
func BaselineLoader() Loader {
	return LoaderFunc(func(ctx context.Context, modelRef string) (Predictor, error) {
		return NewBaselinePredictor(modelRef), nil
	})
}

// ModelVersion implements Predictor.
func (b *BaselinePredictor) ModelVersion() string {
	return b.modelRef + "-baseline"
}

// Predict implements Predictor. Every league schema leads with the three
// implied probabilities followed by home/away form, which is all the baseline
// consumes; trailing features are ignored.
func (b *BaselinePredictor) Predict(ctx context.Context, features []float64) (models.ProbabilityTriple, error) {
	if len(features) < 3 {
		return models.ProbabilityTriple{}, fmt.Errorf("%w: need at least 3 features, got %d", models.ErrInvalidInput, len(features))
	}

	impliedHome, impliedDraw, impliedAway := features[0], features[1], features[2]

	formTilt := 0.0
	if len(features) >= 5 {
		formTilt = features[3] - features[4] // home form minus away form
	}

	// Softmax over scaled logits keeps the output a valid distribution no
	// matter the inputs.
	logitHome := math.Log(clampProb(impliedHome)) + 0.3*formTilt
	logitDraw := math.Log(clampProb(impliedDraw))
	logitAway := math.Log(clampProb(impliedAway)) - 0.3*formTilt

	expHome := math.Exp(logitHome)
	expDraw := math.Exp(logitDraw)
	expAway := math.Exp(logitAway)
	total := expHome + expDraw + expAway

	return models.ProbabilityTriple{
		Home: expHome / total,
		Away: expAway / total,
		Draw: expDraw / total,
	}, nil
}

func clampProb(p float64) float64 {
	if p < 1e-6 {
		return 1e-6
	}
	if p > 1-1e-6 {
		return 1 - 1e-6
	}
	return p
}
