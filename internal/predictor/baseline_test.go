package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/models"
)

func TestBaselinePredictReturnsDistribution(t *testing.T) {
	b := NewBaselinePredictor("premier_league-v3")

	probs, err := b.Predict(context.Background(), []float64{0.50, 0.28, 0.22, 0.5, 0.5})
	require.NoError(t, err)

	sum := probs.Home + probs.Away + probs.Draw
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Greater(t, probs.Home, probs.Draw)
	assert.Greater(t, probs.Draw, probs.Away)
}

func TestBaselineFormTilt(t *testing.T) {
	b := NewBaselinePredictor("la_liga-v2")
	ctx := context.Background()

	neutral, err := b.Predict(ctx, []float64{0.40, 0.30, 0.30, 0.5, 0.5})
	require.NoError(t, err)

	homeHot, err := b.Predict(ctx, []float64{0.40, 0.30, 0.30, 0.9, 0.2})
	require.NoError(t, err)

	assert.Greater(t, homeHot.Home, neutral.Home, "strong home form must raise the home probability")
	assert.Less(t, homeHot.Away, neutral.Away)
}

func TestBaselineShortVector(t *testing.T) {
	b := NewBaselinePredictor("ligue_1-v1")

	_, err := b.Predict(context.Background(), []float64{0.5, 0.3})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestBaselineModelVersion(t *testing.T) {
	assert.Equal(t, "serie_a-v2-baseline", NewBaselinePredictor("serie_a-v2").ModelVersion())
}
