package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/models"
)

func TestKellyKnownValues(t *testing.T) {
	// p=0.58 at decimal odds 2.20: full = (1.2*0.58 - 0.42) / 1.2 = 0.23
	result, err := Kelly(0.58, 2.20, 0.25)
	require.NoError(t, err)

	assert.InDelta(t, 0.2300, result.Full, 0.0005)
	assert.InDelta(t, 0.0575, result.Fractional, 0.0005)
	assert.Empty(t, result.Reason)
}

func TestKellyStrongEdgeIsCapped(t *testing.T) {
	// p=0.65 at 2.20 would be 0.3583 uncapped
	result, err := Kelly(0.65, 2.20, 0.25)
	require.NoError(t, err)

	assert.Equal(t, KellyCap, result.Full)
	assert.InDelta(t, 0.0625, result.Fractional, 1e-9)
}

func TestKellyNonPositiveEdge(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		b    float64
	}{
		{"fair odds", 0.50, 2.00},
		{"negative edge", 0.40, 2.00},
		{"long odds low probability", 0.10, 5.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Kelly(tt.p, tt.b, 0.25)
			require.NoError(t, err)

			assert.Zero(t, result.Full)
			assert.Zero(t, result.Fractional)
			assert.Equal(t, "non-positive edge", result.Reason)
		})
	}
}

func TestKellyCap(t *testing.T) {
	// p=0.90 at 3.0: uncapped full would be (2*0.9 - 0.1)/2 = 0.85
	result, err := Kelly(0.90, 3.00, 0.25)
	require.NoError(t, err)

	assert.Equal(t, KellyCap, result.Full)
	assert.InDelta(t, KellyCap*0.25, result.Fractional, 1e-9)
}

func TestKellyMonotonicInProbability(t *testing.T) {
	prev := -1.0
	for _, p := range []float64{0.50, 0.55, 0.60, 0.65} {
		result, err := Kelly(p, 2.20, 0.25)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Full, prev, "kelly fraction must not decrease as probability rises")
		prev = result.Full
	}
}

func TestKellyInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		b    float64
	}{
		{"zero probability", 0.0, 2.0},
		{"probability of one", 1.0, 2.0},
		{"negative probability", -0.1, 2.0},
		{"odds at one", 0.6, 1.0},
		{"odds below one", 0.6, 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Kelly(tt.p, tt.b, 0.25)
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}
}

func TestKellyDefaultFraction(t *testing.T) {
	result, err := Kelly(0.65, 2.20, 0)
	require.NoError(t, err)
	assert.InDelta(t, result.Full*DefaultKellyFraction, result.Fractional, 1e-9)
}
