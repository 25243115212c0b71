package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/logger"
	"github.com/yourusername/stake-engine/internal/models"
)

func newTestSizer() *Sizer {
	return NewSizer(logger.NewNop())
}

func TestSizeClampToMaxStake(t *testing.T) {
	// Raw fixed stake of $80 on a $1000 bankroll with a 5% cap must be
	// clamped to $50 with a warning.
	sizer := newTestSizer()

	result, err := sizer.Size(SizeInput{
		Bankroll:        1000.0,
		Strategy:        models.StrategyFixedAmount,
		Probability:     0.65,
		Odds:            2.20,
		ConfidencePct:   65.0,
		Params:          StrategyParams{FixedAmount: 80.0},
		MaxStakePercent: 5.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, result.Stake)
	assert.Equal(t, 5.0, result.StakePercent)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "stake reduced")
}

func TestSizeNoWarningWhenUnderCap(t *testing.T) {
	sizer := newTestSizer()

	result, err := sizer.Size(SizeInput{
		Bankroll:        1000.0,
		Strategy:        models.StrategyFixedAmount,
		Probability:     0.65,
		Odds:            2.20,
		ConfidencePct:   65.0,
		Params:          StrategyParams{FixedAmount: 30.0},
		MaxStakePercent: 5.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, result.Stake)
	assert.Empty(t, result.Warnings)
}

func TestSizeKellyFractional(t *testing.T) {
	sizer := newTestSizer()

	result, err := sizer.Size(SizeInput{
		Bankroll:        1000.0,
		Strategy:        models.StrategyKellyFractional,
		Probability:     0.58,
		Odds:            2.20,
		ConfidencePct:   58.0,
		Params:          StrategyParams{KellyFraction: 0.25},
		MaxStakePercent: 25.0,
	})
	require.NoError(t, err)

	assert.InDelta(t, 57.5, result.Stake, 0.1)
	assert.InDelta(t, 0.2300, result.Kelly.Full, 0.0005)
}

func TestSizeFixedPercentage(t *testing.T) {
	sizer := newTestSizer()

	result, err := sizer.Size(SizeInput{
		Bankroll:        2000.0,
		Strategy:        models.StrategyFixedPercentage,
		Probability:     0.60,
		Odds:            2.00,
		ConfidencePct:   60.0,
		Params:          StrategyParams{FixedPercent: 3.0},
		MaxStakePercent: 10.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, result.Stake)
	assert.Equal(t, 3.0, result.StakePercent)
}

func TestSizeConfidenceScaled(t *testing.T) {
	tests := []struct {
		name          string
		confidencePct float64
		wantStake     float64
	}{
		{"below floor", 50.0, 0.0},
		{"at floor", 55.0, 10.0},
		{"midpoint", 77.5, 30.0},
		{"at ceiling", 100.0, 50.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sizer := newTestSizer()

			result, err := sizer.Size(SizeInput{
				Bankroll:        1000.0,
				Strategy:        models.StrategyConfidenceScaled,
				Probability:     tt.confidencePct / 100.0,
				Odds:            2.00,
				ConfidencePct:   tt.confidencePct,
				MaxStakePercent: 10.0,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.wantStake, result.Stake, 0.001)
		})
	}
}

func TestSizeUnknownStrategyFallsBack(t *testing.T) {
	sizer := newTestSizer()

	result, err := sizer.Size(SizeInput{
		Bankroll:        1000.0,
		Strategy:        models.StakingStrategy("martingale"),
		Probability:     0.60,
		Odds:            2.00,
		ConfidencePct:   60.0,
		MaxStakePercent: 10.0,
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, result.Stake)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "unknown staking strategy")
}

func TestSizeInvalidInput(t *testing.T) {
	sizer := newTestSizer()

	_, err := sizer.Size(SizeInput{
		Bankroll:        0,
		Strategy:        models.StrategyFixedAmount,
		MaxStakePercent: 5.0,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = sizer.Size(SizeInput{
		Bankroll:        1000.0,
		Strategy:        models.StrategyFixedAmount,
		MaxStakePercent: 0,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestSizeKellyNonPositiveEdgeYieldsZero(t *testing.T) {
	sizer := newTestSizer()

	result, err := sizer.Size(SizeInput{
		Bankroll:        1000.0,
		Strategy:        models.StrategyKellyFractional,
		Probability:     0.40,
		Odds:            2.00,
		ConfidencePct:   40.0,
		MaxStakePercent: 5.0,
	})
	require.NoError(t, err)

	assert.Zero(t, result.Stake)
	assert.Equal(t, "non-positive edge", result.Kelly.Reason)
}
