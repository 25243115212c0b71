package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/league"
	"github.com/yourusername/stake-engine/internal/logger"
	"github.com/yourusername/stake-engine/internal/models"
)

func testProfile() *league.Profile {
	return &league.Profile{
		Key:                 "premier_league",
		ConfidenceThreshold: 0.60,
		OddsThreshold:       1.50,
		Adapter:             league.PremierLeagueAdapter{},
	}
}

func newTestGate() *Gate {
	return NewGate(logger.NewNop())
}

func TestDecideRecommended(t *testing.T) {
	gate := newTestGate()

	record, err := gate.Decide(
		models.ProbabilityTriple{Home: 0.65, Away: 0.20, Draw: 0.15},
		models.OddsTriple{Home: 2.00, Draw: 3.50, Away: 4.50},
		testProfile(),
	)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeHome, record.Outcome)
	assert.Equal(t, 0.65, record.Confidence)
	assert.Equal(t, 2.00, record.SelectedOdds)
	assert.InDelta(t, 0.30, record.ExpectedValue, 1e-9)
	assert.True(t, record.Recommend)
	assert.Equal(t, models.ReasonRecommended, record.Reason)
}

func TestDecideReasonCodes(t *testing.T) {
	tests := []struct {
		name       string
		probs      models.ProbabilityTriple
		odds       models.OddsTriple
		wantReason models.ReasonCode
	}{
		{
			name:       "confidence just under threshold",
			probs:      models.ProbabilityTriple{Home: 0.58, Away: 0.22, Draw: 0.20},
			odds:       models.OddsTriple{Home: 2.00, Draw: 3.50, Away: 4.50},
			wantReason: models.ReasonSkipLowConfidence,
		},
		{
			name:       "odds under threshold",
			probs:      models.ProbabilityTriple{Home: 0.70, Away: 0.15, Draw: 0.15},
			odds:       models.OddsTriple{Home: 1.30, Draw: 4.50, Away: 8.00},
			wantReason: models.ReasonSkipLowOdds,
		},
		{
			name:       "both under threshold",
			probs:      models.ProbabilityTriple{Home: 0.45, Away: 0.30, Draw: 0.25},
			odds:       models.OddsTriple{Home: 1.30, Draw: 4.50, Away: 8.00},
			wantReason: models.ReasonSkipBoth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := newTestGate().Decide(tt.probs, tt.odds, testProfile())
			require.NoError(t, err)
			assert.Equal(t, tt.wantReason, record.Reason)
			assert.False(t, record.Recommend)
		})
	}
}

func TestDecideTieBreaksHomeAwayDraw(t *testing.T) {
	gate := newTestGate()

	record, err := gate.Decide(
		models.ProbabilityTriple{Home: 0.40, Away: 0.40, Draw: 0.20},
		models.OddsTriple{Home: 2.50, Draw: 3.20, Away: 2.50},
		testProfile(),
	)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeHome, record.Outcome)

	record, err = gate.Decide(
		models.ProbabilityTriple{Home: 0.20, Away: 0.40, Draw: 0.40},
		models.OddsTriple{Home: 5.00, Draw: 3.20, Away: 2.50},
		testProfile(),
	)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeAway, record.Outcome)
}

func TestDecideRenormalizesWithinTolerance(t *testing.T) {
	gate := newTestGate()

	// Sums to 1.03, inside the tolerance, so the triple is renormalized.
	record, err := gate.Decide(
		models.ProbabilityTriple{Home: 0.67, Away: 0.21, Draw: 0.15},
		models.OddsTriple{Home: 2.00, Draw: 3.50, Away: 4.50},
		testProfile(),
	)
	require.NoError(t, err)

	sum := record.Probabilities.Home + record.Probabilities.Away + record.Probabilities.Draw
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.InDelta(t, 0.67/1.03, record.Confidence, 1e-9)
}

func TestDecideRejectsBadProbabilities(t *testing.T) {
	gate := newTestGate()

	_, err := gate.Decide(
		models.ProbabilityTriple{Home: 0.50, Away: 0.40, Draw: 0.30},
		models.OddsTriple{Home: 2.00, Draw: 3.50, Away: 4.50},
		testProfile(),
	)
	assert.ErrorIs(t, err, models.ErrInvalidProbabilities)

	_, err = gate.Decide(
		models.ProbabilityTriple{},
		models.OddsTriple{Home: 2.00, Draw: 3.50, Away: 4.50},
		testProfile(),
	)
	assert.ErrorIs(t, err, models.ErrInvalidProbabilities)
}

func TestDecideRejectsInvalidOdds(t *testing.T) {
	gate := newTestGate()

	_, err := gate.Decide(
		models.ProbabilityTriple{Home: 0.65, Away: 0.20, Draw: 0.15},
		models.OddsTriple{Home: 1.00, Draw: 3.50, Away: 4.50},
		testProfile(),
	)
	assert.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestDecideEVFormulaHolds(t *testing.T) {
	gate := newTestGate()

	cases := []struct {
		probs models.ProbabilityTriple
		odds  models.OddsTriple
	}{
		{models.ProbabilityTriple{Home: 0.62, Away: 0.23, Draw: 0.15}, models.OddsTriple{Home: 1.95, Draw: 3.60, Away: 4.20}},
		{models.ProbabilityTriple{Home: 0.20, Away: 0.55, Draw: 0.25}, models.OddsTriple{Home: 4.80, Draw: 3.70, Away: 1.72}},
		{models.ProbabilityTriple{Home: 0.30, Away: 0.28, Draw: 0.42}, models.OddsTriple{Home: 3.10, Draw: 3.05, Away: 3.20}},
	}

	for _, tc := range cases {
		record, err := gate.Decide(tc.probs, tc.odds, testProfile())
		require.NoError(t, err)
		assert.InDelta(t, record.Confidence*record.SelectedOdds-1.0, record.ExpectedValue, 1e-9)
	}
}
