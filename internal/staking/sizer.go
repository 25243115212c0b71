package staking

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stake-engine/internal/models"
)

const (
	// FallbackPercent is the flat bankroll share used when an account carries
	// an unrecognized strategy. The fallback is always accompanied by a
	// warning, never silent.
	FallbackPercent = 2.0

	confidenceFloorPct = 55.0
	confidenceCeilPct  = 100.0
	scaledMinPct       = 1.0
	scaledMaxPct       = 5.0
)

// StrategyParams carries per-account tuning for the staking strategies.
type StrategyParams struct {
	KellyFraction float64 // kelly_fractional scale, default quarter Kelly
	FixedPercent  float64 // fixed_percentage stake as % of bankroll
	FixedAmount   float64 // fixed_amount stake in currency units
}

// SizeInput is everything a strategy needs to propose a stake.
type SizeInput struct {
	Bankroll        float64
	Strategy        models.StakingStrategy
	Probability     float64
	Odds            float64
	ConfidencePct   float64 // 0-100
	Params          StrategyParams
	MaxStakePercent float64 // hard cap as % of bankroll
}

// SizeResult is a proposed stake with any advisory warnings.
type SizeResult struct {
	Stake        float64
	StakePercent float64
	Kelly        KellyResult
	Warnings     []string
}

// strategyFunc computes a raw (pre-cap) stake. The closed variant set lives
// in strategyTable; adding a strategy means adding an entry, not editing a
// branch chain.
type strategyFunc func(in SizeInput) (stake float64, kelly KellyResult, err error)

var strategyTable = map[models.StakingStrategy]strategyFunc{
	models.StrategyKelly:            sizeKellyFull,
	models.StrategyKellyFractional:  sizeKellyFractional,
	models.StrategyFixedPercentage:  sizeFixedPercentage,
	models.StrategyFixedAmount:      sizeFixedAmount,
	models.StrategyConfidenceScaled: sizeConfidenceScaled,
}

// Sizer dispatches staking strategies and applies the hard stake cap.
type Sizer struct {
	logger *logrus.Logger
}

// NewSizer creates a stake sizer.
func NewSizer(logger *logrus.Logger) *Sizer {
	return &Sizer{logger: logger}
}

// Size computes the stake for the input's strategy, then clamps it to
// MaxStakePercent of the bankroll. A warning is emitted exactly when the
// clamp reduces the stake, and when an unknown strategy falls back.
func (s *Sizer) Size(in SizeInput) (SizeResult, error) {
	if in.Bankroll <= 0 {
		return SizeResult{}, fmt.Errorf("%w: bankroll must be positive, got %.2f", models.ErrInvalidInput, in.Bankroll)
	}
	if in.MaxStakePercent <= 0 {
		return SizeResult{}, fmt.Errorf("%w: max stake percentage must be positive", models.ErrInvalidInput)
	}

	result := SizeResult{}

	fn, known := strategyTable[in.Strategy]
	if !known {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("unknown staking strategy %q, falling back to fixed %.0f%%", in.Strategy, FallbackPercent))
		fn = func(in SizeInput) (float64, KellyResult, error) {
			return in.Bankroll * FallbackPercent / 100.0, KellyResult{}, nil
		}
	}

	stake, kelly, err := fn(in)
	if err != nil {
		return SizeResult{}, err
	}
	result.Kelly = kelly

	maxStake := in.MaxStakePercent / 100.0 * in.Bankroll
	if stake > maxStake {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("stake reduced from %.2f to %.2f (cap %.1f%% of bankroll)", stake, maxStake, in.MaxStakePercent))
		stake = maxStake
	}
	if stake < 0 {
		stake = 0
	}

	result.Stake = stake
	result.StakePercent = stake / in.Bankroll * 100.0

	s.logger.WithFields(logrus.Fields{
		"strategy":      in.Strategy,
		"stake":         result.Stake,
		"stake_percent": result.StakePercent,
		"warnings":      len(result.Warnings),
	}).Debug("Stake sized")

	return result, nil
}

func sizeKellyFull(in SizeInput) (float64, KellyResult, error) {
	kelly, err := Kelly(in.Probability, in.Odds, kellyFraction(in))
	if err != nil {
		return 0, KellyResult{}, err
	}
	return in.Bankroll * kelly.Full, kelly, nil
}

func sizeKellyFractional(in SizeInput) (float64, KellyResult, error) {
	kelly, err := Kelly(in.Probability, in.Odds, kellyFraction(in))
	if err != nil {
		return 0, KellyResult{}, err
	}
	return in.Bankroll * kelly.Fractional, kelly, nil
}

func sizeFixedPercentage(in SizeInput) (float64, KellyResult, error) {
	pct := in.Params.FixedPercent
	if pct <= 0 {
		pct = FallbackPercent
	}
	return in.Bankroll * pct / 100.0, KellyResult{}, nil
}

func sizeFixedAmount(in SizeInput) (float64, KellyResult, error) {
	return in.Params.FixedAmount, KellyResult{}, nil
}

// sizeConfidenceScaled maps confidence linearly from [55%, 100%] onto a stake
// of [1%, 5%] of bankroll. Below the floor the stake is zero.
func sizeConfidenceScaled(in SizeInput) (float64, KellyResult, error) {
	conf := in.ConfidencePct
	if conf < confidenceFloorPct {
		return 0, KellyResult{}, nil
	}
	if conf > confidenceCeilPct {
		conf = confidenceCeilPct
	}
	span := (conf - confidenceFloorPct) / (confidenceCeilPct - confidenceFloorPct)
	pct := scaledMinPct + span*(scaledMaxPct-scaledMinPct)
	return in.Bankroll * pct / 100.0, KellyResult{}, nil
}

func kellyFraction(in SizeInput) float64 {
	if in.Params.KellyFraction > 0 {
		return in.Params.KellyFraction
	}
	return DefaultKellyFraction
}
