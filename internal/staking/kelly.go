// Package staking sizes stakes from probabilities and odds under explicit
// risk policy.
package staking

import (
	"fmt"

	"github.com/yourusername/stake-engine/internal/models"
)

const (
	// KellyCap bounds the full Kelly fraction before any scaling. Model
	// probabilities are miscalibrated often enough that anything above a
	// quarter of the bankroll is treated as noise.
	KellyCap = 0.25

	// DefaultKellyFraction is the quarter-Kelly safety scale.
	DefaultKellyFraction = 0.25
)

// KellyResult holds the full and fractional Kelly stake fractions.
type KellyResult struct {
	Full       float64 `json:"full"`
	Fractional float64 `json:"fractional"`
	Reason     string  `json:"reason,omitempty"`
}

// Kelly computes the Kelly stake fraction for probability p at decimal odds b.
//
//	full = ((b-1)*p - (1-p)) / (b-1)
//
// A non-positive edge returns zero with an explanatory reason, never a
// negative or NaN fraction. full is capped at KellyCap before scaling;
// fractional = full * fraction.
func Kelly(p, b, fraction float64) (KellyResult, error) {
	if p <= 0 || p >= 1 {
		return KellyResult{}, fmt.Errorf("%w: probability must be in (0, 1), got %.4f", models.ErrInvalidInput, p)
	}
	if b <= 1.0 {
		return KellyResult{}, fmt.Errorf("%w: decimal odds must be greater than 1.0, got %.4f", models.ErrInvalidInput, b)
	}
	if fraction <= 0 {
		fraction = DefaultKellyFraction
	}

	net := b - 1.0
	full := (net*p - (1.0 - p)) / net
	if full <= 0 {
		return KellyResult{Reason: "non-positive edge"}, nil
	}
	if full > KellyCap {
		full = KellyCap
	}

	return KellyResult{
		Full:       full,
		Fractional: full * fraction,
	}, nil
}
