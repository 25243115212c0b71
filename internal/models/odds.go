package models

import "fmt"

// Outcome represents a match result market selection
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

// OddsTriple holds decimal odds for the three match outcomes
type OddsTriple struct {
	Home float64 `json:"home" validate:"required,gt=1"`
	Draw float64 `json:"draw" validate:"required,gt=1"`
	Away float64 `json:"away" validate:"required,gt=1"`
}

// Validate checks that every price is a valid decimal odd
func (o OddsTriple) Validate() error {
	for _, price := range []float64{o.Home, o.Draw, o.Away} {
		if price <= 1.0 {
			return fmt.Errorf("%w: decimal odds must be greater than 1.0, got %.2f", ErrInvalidOdds, price)
		}
	}
	return nil
}

// For returns the decimal odds for the given outcome
func (o OddsTriple) For(outcome Outcome) float64 {
	switch outcome {
	case OutcomeHome:
		return o.Home
	case OutcomeAway:
		return o.Away
	default:
		return o.Draw
	}
}

// ImpliedProbability returns 1/odds for the given outcome
func (o OddsTriple) ImpliedProbability(outcome Outcome) float64 {
	price := o.For(outcome)
	if price <= 0 {
		return 0
	}
	return 1.0 / price
}

// Margin returns the bookmaker overround (sum of implied probabilities minus 1)
func (o OddsTriple) Margin() float64 {
	return o.ImpliedProbability(OutcomeHome) + o.ImpliedProbability(OutcomeDraw) + o.ImpliedProbability(OutcomeAway) - 1.0
}

// ProbabilityTriple holds class probabilities in canonical order
type ProbabilityTriple struct {
	Home float64 `json:"home" validate:"gte=0,lte=1"`
	Away float64 `json:"away" validate:"gte=0,lte=1"`
	Draw float64 `json:"draw" validate:"gte=0,lte=1"`
}

// Sum returns the total probability mass
func (p ProbabilityTriple) Sum() float64 {
	return p.Home + p.Away + p.Draw
}

// Normalized returns the triple rescaled to sum to 1
func (p ProbabilityTriple) Normalized() ProbabilityTriple {
	sum := p.Sum()
	if sum <= 0 {
		return p
	}
	return ProbabilityTriple{
		Home: p.Home / sum,
		Away: p.Away / sum,
		Draw: p.Draw / sum,
	}
}

// Max returns the most likely outcome and its probability.
// Ties resolve in fixed priority order: home, away, draw.
func (p ProbabilityTriple) Max() (Outcome, float64) {
	outcome := OutcomeHome
	best := p.Home
	if p.Away > best {
		outcome = OutcomeAway
		best = p.Away
	}
	if p.Draw > best {
		outcome = OutcomeDraw
		best = p.Draw
	}
	return outcome, best
}
