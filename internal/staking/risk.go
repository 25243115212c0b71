package staking

import (
	"github.com/yourusername/stake-engine/internal/models"
)

// riskRule contributes points when its condition holds. Rules are a
// transparent, tunable table, not a statistical model.
type riskRule struct {
	points int
	match  func(stakePct, confidencePct, odds, edge float64) bool
	label  string
}

var riskRules = []riskRule{
	{2, func(s, c, o, e float64) bool { return s > 5.0 }, "stake above 5% of bankroll"},
	{1, func(s, c, o, e float64) bool { return s > 3.0 && s <= 5.0 }, "stake above 3% of bankroll"},
	{2, func(s, c, o, e float64) bool { return c < 60.0 }, "confidence below 60%"},
	{1, func(s, c, o, e float64) bool { return c >= 60.0 && c < 70.0 }, "confidence below 70%"},
	{2, func(s, c, o, e float64) bool { return o > 3.0 }, "odds above 3.0"},
	{1, func(s, c, o, e float64) bool { return o > 2.0 && o <= 3.0 }, "odds above 2.0"},
	{1, func(s, c, o, e float64) bool { return e < 0.05 }, "edge below 5%"},
}

// Classify scores a proposed stake into a risk level with the contributing
// factors. Score 0 is low, 1-2 medium, 3 and above high.
func Classify(stakePct, confidencePct, odds, edge float64) (models.RiskLevel, []string) {
	score := 0
	var factors []string
	for _, rule := range riskRules {
		if rule.match(stakePct, confidencePct, odds, edge) {
			score += rule.points
			factors = append(factors, rule.label)
		}
	}

	switch {
	case score == 0:
		return models.RiskLow, factors
	case score <= 2:
		return models.RiskMedium, factors
	default:
		return models.RiskHigh, factors
	}
}
