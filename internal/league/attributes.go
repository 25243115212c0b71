// Package league resolves league names to profiles and adapts raw match
// attributes to per-league feature vectors.
package league

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/stake-engine/internal/models"
)

// Defaults applied when an optional attribute is absent.
const (
	DefaultForm         = 0.50 // neutral last-5 form score
	DefaultGoalsFor     = 1.30 // league-average goals scored per game
	DefaultGoalsAgainst = 1.30 // league-average goals conceded per game
	DefaultRank         = 10   // mid-table position
	DefaultHeadToHead   = 0.50 // even historical record
	DefaultRestDays     = 4
	DefaultInjuries     = 0
)

// MatchAttributes is the typed attribute bag for one fixture. Teams and odds
// are required; everything else falls back to the documented defaults above.
type MatchAttributes struct {
	HomeTeam string            `json:"home_team" validate:"required"`
	AwayTeam string            `json:"away_team" validate:"required"`
	Odds     models.OddsTriple `json:"odds"`

	HomeForm         *float64 `json:"home_form,omitempty"`
	AwayForm         *float64 `json:"away_form,omitempty"`
	HomeGoalsFor     *float64 `json:"home_goals_for,omitempty"`
	AwayGoalsFor     *float64 `json:"away_goals_for,omitempty"`
	HomeGoalsAgainst *float64 `json:"home_goals_against,omitempty"`
	AwayGoalsAgainst *float64 `json:"away_goals_against,omitempty"`
	HomeRank         *int     `json:"home_rank,omitempty"`
	AwayRank         *int     `json:"away_rank,omitempty"`
	HeadToHead       *float64 `json:"head_to_head,omitempty"`
	HomeRestDays     *int     `json:"home_rest_days,omitempty"`
	AwayRestDays     *int     `json:"away_rest_days,omitempty"`
	HomeInjuries     *int     `json:"home_injuries,omitempty"`
	AwayInjuries     *int     `json:"away_injuries,omitempty"`
}

// Validate checks the required identity fields (teams and odds).
func (m MatchAttributes) Validate() error {
	if strings.TrimSpace(m.HomeTeam) == "" {
		return fmt.Errorf("%w: home_team", models.ErrMissingRequiredField)
	}
	if strings.TrimSpace(m.AwayTeam) == "" {
		return fmt.Errorf("%w: away_team", models.ErrMissingRequiredField)
	}
	return m.Odds.Validate()
}

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) float64 {
	if v == nil {
		return float64(def)
	}
	return float64(*v)
}

// ParseAttributes coerces a loose attribute map (as received from an HTTP or
// file boundary) into typed MatchAttributes. Odds accept both numeric and
// string values; string prices go through decimal parsing so "2.20" survives
// intact.
func ParseAttributes(raw map[string]any) (MatchAttributes, error) {
	attrs := MatchAttributes{}

	attrs.HomeTeam, _ = raw["home_team"].(string)
	attrs.AwayTeam, _ = raw["away_team"].(string)

	var err error
	if attrs.Odds.Home, err = coerceOdds(raw["home_odds"]); err != nil {
		return attrs, err
	}
	if attrs.Odds.Draw, err = coerceOdds(raw["draw_odds"]); err != nil {
		return attrs, err
	}
	if attrs.Odds.Away, err = coerceOdds(raw["away_odds"]); err != nil {
		return attrs, err
	}

	attrs.HomeForm = coerceFloat(raw["home_form"])
	attrs.AwayForm = coerceFloat(raw["away_form"])
	attrs.HomeGoalsFor = coerceFloat(raw["home_goals_for"])
	attrs.AwayGoalsFor = coerceFloat(raw["away_goals_for"])
	attrs.HomeGoalsAgainst = coerceFloat(raw["home_goals_against"])
	attrs.AwayGoalsAgainst = coerceFloat(raw["away_goals_against"])
	attrs.HomeRank = coerceInt(raw["home_rank"])
	attrs.AwayRank = coerceInt(raw["away_rank"])
	attrs.HeadToHead = coerceFloat(raw["head_to_head"])
	attrs.HomeRestDays = coerceInt(raw["home_rest_days"])
	attrs.AwayRestDays = coerceInt(raw["away_rest_days"])
	attrs.HomeInjuries = coerceInt(raw["home_injuries"])
	attrs.AwayInjuries = coerceInt(raw["away_injuries"])

	return attrs, attrs.Validate()
}

// coerceOdds accepts float64, int or string prices. A missing value returns
// zero and is caught by Validate.
func coerceOdds(v any) (float64, error) {
	switch price := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return price, nil
	case int:
		return float64(price), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil {
			return 0, fmt.Errorf("%w: unparseable odds %q", models.ErrInvalidOdds, price)
		}
		f, _ := d.Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("%w: unsupported odds type %T", models.ErrInvalidOdds, v)
	}
}

func coerceFloat(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(n)); err == nil {
			f, _ := d.Float64()
			return &f
		}
	}
	return nil
}

func coerceInt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case float64:
		i := int(n)
		return &i
	}
	return nil
}
