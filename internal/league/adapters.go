package league

// FeatureAdapter maps match attributes to the fixed-length, fixed-order
// numeric vector a league's trained model expects. Adapters are pure; each
// league owns exactly one variant so a new league is an additive change.
type FeatureAdapter interface {
	SchemaID() string
	FeatureCount() int
	Vector(attrs MatchAttributes) ([]float64, error)
}

// impliedTriple returns the three implied probabilities in canonical order.
// Every schema leads with these.
func impliedTriple(attrs MatchAttributes) []float64 {
	return []float64{
		1.0 / attrs.Odds.Home,
		1.0 / attrs.Odds.Draw,
		1.0 / attrs.Odds.Away,
	}
}

// PremierLeagueAdapter produces the 12-feature schema the Premier League
// model was trained on.
type PremierLeagueAdapter struct{}

func (PremierLeagueAdapter) SchemaID() string  { return "premier_league-v3" }
func (PremierLeagueAdapter) FeatureCount() int { return 12 }

func (a PremierLeagueAdapter) Vector(attrs MatchAttributes) ([]float64, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	v := impliedTriple(attrs)
	v = append(v,
		floatOr(attrs.HomeForm, DefaultForm),
		floatOr(attrs.AwayForm, DefaultForm),
		floatOr(attrs.HomeGoalsFor, DefaultGoalsFor),
		floatOr(attrs.AwayGoalsFor, DefaultGoalsFor),
		floatOr(attrs.HomeGoalsAgainst, DefaultGoalsAgainst),
		floatOr(attrs.AwayGoalsAgainst, DefaultGoalsAgainst),
		intOr(attrs.AwayRank, DefaultRank)-intOr(attrs.HomeRank, DefaultRank),
		floatOr(attrs.HeadToHead, DefaultHeadToHead),
		intOr(attrs.AwayInjuries, DefaultInjuries)-intOr(attrs.HomeInjuries, DefaultInjuries),
	)
	return v, nil
}

// LaLigaAdapter produces the 10-feature La Liga schema.
type LaLigaAdapter struct{}

func (LaLigaAdapter) SchemaID() string  { return "la_liga-v2" }
func (LaLigaAdapter) FeatureCount() int { return 10 }

func (a LaLigaAdapter) Vector(attrs MatchAttributes) ([]float64, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	v := impliedTriple(attrs)
	v = append(v,
		floatOr(attrs.HomeForm, DefaultForm),
		floatOr(attrs.AwayForm, DefaultForm),
		floatOr(attrs.HomeGoalsFor, DefaultGoalsFor),
		floatOr(attrs.AwayGoalsFor, DefaultGoalsFor),
		intOr(attrs.AwayRank, DefaultRank)-intOr(attrs.HomeRank, DefaultRank),
		floatOr(attrs.HeadToHead, DefaultHeadToHead),
		intOr(attrs.HomeRestDays, DefaultRestDays)-intOr(attrs.AwayRestDays, DefaultRestDays),
	)
	return v, nil
}

// SerieAAdapter produces the 9-feature Serie A schema. Defensive records
// carry more weight in this league's training set than attacking ones.
type SerieAAdapter struct{}

func (SerieAAdapter) SchemaID() string  { return "serie_a-v2" }
func (SerieAAdapter) FeatureCount() int { return 9 }

func (a SerieAAdapter) Vector(attrs MatchAttributes) ([]float64, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	v := impliedTriple(attrs)
	v = append(v,
		floatOr(attrs.HomeForm, DefaultForm),
		floatOr(attrs.AwayForm, DefaultForm),
		floatOr(attrs.HomeGoalsAgainst, DefaultGoalsAgainst),
		floatOr(attrs.AwayGoalsAgainst, DefaultGoalsAgainst),
		intOr(attrs.AwayRank, DefaultRank)-intOr(attrs.HomeRank, DefaultRank),
		floatOr(attrs.HeadToHead, DefaultHeadToHead),
	)
	return v, nil
}

// BundesligaAdapter produces the 8-feature Bundesliga schema using net goal
// averages instead of separate for/against columns.
type BundesligaAdapter struct{}

func (BundesligaAdapter) SchemaID() string  { return "bundesliga-v1" }
func (BundesligaAdapter) FeatureCount() int { return 8 }

func (a BundesligaAdapter) Vector(attrs MatchAttributes) ([]float64, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	v := impliedTriple(attrs)
	v = append(v,
		floatOr(attrs.HomeForm, DefaultForm),
		floatOr(attrs.AwayForm, DefaultForm),
		floatOr(attrs.HomeGoalsFor, DefaultGoalsFor)-floatOr(attrs.HomeGoalsAgainst, DefaultGoalsAgainst),
		floatOr(attrs.AwayGoalsFor, DefaultGoalsFor)-floatOr(attrs.AwayGoalsAgainst, DefaultGoalsAgainst),
		intOr(attrs.AwayRank, DefaultRank)-intOr(attrs.HomeRank, DefaultRank),
	)
	return v, nil
}

// Ligue1Adapter produces the 7-feature Ligue 1 schema, the smallest one in
// production.
type Ligue1Adapter struct{}

func (Ligue1Adapter) SchemaID() string  { return "ligue_1-v1" }
func (Ligue1Adapter) FeatureCount() int { return 7 }

func (a Ligue1Adapter) Vector(attrs MatchAttributes) ([]float64, error) {
	if err := attrs.Validate(); err != nil {
		return nil, err
	}
	v := impliedTriple(attrs)
	v = append(v,
		floatOr(attrs.HomeForm, DefaultForm),
		floatOr(attrs.AwayForm, DefaultForm),
		intOr(attrs.AwayRank, DefaultRank)-intOr(attrs.HomeRank, DefaultRank),
		floatOr(attrs.HeadToHead, DefaultHeadToHead),
	)
	return v, nil
}
