package league

// DefaultRegistry builds the production league table. Thresholds come from
// per-league model calibration; leagues with noisier models carry higher
// confidence floors.
func DefaultRegistry() (*Registry, error) {
	registry := NewRegistry()

	profiles := []*Profile{
		{
			Key:                 "premier_league",
			Name:                "English Premier League",
			Aliases:             []string{"epl", "premiership", "english premier league", "premier league england"},
			ConfidenceThreshold: 0.60,
			OddsThreshold:       1.50,
			ModelRef:            "premier_league-v3",
			Adapter:             PremierLeagueAdapter{},
		},
		{
			Key:                 "la_liga",
			Name:                "La Liga",
			Aliases:             []string{"laliga", "spanish la liga", "primera division", "la liga santander"},
			ConfidenceThreshold: 0.58,
			OddsThreshold:       1.45,
			ModelRef:            "la_liga-v2",
			Adapter:             LaLigaAdapter{},
		},
		{
			Key:                 "serie_a",
			Name:                "Serie A",
			Aliases:             []string{"seriea", "italian serie a", "serie a tim"},
			ConfidenceThreshold: 0.60,
			OddsThreshold:       1.50,
			ModelRef:            "serie_a-v2",
			Adapter:             SerieAAdapter{},
		},
		{
			Key:                 "bundesliga",
			Name:                "Bundesliga",
			Aliases:             []string{"german bundesliga", "bundesliga 1", "1 bundesliga"},
			ConfidenceThreshold: 0.57,
			OddsThreshold:       1.40,
			ModelRef:            "bundesliga-v1",
			Adapter:             BundesligaAdapter{},
		},
		{
			Key:                 "ligue_1",
			Name:                "Ligue 1",
			Aliases:             []string{"ligue1", "french ligue 1", "ligue 1 uber eats"},
			ConfidenceThreshold: 0.62,
			OddsThreshold:       1.55,
			ModelRef:            "ligue_1-v1",
			Adapter:             Ligue1Adapter{},
		},
	}

	for _, profile := range profiles {
		if err := registry.Register(profile); err != nil {
			return nil, err
		}
	}

	// Heuristic fallback for names the alias table misses, checked in this
	// order. Single distinctive tokens only; "premier" alone is ambiguous
	// across countries so it pairs with "english".
	registry.AddTokenRule("premier_league", "english", "premier")
	registry.AddTokenRule("premier_league", "premier")
	registry.AddTokenRule("la_liga", "liga")
	registry.AddTokenRule("serie_a", "serie")
	registry.AddTokenRule("bundesliga", "bundesliga")
	registry.AddTokenRule("ligue_1", "ligue")

	return registry, nil
}
