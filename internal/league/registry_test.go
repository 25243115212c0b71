package league

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/models"
)

func TestResolveAliases(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		wantKey string
	}{
		{"canonical key", "premier_league", "premier_league"},
		{"display name", "English Premier League", "premier_league"},
		{"short alias", "EPL", "premier_league"},
		{"mixed case with punctuation", "La-Liga", "la_liga"},
		{"sponsor suffix alias", "Ligue 1 Uber Eats", "ligue_1"},
		{"serie a with sponsor", "Serie A TIM", "serie_a"},
		{"german league number", "1. Bundesliga", "bundesliga"},
		{"token rule fallback", "Premier League 2025/26", "premier_league"},
		{"token rule single token", "Mexican Liga MX... liga", "la_liga"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := registry.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestResolveUnsupported(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	for _, input := range []string{"", "   ", "Eredivisie", "MLS"} {
		_, err := registry.Resolve(input)
		assert.ErrorIs(t, err, models.ErrUnsupportedLeague, "input %q", input)
	}
}

func TestRegisterDuplicateKey(t *testing.T) {
	registry := NewRegistry()

	profile := &Profile{
		Key:     "premier_league",
		Adapter: PremierLeagueAdapter{},
	}
	require.NoError(t, registry.Register(profile))

	err := registry.Register(&Profile{Key: "premier_league", Adapter: PremierLeagueAdapter{}})
	assert.ErrorIs(t, err, models.ErrDuplicateKey)
}

func TestRegisterDuplicateAlias(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(&Profile{
		Key:     "premier_league",
		Aliases: []string{"epl"},
		Adapter: PremierLeagueAdapter{},
	}))

	err := registry.Register(&Profile{
		Key:     "la_liga",
		Aliases: []string{"EPL"},
		Adapter: LaLigaAdapter{},
	})
	assert.ErrorIs(t, err, models.ErrDuplicateKey)
}

func TestRegisterRequiresAdapter(t *testing.T) {
	registry := NewRegistry()
	err := registry.Register(&Profile{Key: "premier_league"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestProfileLookup(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	profile, err := registry.Profile("bundesliga")
	require.NoError(t, err)
	assert.Equal(t, 0.57, profile.ConfidenceThreshold)
	assert.Equal(t, 1.40, profile.OddsThreshold)
	assert.Equal(t, "bundesliga-v1", profile.ModelRef)

	_, err = registry.Profile("eredivisie")
	assert.ErrorIs(t, err, models.ErrUnsupportedLeague)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Premier   League ", "premier league"},
		{"La-Liga!", "la liga"},
		{"SERIE_A", "serie a"},
		{"Ligue 1 Uber Eats", "ligue 1 uber eats"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.input), "input %q", tt.input)
	}
}

func TestKeysCoverAllLeagues(t *testing.T) {
	registry, err := DefaultRegistry()
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"premier_league", "la_liga", "serie_a", "bundesliga", "ligue_1"},
		registry.Keys())
}
