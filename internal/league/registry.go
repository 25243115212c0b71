package league

import (
	"fmt"
	"strings"

	"github.com/yourusername/stake-engine/internal/models"
)

// Profile describes one supported league. Immutable after registration.
type Profile struct {
	Key                 string
	Name                string
	Aliases             []string
	ConfidenceThreshold float64
	OddsThreshold       float64
	ModelRef            string
	Adapter             FeatureAdapter
}

// tokenRule maps a token set to a league key. Rules are evaluated in
// declaration order; the first rule whose every token appears in the
// normalized name wins.
type tokenRule struct {
	key    string
	tokens []string
}

// Registry resolves league names and aliases to canonical profiles. The
// profile set is fixed at startup; Resolve and Profile are read-only and safe
// for concurrent use.
type Registry struct {
	profiles   map[string]*Profile
	aliasIndex map[string]string
	tokenRules []tokenRule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		profiles:   make(map[string]*Profile),
		aliasIndex: make(map[string]string),
	}
}

// Register adds a league profile. It fails on duplicate keys or aliases so a
// misconfigured profile table is caught at startup, not at resolve time.
func (r *Registry) Register(profile *Profile) error {
	if profile.Key == "" {
		return fmt.Errorf("%w: profile key is required", models.ErrInvalidInput)
	}
	if profile.Adapter == nil {
		return fmt.Errorf("%w: profile %s has no feature adapter", models.ErrInvalidInput, profile.Key)
	}
	if _, exists := r.profiles[profile.Key]; exists {
		return fmt.Errorf("%w: league %s", models.ErrDuplicateKey, profile.Key)
	}

	r.profiles[profile.Key] = profile
	r.aliasIndex[Normalize(profile.Key)] = profile.Key
	if profile.Name != "" {
		r.aliasIndex[Normalize(profile.Name)] = profile.Key
	}
	for _, alias := range profile.Aliases {
		norm := Normalize(alias)
		if existing, taken := r.aliasIndex[norm]; taken && existing != profile.Key {
			return fmt.Errorf("%w: alias %q already maps to %s", models.ErrDuplicateKey, alias, existing)
		}
		r.aliasIndex[norm] = profile.Key
	}
	return nil
}

// AddTokenRule appends a heuristic token rule. Rule order is precedence order.
func (r *Registry) AddTokenRule(key string, tokens ...string) {
	r.tokenRules = append(r.tokenRules, tokenRule{key: key, tokens: tokens})
}

// Resolve maps a free-form league name to a canonical key. The pipeline runs
// in strict precedence order: normalize, exact key match, alias table, token
// heuristic.
func (r *Registry) Resolve(name string) (string, error) {
	norm := Normalize(name)
	if norm == "" {
		return "", fmt.Errorf("%w: empty league name", models.ErrUnsupportedLeague)
	}

	if profile, ok := r.profiles[norm]; ok {
		return profile.Key, nil
	}
	if key, ok := r.aliasIndex[norm]; ok {
		return key, nil
	}

	words := strings.Fields(norm)
	for _, rule := range r.tokenRules {
		if containsAll(words, rule.tokens) {
			if _, ok := r.profiles[rule.key]; ok {
				return rule.key, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %q", models.ErrUnsupportedLeague, name)
}

// Profile returns the profile for a canonical key.
func (r *Registry) Profile(key string) (*Profile, error) {
	profile, ok := r.profiles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedLeague, key)
	}
	return profile, nil
}

// Keys returns all registered league keys.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.profiles))
	for key := range r.profiles {
		keys = append(keys, key)
	}
	return keys
}

// Normalize lowercases a name, converts punctuation to spaces and collapses
// whitespace.
func Normalize(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, ch := range lowered {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9':
			b.WriteRune(ch)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func containsAll(words []string, tokens []string) bool {
	for _, token := range tokens {
		found := false
		for _, word := range words {
			if word == token {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
