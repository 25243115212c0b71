package predictor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/league"
	"github.com/yourusername/stake-engine/internal/logger"
	"github.com/yourusername/stake-engine/internal/metrics"
	"github.com/yourusername/stake-engine/internal/models"
)

type stubPredictor struct {
	version string
	probs   models.ProbabilityTriple
}

func (s *stubPredictor) ModelVersion() string { return s.version }
func (s *stubPredictor) Predict(ctx context.Context, features []float64) (models.ProbabilityTriple, error) {
	return s.probs, nil
}

type countingLoader struct {
	mu      sync.Mutex
	loads   map[string]int
	failing map[string]error
	block   chan struct{}
}

func newCountingLoader() *countingLoader {
	return &countingLoader{
		loads:   make(map[string]int),
		failing: make(map[string]error),
	}
}

func (l *countingLoader) Load(ctx context.Context, modelRef string) (Predictor, error) {
	if l.block != nil {
		<-l.block
	}
	l.mu.Lock()
	l.loads[modelRef]++
	err := l.failing[modelRef]
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &stubPredictor{
		version: modelRef,
		probs:   models.ProbabilityTriple{Home: 0.5, Away: 0.3, Draw: 0.2},
	}, nil
}

func (l *countingLoader) loadCount(modelRef string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads[modelRef]
}

func newTestRouter(t *testing.T, loader Loader) *Router {
	t.Helper()
	registry, err := league.DefaultRegistry()
	require.NoError(t, err)
	return NewRouter(registry, loader, logger.NewNop())
}

func TestGetLoadsOncePerLeague(t *testing.T) {
	loader := newCountingLoader()
	router := newTestRouter(t, loader)
	ctx := context.Background()

	first, err := router.Get(ctx, "premier_league")
	require.NoError(t, err)
	second, err := router.Get(ctx, "premier_league")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, loader.loadCount("premier_league-v3"))
}

func TestGetSingleFlightUnderConcurrency(t *testing.T) {
	loader := newCountingLoader()
	loader.block = make(chan struct{})
	router := newTestRouter(t, loader)
	ctx := context.Background()

	const callers = 20
	var wg sync.WaitGroup
	var failures int32

	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			if _, err := router.Get(ctx, "serie_a"); err != nil {
				atomic.AddInt32(&failures, 1)
			}
		}()
	}

	close(loader.block)
	wg.Wait()

	assert.Zero(t, failures)
	assert.Equal(t, 1, loader.loadCount("serie_a-v2"), "concurrent first use must trigger exactly one load")
}

func TestGetFailureNotCachedAndIsolated(t *testing.T) {
	loader := newCountingLoader()
	loader.failing["ligue_1-v1"] = errors.New("artifact corrupt")
	router := newTestRouter(t, loader)
	ctx := context.Background()

	_, err := router.Get(ctx, "ligue_1")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrModelLoadFailure)

	// Another league is unaffected by the failure.
	_, err = router.Get(ctx, "bundesliga")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bundesliga"}, router.Loaded())

	// Once the artifact recovers the next call retries and succeeds.
	loader.mu.Lock()
	delete(loader.failing, "ligue_1-v1")
	loader.mu.Unlock()

	_, err = router.Get(ctx, "ligue_1")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.loadCount("ligue_1-v1"))
}

func TestGetUnknownLeague(t *testing.T) {
	router := newTestRouter(t, newCountingLoader())

	_, err := router.Get(context.Background(), "eredivisie")
	assert.ErrorIs(t, err, models.ErrUnsupportedLeague)
}

func TestPredictRunsAdapterAndModel(t *testing.T) {
	loader := newCountingLoader()
	router := newTestRouter(t, loader)

	probs, err := router.Predict(context.Background(), "la_liga", league.MatchAttributes{
		HomeTeam: "Barcelona",
		AwayTeam: "Sevilla",
		Odds:     models.OddsTriple{Home: 1.70, Draw: 3.90, Away: 5.00},
	})
	require.NoError(t, err)

	assert.Equal(t, 0.5, probs.Home)
	assert.Equal(t, 1, loader.loadCount("la_liga-v2"))
}

func TestPredictRejectsInvalidAttributes(t *testing.T) {
	router := newTestRouter(t, newCountingLoader())

	_, err := router.Predict(context.Background(), "la_liga", league.MatchAttributes{
		HomeTeam: "Barcelona",
		AwayTeam: "Sevilla",
		Odds:     models.OddsTriple{Home: 0.9, Draw: 3.9, Away: 5.0},
	})
	assert.ErrorIs(t, err, models.ErrInvalidOdds)
}

func TestGetUpdatesLoadedModelsGauge(t *testing.T) {
	router := newTestRouter(t, newCountingLoader())
	ctx := context.Background()

	_, err := router.Get(ctx, "premier_league")
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.LoadedModels))

	_, err = router.Get(ctx, "serie_a")
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.LoadedModels))

	// A cache hit does not bump the gauge.
	_, err = router.Get(ctx, "serie_a")
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.LoadedModels))
}
