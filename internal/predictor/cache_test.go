package predictor

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stake-engine/internal/models"
)

func testKey(home string) CacheKey {
	return CacheKey{
		LeagueKey: "premier_league",
		HomeTeam:  home,
		AwayTeam:  "Chelsea",
		Odds:      models.OddsTriple{Home: 2.10, Draw: 3.40, Away: 3.60},
	}
}

func testRecord() *models.PredictionRecord {
	return &models.PredictionRecord{
		ID:         uuid.New(),
		LeagueKey:  "premier_league",
		Outcome:    models.OutcomeHome,
		Confidence: 0.62,
	}
}

func TestRecordCacheHitAndMiss(t *testing.T) {
	rc := NewRecordCache(time.Minute, 100)
	key := testKey("Arsenal")

	assert.Nil(t, rc.Get(key))

	record := testRecord()
	rc.Set(key, record)

	got := rc.Get(key)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)

	hits, misses, ratio := rc.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 0.5, ratio)
}

func TestRecordCacheOddsArePartOfKey(t *testing.T) {
	rc := NewRecordCache(time.Minute, 100)
	key := testKey("Arsenal")
	rc.Set(key, testRecord())

	moved := key
	moved.Odds.Home = 2.30
	assert.Nil(t, rc.Get(moved), "a moved price must not reuse the cached decision")
}

func TestRecordCacheExpiry(t *testing.T) {
	rc := NewRecordCache(20*time.Millisecond, 100)
	key := testKey("Arsenal")
	rc.Set(key, testRecord())

	require.NotNil(t, rc.Get(key))
	time.Sleep(40 * time.Millisecond)
	assert.Nil(t, rc.Get(key))
}

func TestRecordCacheClear(t *testing.T) {
	rc := NewRecordCache(time.Minute, 100)
	rc.Set(testKey("Arsenal"), testRecord())
	rc.Get(testKey("Arsenal"))

	rc.Clear()

	assert.Zero(t, rc.ItemCount())
	hits, misses, _ := rc.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}
