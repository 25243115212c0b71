// Package predictor provides caching for prediction records.
package predictor

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/stake-engine/internal/models"
)

// CacheKey identifies one prediction request. Odds are part of the key: a
// moved price is a different decision.
type CacheKey struct {
	LeagueKey string
	HomeTeam  string
	AwayTeam  string
	Odds      models.OddsTriple
}

// String returns the string representation of the cache key.
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%.2f:%.2f:%.2f",
		k.LeagueKey, k.HomeTeam, k.AwayTeam, k.Odds.Home, k.Odds.Draw, k.Odds.Away)
}

// RecordCache provides TTL-bounded in-memory caching of prediction records so
// repeated quote requests for the same fixture and prices skip the model.
type RecordCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewRecordCache creates a record cache with the given TTL and size bound.
func NewRecordCache(ttl time.Duration, maxSize int) *RecordCache {
	return &RecordCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached record, or nil on a miss.
func (rc *RecordCache) Get(key CacheKey) *models.PredictionRecord {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if entry, found := rc.cache.Get(key.String()); found {
		if record, ok := entry.(*models.PredictionRecord); ok {
			rc.hitCount++
			rc.publishRatio()
			return record
		}
	}
	rc.missCount++
	rc.publishRatio()
	return nil
}

// Set stores a record.
func (rc *RecordCache) Set(key CacheKey, record *models.PredictionRecord) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
	}
	rc.cache.Set(key.String(), record, rc.ttl)
}

// Clear flushes the cache and resets counters.
func (rc *RecordCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns hit/miss counts and the hit ratio.
func (rc *RecordCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.statsLocked()
}

func (rc *RecordCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits = rc.hitCount
	misses = rc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *RecordCache) publishRatio() {
	_, _, ratio := rc.statsLocked()
	PredictionCacheHitRatio.Set(ratio)
}

// ItemCount returns the number of cached records.
func (rc *RecordCache) ItemCount() int {
	return rc.cache.ItemCount()
}
