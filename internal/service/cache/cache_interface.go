// Package cache declares the contract for the nutrition summary memo.
package cache

import "github.com/guttosm/nutrition-service/internal/domain/model"

// Cache stores normalized summaries keyed by the digest of the raw payload.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(key uint64) (model.NutritionSummary, bool)
	Set(key uint64, value model.NutritionSummary)
	Invalidate(key uint64)
	Clear()
	Stop()
}

// Metrics provides cache performance counters.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// HitRatio returns hits / (hits + misses), or 0 when the cache was never read.
func (m Metrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
