package store

import (
	"cmp"
	"math"
	"slices"

	"go.uber.org/zap"

	"rehearsal-hub/internal/metrics"
)

// evictCount is how many of n entries one eviction removes: the configured
// fraction rounded up, at least one and never more than n.
func evictCount(n int, fraction float64) int {
	if n <= 0 {
		return 0
	}
	count := int(math.Ceil(float64(n) * fraction))
	return max(1, min(count, n))
}

// evictLocked drops the least recently used batch. The key being inserted
// is not in the map yet, so it can never be chosen. Ties on LastAccessedAt
// are broken by key for a stable order.
func (s *Store) evictLocked() {
	type candidate struct {
		key  string
		last int64
	}

	candidates := make([]candidate, 0, len(s.data))
	for k, e := range s.data {
		candidates = append(candidates, candidate{key: k, last: e.LastAccessedAt.UnixNano()})
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(a.last, b.last); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	n := evictCount(len(candidates), s.config.EvictFraction)
	for _, c := range candidates[:n] {
		delete(s.data, c.key)
	}

	s.evicted += int64(n)
	s.metrics.Add(metrics.CacheEvictedTotal, int64(n))
	s.metrics.Add(metrics.CacheKeys, -int64(n))
	s.logger.Debug("evicted least recently used entries", zap.Int("count", n))
}
