package metrics

import (
	"sync"

	"go.uber.org/atomic"
)

// MetricKey is a strongly typed metric identifier.
type MetricKey string

// Metric keys (centralized)
const (
	// Cache
	CacheKeys         MetricKey = "cache_keys"
	CacheSetsTotal    MetricKey = "cache_sets_total"
	CacheGetsTotal    MetricKey = "cache_gets_total"
	CacheHitsTotal    MetricKey = "cache_hits_total"
	CacheMissesTotal  MetricKey = "cache_misses_total"
	CacheExpiredTotal MetricKey = "cache_expired_total"
	CacheEvictedTotal MetricKey = "cache_evicted_total"
	CacheClearsTotal  MetricKey = "cache_clears_total"

	// Sweep
	SweepRunsTotal    MetricKey = "sweep_runs_total"
	SweepRemovedTotal MetricKey = "sweep_removed_total"

	// Memoization
	LoaderCallsTotal    MetricKey = "loader_calls_total"
	LoaderFailuresTotal MetricKey = "loader_failures_total"
)

// gauges lists keys that move in both directions.
var gauges = map[MetricKey]bool{
	CacheKeys: true,
}

// IsGauge reports whether key can decrease.
func IsGauge(key MetricKey) bool {
	return gauges[key]
}

// Registry stores all metrics.
type Registry struct {
	mu       sync.RWMutex
	counters map[MetricKey]*atomic.Int64
}

// NewRegistry creates a metrics registry.
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[MetricKey]*atomic.Int64),
	}
}

// Inc increments a metric by 1.
func (r *Registry) Inc(key MetricKey) {
	r.Add(key, 1)
}

// Add increments a metric by delta.
func (r *Registry) Add(key MetricKey, delta int64) {
	r.mu.RLock()
	c, ok := r.counters[key]
	r.mu.RUnlock()

	if ok {
		c.Add(delta)
		return
	}

	// Slow path: metric not yet initialized
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if c, ok = r.counters[key]; ok {
		c.Add(delta)
		return
	}

	r.counters[key] = atomic.NewInt64(delta)
}

// Get returns the current value of key, zero if never touched.
func (r *Registry) Get(key MetricKey) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.counters[key]; ok {
		return c.Load()
	}
	return 0
}
