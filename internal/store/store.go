package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/metrics"
	"rehearsal-hub/internal/ttl"
)

var (
	ErrInvalidTTL = errors.New("ttl must be positive")
	ErrDestroyed  = errors.New("cache store is destroyed")
)

// Store is a concurrency-safe in-memory cache with per-entry TTL and
// batch LRU eviction.
//
// Expiry is checked twice: lazily on Get, and eagerly by a background
// sweeper that the Store starts in New and stops in Destroy. A single mutex
// guards the entry map; a sweep pass holds it for one pass only.
type Store struct {
	name   string
	config Config
	policy ttl.Policy

	mu        sync.Mutex
	data      map[string]*Entry
	destroyed bool

	hits, misses, evicted, expired int64

	now     func() time.Time
	logger  *logs.Logger
	metrics *metrics.Registry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New initializes a Store and starts its sweeper. Invalid config fields
// fall back to DefaultConfig values.
func New(name string, cfg Config, opts ...Option) *Store {
	cfg = normalize(cfg)

	s := &Store{
		name:   name,
		config: cfg,
		data:   make(map[string]*Entry),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logs.NewLogger(0, logs.ERROR, nil)
	}
	s.logger = s.logger.With(zap.String("cache", name))
	if s.metrics == nil {
		s.metrics = metrics.NewRegistry()
	}
	if s.policy == nil {
		s.policy = ttl.NewPolicy(cfg.Tiers, cfg.DefaultTTL)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	sweeper := ttl.NewSweeper(s, cfg.SweepInterval, s.logger, s.metrics)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sweeper.Start(ctx)
	}()

	return s
}

func normalize(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = def.DefaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = def.SweepInterval
	}
	if cfg.EvictFraction <= 0 || cfg.EvictFraction > 1 {
		cfg.EvictFraction = def.EvictFraction
	}
	return cfg
}

// Name identifies the store in logs, metrics and the admin API.
func (s *Store) Name() string {
	return s.name
}

// Config returns the effective configuration.
func (s *Store) Config() Config {
	return s.config
}

// Metrics returns the registry the store reports to.
func (s *Store) Metrics() *metrics.Registry {
	return s.metrics
}

// Set inserts or overwrites key.
//
// Without WithTTL the TTL policy picks the TTL from the value's shape.
// When the store is full and key is new, the least recently used batch is
// evicted before the insert. Overwriting a live entry keeps its
// AccessCount; overwriting an expired one starts the count again.
func (s *Store) Set(key string, value any, opts ...SetOption) error {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasTTL && o.ttl <= 0 {
		return ErrInvalidTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return ErrDestroyed
	}

	s.metrics.Inc(metrics.CacheSetsTotal)

	entryTTL := o.ttl
	if !o.hasTTL {
		entryTTL = s.policy(value)
	}

	now := s.now()
	existing, exists := s.data[key]
	if exists {
		if existing.IsExpired(now) {
			// The old value is gone; this write starts a fresh entry.
			existing.AccessCount = 0
			s.expired++
			s.metrics.Inc(metrics.CacheExpiredTotal)
		}
		existing.Value = value
		existing.InsertedAt = now
		existing.TTL = entryTTL
		existing.LastAccessedAt = now
		return nil
	}

	if len(s.data) >= s.config.MaxSize {
		s.evictLocked()
	}

	s.data[key] = &Entry{
		Value:          value,
		InsertedAt:     now,
		TTL:            entryTTL,
		LastAccessedAt: now,
	}
	s.metrics.Inc(metrics.CacheKeys)
	return nil
}

// Get retrieves a value from the store.
//
// Behavior:
// - Returns (value, true) if key exists and is not expired
// - If the key is expired, it is deleted and treated as missing
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return nil, false
	}

	s.metrics.Inc(metrics.CacheGetsTotal)

	entry, exists := s.data[key]
	if !exists {
		s.misses++
		s.metrics.Inc(metrics.CacheMissesTotal)
		return nil, false
	}

	now := s.now()
	if entry.IsExpired(now) {
		delete(s.data, key)
		s.expired++
		s.misses++
		s.metrics.Inc(metrics.CacheExpiredTotal)
		s.metrics.Inc(metrics.CacheMissesTotal)
		s.metrics.Add(metrics.CacheKeys, -1)
		return nil, false
	}

	entry.AccessCount++
	entry.LastAccessedAt = now
	s.hits++
	s.metrics.Inc(metrics.CacheHitsTotal)
	return entry.Value, true
}

// Peek returns a copy of the entry without touching its access bookkeeping.
// Expired entries are reported as missing but left for the sweeper.
func (s *Store) Peek(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.data[key]
	if !exists || entry.IsExpired(s.now()) {
		return Entry{}, false
	}
	return *entry, true
}

// Delete removes a key from the store.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; ok {
		delete(s.data, key)
		s.metrics.Add(metrics.CacheKeys, -1)
	}
}

// Len returns the number of stored entries, including expired ones the
// sweeper has not reached yet.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Keys returns the stored keys in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	return out
}

// RemoveExpired removes all expired keys from the store.
//
// This is the pass the background sweeper runs.
func (s *Store) RemoveExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, v := range s.data {
		if v.IsExpired(now) {
			delete(s.data, k)
			removed++
		}
	}

	if removed > 0 {
		s.expired += int64(removed)
		s.metrics.Add(metrics.CacheExpiredTotal, int64(removed))
		s.metrics.Add(metrics.CacheKeys, -int64(removed))
	}
	return removed
}

// Clear removes every entry. The store stays usable.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		return
	}
	s.clearLocked()
	s.metrics.Inc(metrics.CacheClearsTotal)
	s.logger.Info("cache cleared")
}

func (s *Store) clearLocked() {
	n := len(s.data)
	s.data = make(map[string]*Entry)
	if n > 0 {
		s.metrics.Add(metrics.CacheKeys, -int64(n))
	}
}

// Destroy stops the sweeper and drops all entries. Afterwards Set returns
// ErrDestroyed, Get always misses and Clear/Destroy do nothing.
func (s *Store) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	s.clearLocked()
	s.mu.Unlock()

	// Wait outside the lock: a running sweep pass needs it to finish.
	s.cancel()
	s.wg.Wait()
	s.logger.Info("cache destroyed")
}
