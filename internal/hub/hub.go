// Package hub owns the application's cache instances. Every data domain gets
// an explicitly constructed, independently configured store; consumers are
// handed references instead of reaching for package-level singletons.
package hub

import (
	"fmt"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/metrics"
	"rehearsal-hub/internal/store"
)

const metricsNamespace = "rehearsal_hub"

type Hub struct {
	mu     sync.RWMutex
	stores map[string]*store.Store
	logger *logs.Logger
}

// New builds one store per profile. Extra options are applied to every store.
func New(profiles map[string]store.Config, logger *logs.Logger, opts ...store.Option) *Hub {
	if logger == nil {
		logger = logs.NewLogger(0, logs.ERROR, nil)
	}
	h := &Hub{
		stores: make(map[string]*store.Store, len(profiles)),
		logger: logger,
	}
	for name, cfg := range profiles {
		storeOpts := append([]store.Option{
			store.WithLogger(logger),
			store.WithMetrics(metrics.NewRegistry()),
		}, opts...)
		h.stores[name] = store.New(name, cfg, storeOpts...)
	}
	return h
}

// Get returns the named store.
func (h *Hub) Get(name string) (*store.Store, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.stores[name]
	return s, ok
}

// MustGet is for wiring code that names a profile it knows exists.
func (h *Hub) MustGet(name string) *store.Store {
	s, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("hub: no cache named %q", name))
	}
	return s
}

// Names returns the store names in sorted order.
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.stores))
	for name := range h.stores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Stats returns per-store statistics in name order.
func (h *Hub) Stats() []store.Stats {
	out := make([]store.Stats, 0)
	for _, name := range h.Names() {
		if s, ok := h.Get(name); ok {
			out = append(out, s.Stats())
		}
	}
	return out
}

// ClearAll empties every store, e.g. after a user signs out.
func (h *Hub) ClearAll() {
	for _, name := range h.Names() {
		if s, ok := h.Get(name); ok {
			s.Clear()
		}
	}
}

// Register exposes every store's metrics to reg under a "cache" label.
func (h *Hub) Register(reg prometheus.Registerer) error {
	for _, name := range h.Names() {
		s, _ := h.Get(name)
		c := metrics.NewCollector(metricsNamespace, s.Metrics(), prometheus.Labels{"cache": name})
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("register metrics for cache %q: %w", name, err)
		}
	}
	return nil
}

// Close destroys every store and stops their sweepers.
func (h *Hub) Close() {
	h.mu.Lock()
	stores := h.stores
	h.stores = map[string]*store.Store{}
	h.mu.Unlock()

	for _, s := range stores {
		s.Destroy()
	}
	h.logger.Info("cache hub closed")
}
