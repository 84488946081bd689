package ttl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/metrics"
)

// Store defines the minimal contract required by the sweeper
// This keeps the sweeper decoupled from the concrete store implementation
type Store interface {
	RemoveExpired() int
}

// Sweeper periodically removes expired entries from a store, whether or
// not anyone reads them again.
type Sweeper struct {
	store    Store
	interval time.Duration
	logger   *logs.Logger
	metrics  *metrics.Registry
}

// NewSweeper creates a new Sweeper. logger and reg may be nil.
func NewSweeper(
	store Store,
	interval time.Duration,
	logger *logs.Logger,
	reg *metrics.Registry,
) *Sweeper {
	if logger == nil {
		logger = logs.NewLogger(0, logs.ERROR, nil)
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger,
		metrics:  reg,
	}
}

// Start runs the sweep loop until the context is cancelled.
// It blocks and should typically be run in a separate goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce()
		case <-ctx.Done():
			s.logger.Debug("sweeper stopped")
			return
		}
	}
}

// RunOnce performs a single sweep pass and returns the number of entries removed.
func (s *Sweeper) RunOnce() int {
	s.metrics.Inc(metrics.SweepRunsTotal)

	removed := s.store.RemoveExpired()
	if removed > 0 {
		s.metrics.Add(metrics.SweepRemovedTotal, int64(removed))
		s.logger.Info("sweeper removed expired entries", zap.Int("removed", removed))
	}
	return removed
}
