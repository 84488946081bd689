package store

import (
	"errors"
	"fmt"
	"time"

	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/metrics"
	"rehearsal-hub/internal/ttl"
)

// Config controls capacity, expiry and sweep cadence of one Store.
type Config struct {
	MaxSize       int           `yaml:"max_size"`
	DefaultTTL    time.Duration `yaml:"default_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	// EvictFraction is the share of entries dropped when a new key hits MaxSize.
	EvictFraction float64   `yaml:"evict_fraction"`
	Tiers         ttl.Tiers `yaml:"tiers"`
}

func DefaultConfig() Config {
	return Config{
		MaxSize:       500,
		DefaultTTL:    30 * time.Second,
		SweepInterval: 60 * time.Second,
		EvictFraction: 0.2,
		Tiers:         ttl.DefaultTiers(),
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	if c.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("max_size must be positive, got %d", c.MaxSize))
	}
	if c.DefaultTTL <= 0 {
		errs = append(errs, fmt.Errorf("default_ttl must be positive, got %s", c.DefaultTTL))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval))
	}
	if c.EvictFraction <= 0 || c.EvictFraction > 1 {
		errs = append(errs, fmt.Errorf("evict_fraction must be in (0, 1], got %v", c.EvictFraction))
	}
	return errors.Join(errs...)
}

// Option customizes a Store at construction.
type Option func(*Store)

// WithClock replaces time.Now. Tests use it to control expiry and recency.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(logger *logs.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Store) {
		s.metrics = reg
	}
}

// WithPolicy overrides the TTL policy derived from Config.Tiers.
func WithPolicy(p ttl.Policy) Option {
	return func(s *Store) {
		s.policy = p
	}
}

// SetOption customizes a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	ttl    time.Duration
	hasTTL bool
}

// WithTTL pins the entry's TTL and bypasses the TTL policy.
func WithTTL(d time.Duration) SetOption {
	return func(o *setOptions) {
		o.ttl = d
		o.hasTTL = true
	}
}
