package health

import (
	"fmt"

	"rehearsal-hub/internal/store"
)

// Thresholds for the miss-ratio rule.
const (
	MinReadsForMissRatio = 20
	MaxMissRatio         = 0.8
)

// RuleResult represents the outcome of a single rule.
type RuleResult struct {
	Triggered      bool
	Signal         string
	Recommendation string
	Severity       Status
}

// Rule evaluates the statistics of one cache.
type Rule func(stats store.Stats) RuleResult

// ---------- RULES ----------

// Evictions mean the cache is undersized for its working set.
func EvictionPressureRule(stats store.Stats) RuleResult {
	if stats.Evictions > 0 {
		return RuleResult{
			Triggered:      true,
			Signal:         fmt.Sprintf("Cache %s is evicting entries", stats.Name),
			Recommendation: fmt.Sprintf("Raise max_size for %s or shorten its TTLs", stats.Name),
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}

// A cache that mostly misses costs more than it saves.
func MissRatioRule(stats store.Stats) RuleResult {
	reads := stats.Hits + stats.Misses
	if reads < MinReadsForMissRatio {
		return RuleResult{}
	}

	if 1-stats.HitRatio() > MaxMissRatio {
		return RuleResult{
			Triggered:      true,
			Signal:         fmt.Sprintf("Cache %s misses most reads", stats.Name),
			Recommendation: fmt.Sprintf("Check key stability and TTLs for %s", stats.Name),
			Severity:       StatusDegraded,
		}
	}
	return RuleResult{}
}
