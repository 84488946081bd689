package health

import (
	"strings"

	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/store"
)

// StatsSource supplies per-cache statistics, normally the hub.
type StatsSource interface {
	Stats() []store.Stats
}

// Analyzer converts cache statistics + logs into a health report.
type Analyzer struct {
	source StatsSource
	logger *logs.Logger
	rules  []Rule
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(
	source StatsSource,
	logger *logs.Logger,
) *Analyzer {
	return &Analyzer{
		source: source,
		logger: logger,
		rules: []Rule{
			EvictionPressureRule,
			MissRatioRule,
		},
	}
}

// Analyze evaluates statistics and logs and returns a health report.
func (a *Analyzer) Analyze() Report {
	var (
		signals         = []string{}
		recommendations = []string{}
		status          = StatusOK
	)

	/* ---------- STATS-BASED RULES ---------- */

	for _, stats := range a.source.Stats() {
		for _, rule := range a.rules {
			result := rule(stats)
			if !result.Triggered {
				continue
			}

			signals = append(signals, result.Signal)
			recommendations = append(recommendations, result.Recommendation)

			// Escalate status
			if result.Severity == StatusCritical {
				status = StatusCritical
			} else if result.Severity == StatusDegraded && status == StatusOK {
				status = StatusDegraded
			}
		}
	}

	/* ---------- LOG-BASED SIGNALS ---------- */

	producerFailures := 0
	panicCount := 0

	for _, entry := range a.logger.GetLast(100) {
		if entry.Level == logs.WARN &&
			strings.Contains(entry.Message, "producer failed") {
			producerFailures++
		}

		if entry.Level == logs.ERROR &&
			strings.Contains(entry.Message, "panic") {
			panicCount++
		}
	}

	if producerFailures >= 3 {
		signals = append(signals,
			"Repeated producer failures detected in logs",
		)
		recommendations = append(recommendations,
			"Check connectivity to the backing data services",
		)
		if status == StatusOK {
			status = StatusDegraded
		}
	}

	if panicCount > 0 {
		signals = append(signals,
			"Application panics detected in logs",
		)
		recommendations = append(recommendations,
			"Inspect stack traces and stabilize error handling",
		)
		status = StatusCritical
	}

	/* ---------- SUMMARY ---------- */

	summary := "System is healthy"
	if status != StatusOK {
		summary = "System health issues detected"
	}

	return Report{
		OverallStatus:   status,
		Summary:         summary,
		Signals:         signals,
		Recommendations: recommendations,
	}
}
