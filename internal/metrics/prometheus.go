package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes a Registry to Prometheus. The metric set of a registry
// grows lazily, so the collector is unchecked: Describe sends nothing and
// every Collect builds const metrics from a fresh snapshot.
type Collector struct {
	namespace   string
	registry    *Registry
	constLabels prometheus.Labels
}

// NewCollector wraps reg. constLabels distinguish registries that share
// metric names, e.g. {"cache": "users"}.
func NewCollector(namespace string, reg *Registry, constLabels prometheus.Labels) *Collector {
	return &Collector{
		namespace:   namespace,
		registry:    reg,
		constLabels: constLabels,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for name, value := range c.registry.Snapshot() {
		key := MetricKey(name)
		valueType := prometheus.CounterValue
		if IsGauge(key) {
			valueType = prometheus.GaugeValue
		}

		desc := prometheus.NewDesc(
			prometheus.BuildFQName(c.namespace, "", name),
			"Rehearsal hub metric "+name,
			nil,
			c.constLabels,
		)
		ch <- prometheus.MustNewConstMetric(desc, valueType, float64(value))
	}
}

var _ prometheus.Collector = (*Collector)(nil)
