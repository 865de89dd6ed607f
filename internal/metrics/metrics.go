// Package metrics exposes Prometheus counters and histograms for provider
// attempts made by the resolver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hanzirecall"

// Collector records provider attempts
type Collector struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewCollector registers the attempt metrics with reg. A nil reg uses the
// default Prometheus registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Provider attempts by chain, provider and outcome",
		}, []string{"chain", "provider", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_duration_seconds",
			Help:      "Provider call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		}, []string{"chain", "provider"}),
	}
}

// ObserveAttempt counts one attempt. Skipped attempts are counted but
// their duration is not observed.
func (c *Collector) ObserveAttempt(chain, provider, outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(chain, provider, outcome).Inc()
	if outcome != "skipped" {
		c.duration.WithLabelValues(chain, provider).Observe(d.Seconds())
	}
}
