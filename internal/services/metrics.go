package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for lookups and form state.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups     *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cache       *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. A nil registerer disables metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}

	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autofill",
			Subsystem: "lookup",
			Name:      "requests_total",
			Help:      "Total lookups by kind and outcome",
		}, []string{"kind", "outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "autofill",
			Subsystem: "lookup",
			Name:      "duration_seconds",
			Help:      "Lookup latency including chained requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),

		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autofill",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Lookup cache reads by kind and result",
		}, []string{"kind", "result"}),

		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "autofill",
			Subsystem: "form",
			Name:      "state_transitions_total",
			Help:      "Form controller state transitions",
		}, []string{"from", "to"}),
	}

	for _, c := range []prometheus.Collector{m.lookups, m.duration, m.cache, m.transitions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveLookup records one finished lookup
func (m *Metrics) ObserveLookup(kind string, outcome Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind, string(outcome)).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss
func (m *Metrics) ObserveCache(kind string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(kind, result).Inc()
}

// ObserveTransition records a form state change
func (m *Metrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}
