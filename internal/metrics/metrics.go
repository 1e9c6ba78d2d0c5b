// Package metrics holds the Prometheus collectors for ledger computation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records ledger computations. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	ledgersComputed *prometheus.CounterVec
	billsExcluded   prometheus.Counter
	computeDuration prometheus.Histogram
}

// New creates the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ledgersComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "ledgers_computed_total",
			Help:      "Number of debt ledgers computed, by source.",
		}, []string{"source"}),
		billsExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "splitledger",
			Name:      "bills_excluded_total",
			Help:      "Number of bills left out of a ledger because they were invalid.",
		}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "splitledger",
			Name:      "ledger_compute_duration_seconds",
			Help:      "Time spent netting bills into a ledger.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.ledgersComputed,
		m.billsExcluded,
		m.computeDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveLedger records one computed ledger.
func (m *Metrics) ObserveLedger(source string, excluded int, took time.Duration) {
	if m == nil {
		return
	}
	m.ledgersComputed.WithLabelValues(source).Inc()
	m.billsExcluded.Add(float64(excluded))
	m.computeDuration.Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
