// Package metrics holds the prometheus collectors of the scan service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	scans          *prometheus.CounterVec
	requests       *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	upstreamTime   *prometheus.HistogramVec
	upstreamErrors *prometheus.CounterVec
}

// New registers the collectors on reg. A nil *Metrics records nothing. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "degenscan_scans_total",
			Help: "Completed token analyses by verdict",
		}, []string{"verdict"}),

		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "degenscan_scan_requests_total",
			Help: "Scan endpoint requests by outcome",
		}, []string{"outcome"}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "degenscan_cache_lookups_total",
			Help: "Result cache lookups by hit or miss",
		}, []string{"result"}),

		upstreamTime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "degenscan_upstream_duration_seconds",
			Help:    "Time spent fetching token data from each upstream source",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		upstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "degenscan_upstream_errors_total",
			Help: "Failed upstream fetches by source",
		}, []string{"source"}),
	}
}

func (m *Metrics) ObserveScan(verdict string) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(verdict).Inc()
}

func (m *Metrics) ObserveRequest(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveUpstream(source string, took time.Duration, err error) {
	if m == nil {
		return
	}
	m.upstreamTime.WithLabelValues(source).Observe(took.Seconds())
	if err != nil {
		m.upstreamErrors.WithLabelValues(source).Inc()
	}
}
