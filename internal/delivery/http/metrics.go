package http

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Match request outcomes
const (
	outcomeMatched = "matched"
	outcomeNoMatch = "no_match"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

// Metrics records matching traffic on a private registry
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	surfaced prometheus.Histogram
}

// NewMetrics creates the collectors and registers them
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shelfmatch",
			Name:      "match_requests_total",
			Help:      "Match requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shelfmatch",
			Name:      "match_duration_seconds",
			Help:      "Time spent normalizing, loading the catalog and ranking.",
			Buckets:   prometheus.DefBuckets,
		}),
		surfaced: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shelfmatch",
			Name:      "matches_surfaced",
			Help:      "Number of stores returned per successful request.",
			Buckets:   []float64{0, 1, 3, 5, 10, 25, 50, 100},
		}),
	}

	m.registry.MustRegister(
		m.requests, m.duration, m.surfaced,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observe(outcome string, elapsed time.Duration, surfaced int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome == outcomeMatched || outcome == outcomeNoMatch {
		m.surfaced.Observe(float64(surfaced))
	}
}
