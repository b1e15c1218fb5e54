package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the chart service.
type Metrics struct {
	// Upstream feed metrics.
	FeedRequests *prometheus.CounterVec   // labels: feed={regional,global}, outcome={success,empty,error}
	FeedDuration *prometheus.HistogramVec // labels: feed={regional,global}
	Fallbacks    prometheus.Counter

	// Page metrics.
	PageRequests   *prometheus.CounterVec // labels: outcome={success,error}
	RenderDuration prometheus.Histogram
	EventsRendered prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.Fallbacks,
		m.PageRequests,
		m.RenderDuration,
		m.EventsRendered,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_chart",
			Name:      "feed_requests_total",
			Help:      "Upstream feed requests by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quake_chart",
			Name:      "feed_request_duration_seconds",
			Help:      "Upstream feed request duration including body decode.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"feed"}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quake_chart",
			Name:      "fallback_total",
			Help:      "Times the global feed was queried because the regional feed gave nothing.",
		}),
		PageRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quake_chart",
			Name:      "page_requests_total",
			Help:      "Index page requests by outcome.",
		}, []string{"outcome"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quake_chart",
			Name:      "render_duration_seconds",
			Help:      "Chart rendering duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		EventsRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quake_chart",
			Name:      "events_rendered",
			Help:      "Number of events in the most recently rendered chart.",
		}),
	}
}
