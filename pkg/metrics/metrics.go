package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the site's Prometheus collectors on an isolated registry, so
// tests can create as many instances as they need.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal      *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec

	// Slug resolution outcomes: exact, extension, dashed, close, not_found, invalid.
	SlugResolutionsTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_http_requests_total",
				Help: "HTTP requests by method, route and status.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsite_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		SlugResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_slug_resolutions_total",
				Help: "Document slug resolutions by outcome.",
			},
			[]string{"match"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.RequestDurationSeconds,
		m.SlugResolutionsTotal,
	)
	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
