package crawlbase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crawlbase_client",
			Name:      "requests_total",
			Help:      "Requests sent to the Crawlbase API, by endpoint, method and HTTP status (\"error\" on transport failure).",
		},
		[]string{"variant", "method", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crawlbase_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip time of Crawlbase API requests.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 90},
		},
		[]string{"variant"},
	)
)
