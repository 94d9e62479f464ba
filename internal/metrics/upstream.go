package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream search API metrics, recorded by the CPR API client.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cprsearch",
			Name:      "upstream_requests_total",
			Help:      "Total requests to the search API by outcome",
		},
		[]string{"endpoint", "outcome"}, // ok, transport_error, bad_status, decode_error
	)

	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cprsearch",
			Name:      "upstream_request_duration_seconds",
			Help:      "Search API round-trip duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	UpstreamHitsReturned = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cprsearch",
			Name:      "upstream_hits_returned",
			Help:      "Hits per parsed search response, by hit kind",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"kind"},
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers the search API metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(UpstreamHitsReturned)
	upstreamMetricsRegistered = true
}
