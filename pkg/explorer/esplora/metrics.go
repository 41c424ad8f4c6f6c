package esplora

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "permavault",
			Subsystem: "explorer",
			Name:      "requests_total",
			Help:      "Number of requests sent to the explorer by method and status.",
		},
		[]string{"method", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "permavault",
			Subsystem: "explorer",
			Name:      "request_duration_seconds",
			Help:      "Explorer request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}
