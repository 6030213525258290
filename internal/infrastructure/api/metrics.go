package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sutra_client",
			Name:      "requests_total",
			Help:      "Requests issued to the curation service by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sutra_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the curation service.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)
