package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PastesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lpaste_pastes_created_total",
		Help: "no. of pastes created",
	})
	PastesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lpaste_pastes_deleted_total",
		Help: "no. of pastes deleted",
	})
	PastesViewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lpaste_pastes_viewed_total",
			Help: "no. of paste views by representation",
		},
		[]string{"view"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lpaste_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
