package httpx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metricSet struct {
	rowsUploaded    *prometheus.CounterVec
	computeDuration prometheus.Histogram
}

func newMetricSet(reg prometheus.Registerer) *metricSet {
	factory := promauto.With(reg)
	return &metricSet{
		rowsUploaded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agencypulse_rows_uploaded_total",
			Help: "CSV rows accepted per dataset kind.",
		}, []string{"dataset"}),
		computeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agencypulse_analytics_compute_seconds",
			Help:    "Wall time of one full analytics pass.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
