package preview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ingestionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sticker_ingestions_total",
		Help: "Preview ingestion attempts by outcome and caller.",
	},
	[]string{"outcome", "source"},
)

var ingestionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "sticker_ingestion_duration_seconds",
		Help:    "Time spent in one preview ingestion attempt.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"source"},
)
