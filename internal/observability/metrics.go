// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the worker.
type Metrics struct {
	// Pipeline metrics
	MatchesProcessed   prometheus.Counter
	MatchesPreVerified prometheus.Counter
	MatchesRejected    prometheus.Counter
	MatchesFailed      prometheus.Counter
	MatchesVerified    prometheus.Counter
	RejectionsByReason *prometheus.CounterVec

	// Source metrics
	SourceFetches     *prometheus.CounterVec
	BeatmapsFetched   prometheus.Counter
	ProcessingLatency prometheus.Histogram

	// Worker loop metrics
	IdlePolls     prometheus.Counter
	WorkerRunning prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "otr_data_worker"
	}

	return &Metrics{
		MatchesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "matches_processed_total",
			Help:      "Total number of matches that completed a pipeline iteration",
		}),
		MatchesPreVerified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "matches_preverified_total",
			Help:      "Total number of matches classified PreVerified",
		}),
		MatchesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "matches_rejected_total",
			Help:      "Total number of matches classified Rejected",
		}),
		MatchesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "matches_failed_total",
			Help:      "Total number of matches marked as fetch failed",
		}),
		MatchesVerified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "matches_verified_total",
			Help:      "Total number of externally verified matches repopulated",
		}),
		RejectionsByReason: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "rejections_total",
			Help:      "Total number of match rejections by rejection reason",
		}, []string{"reason"}),

		SourceFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Total number of external source fetches by kind and outcome",
		}, []string{"kind", "outcome"}),
		BeatmapsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "beatmaps_fetched_total",
			Help:      "Total number of beatmaps fetched and inserted",
		}),
		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "match_processing_seconds",
			Help:      "Time spent processing one match end to end",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),

		IdlePolls: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "idle_polls_total",
			Help:      "Total number of poll iterations that found nothing pending",
		}),
		WorkerRunning: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "worker",
			Name:      "running",
			Help:      "Whether the worker loop is running (1) or stopped (0)",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
