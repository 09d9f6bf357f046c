package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects the responder's operational counters.
type Metrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	RepliesSent        prometheus.Counter
	RepliesFailed      prometheus.Counter
	RollbacksTotal     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "responder_evaluations_total",
			Help: "Total evaluations by outcome (accepted or rejection reason)",
		}, []string{"outcome"}),
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "responder_evaluation_duration_seconds",
			Help:    "Time taken to evaluate one notification",
			Buckets: prometheus.DefBuckets,
		}),
		RepliesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "responder_replies_sent_total",
			Help: "Total replies delivered successfully",
		}),
		RepliesFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "responder_replies_failed_total",
			Help: "Total replies that failed delivery",
		}),
		RollbacksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "responder_throttle_rollbacks_total",
			Help: "Total throttle-state rollbacks after failed deliveries",
		}),
	}
}
