// Package metrics exposes Prometheus instrumentation for the job lifecycle:
// claim contention, status transitions, and webhook dispatch outcomes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ClaimConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "job_claim_conflicts_total",
			Help: "Total number of claim attempts lost to another driver",
		},
	)

	StatusTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_status_transitions_total",
			Help: "Total number of successful status transitions",
		},
		[]string{"from", "to"},
	)

	WebhookDispatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_dispatches_total",
			Help: "Total number of webhook dispatch attempts by outcome",
		},
		[]string{"event", "outcome"},
	)

	WebhookDispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webhook_dispatch_duration_seconds",
			Help:    "Duration of outbound webhook calls",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Dispatch outcome label values.
const (
	OutcomeSent             = "sent"
	OutcomeFailed           = "failed"
	OutcomeDuplicate        = "duplicate"
	OutcomeValidationFailed = "validation_failed"
)

// Register registers all Prometheus metrics.
func Register() {
	prometheus.MustRegister(ClaimConflictsTotal)
	prometheus.MustRegister(StatusTransitionsTotal)
	prometheus.MustRegister(WebhookDispatchesTotal)
	prometheus.MustRegister(WebhookDispatchDuration)
}
