package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the service's Prometheus collectors.
type Metrics struct {
	paymentConfirmations *prometheus.CounterVec
	ordersCreated        *prometheus.CounterVec
	sweepRuns            prometheus.Counter
	sweepDuration        prometheus.Histogram
	recordsDeleted       prometheus.Counter
	artifactsDeleted     prometheus.Counter
	artifactFailures     prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		paymentConfirmations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "deckdrop_payment_confirmations_total",
			Help: "Payment confirmations by trigger path and outcome.",
		}, []string{"path", "outcome"}),
		ordersCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "deckdrop_orders_created_total",
			Help: "Gateway order creation attempts by outcome.",
		}, []string{"outcome"}),
		sweepRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deckdrop_sweep_runs_total",
			Help: "Completed sweeper invocations.",
		}),
		sweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "deckdrop_sweep_duration_seconds",
			Help:    "Duration of a full sweep invocation.",
			Buckets: prometheus.DefBuckets,
		}),
		recordsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deckdrop_sweep_records_deleted_total",
			Help: "Expired presentation records deleted.",
		}),
		artifactsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deckdrop_sweep_artifacts_deleted_total",
			Help: "Stored artifacts deleted by the sweeper.",
		}),
		artifactFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "deckdrop_sweep_artifact_failures_total",
			Help: "Artifact deletions that failed; record deletion still proceeds.",
		}),
	}
}

func (m *Metrics) IncConfirmation(path, outcome string) {
	if m == nil {
		return
	}
	m.paymentConfirmations.WithLabelValues(path, outcome).Inc()
}

func (m *Metrics) IncOrderCreated(outcome string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSweep(seconds float64) {
	if m == nil {
		return
	}
	m.sweepRuns.Inc()
	m.sweepDuration.Observe(seconds)
}

func (m *Metrics) IncRecordDeleted() {
	if m == nil {
		return
	}
	m.recordsDeleted.Inc()
}

func (m *Metrics) IncArtifactDeleted() {
	if m == nil {
		return
	}
	m.artifactsDeleted.Inc()
}

func (m *Metrics) IncArtifactFailure() {
	if m == nil {
		return
	}
	m.artifactFailures.Inc()
}
