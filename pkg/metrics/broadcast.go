package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BroadcastMetrics records per-run delivery outcomes.
type BroadcastMetrics struct {
	delivered *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	runs      *prometheus.CounterVec
}

// NewBroadcastMetrics registers the broadcast metrics on the provided registerer.
func NewBroadcastMetrics(reg prometheus.Registerer) *BroadcastMetrics {
	if reg == nil {
		return &BroadcastMetrics{}
	}
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "broadcast_deliveries_total",
		Help: "Per-recipient delivery attempts by outcome.",
	}, []string{"category", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "broadcast_run_duration_seconds",
		Help:    "Duration of full broadcast runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "broadcast_runs_total",
		Help: "Completed broadcast runs by result.",
	}, []string{"category", "result"})
	reg.MustRegister(delivered, duration, runs)
	return &BroadcastMetrics{
		delivered: delivered,
		duration:  duration,
		runs:      runs,
	}
}

// IncDelivered counts one delivery attempt outcome ("sent" or "failed").
func (b *BroadcastMetrics) IncDelivered(category, outcome string) {
	if b == nil || b.delivered == nil {
		return
	}
	b.delivered.WithLabelValues(normalizeLabel(category), normalizeLabel(outcome)).Inc()
}

// ObserveRun records the duration of a completed broadcast run.
func (b *BroadcastMetrics) ObserveRun(category string, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(category)).Observe(duration.Seconds())
}

// IncRun counts a completed run result ("complete", "empty_audience").
func (b *BroadcastMetrics) IncRun(category, result string) {
	if b == nil || b.runs == nil {
		return
	}
	b.runs.WithLabelValues(normalizeLabel(category), normalizeLabel(result)).Inc()
}
