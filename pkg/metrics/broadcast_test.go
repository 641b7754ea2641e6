package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestBroadcastMetricsNilSafe(t *testing.T) {
	var m *BroadcastMetrics
	m.IncDelivered("safety_alert", "sent")
	m.ObserveRun("safety_alert", time.Second)
	m.IncRun("safety_alert", "complete")

	unregistered := NewBroadcastMetrics(nil)
	unregistered.IncDelivered("", "")
}

func TestBroadcastMetricsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBroadcastMetrics(reg)
	m.IncDelivered("safety_alert", "sent")
	m.IncDelivered("safety_alert", "failed")
	m.IncRun("safety_alert", "complete")
	m.ObserveRun("safety_alert", 250*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 3 {
		t.Fatalf("expected 3 metric families, got %d", len(families))
	}
}
