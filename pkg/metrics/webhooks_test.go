package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWebhookMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)

	m.IncReceived("orders/create")
	m.IncReceived("orders/create")
	m.IncRejected("bad_signature")
	m.IncFailed("orders/create")
	m.ObserveDuration("orders/create", 25*time.Millisecond)

	if got := testutil.ToFloat64(m.received.WithLabelValues("orders/create")); got != 2 {
		t.Fatalf("expected 2 received, got %v", got)
	}
	if got := testutil.ToFloat64(m.rejected.WithLabelValues("bad_signature")); got != 1 {
		t.Fatalf("expected 1 rejected, got %v", got)
	}
	if got := testutil.ToFloat64(m.failed.WithLabelValues("orders/create")); got != 1 {
		t.Fatalf("expected 1 failed, got %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewWebhookMetrics(nil)
	// Must not panic without registered collectors.
	m.IncReceived("orders/create")
	m.IncRejected("unknown_tenant")
	m.ObserveDuration("orders/create", time.Millisecond)

	c := NewCronJobMetrics(nil)
	c.IncSuccess("abandonment-sweep")
	c.IncFailure("abandonment-sweep")
	c.ObserveDuration("abandonment-sweep", time.Second)
}
