package telemetry

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/earlybird-app/earlybird/internal/session"
)

func collect(t *testing.T, r *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	s, ok := data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("aggregation %T is not an int64 sum", data)
	}
	var total int64
	for _, dp := range s.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordsSessionLifecycle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := New(context.Background(), Config{Reader: reader})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer m.Close(context.Background())

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	mon := session.New(session.WithObserver(m))
	if err := mon.Start(start, nil, 1); err != nil {
		t.Fatal(err)
	}
	mon.Tick(start.Add(2 * time.Hour))
	mon.ReportNotificationFailure(context.DeadlineExceeded)
	if _, err := mon.WakeUp(start.Add(3 * time.Hour)); err != nil {
		t.Fatal(err)
	}

	got := collect(t, reader)
	for name, want := range map[string]int64{
		"earlybird_sessions_started_total":      1,
		"earlybird_alarms_triggered_total":      1,
		"earlybird_notification_failures_total": 1,
	} {
		data, ok := got[name]
		if !ok {
			t.Errorf("%s not recorded", name)
			continue
		}
		if v := sumOf(t, data); v != want {
			t.Errorf("%s = %d, want %d", name, v, want)
		}
	}

	hist, ok := got["earlybird_session_duration_seconds"].(metricdata.Histogram[float64])
	if !ok {
		t.Fatalf("duration histogram missing or wrong type: %T", got["earlybird_session_duration_seconds"])
	}
	if len(hist.DataPoints) != 1 || hist.DataPoints[0].Sum != 10800 {
		t.Errorf("duration datapoints = %+v", hist.DataPoints)
	}

	cycles, ok := got["earlybird_completed_cycles"].(metricdata.Histogram[int64])
	if !ok {
		t.Fatalf("cycles histogram missing or wrong type")
	}
	if cycles.DataPoints[0].Sum != 2 {
		t.Errorf("cycles sum = %d, want 2", cycles.DataPoints[0].Sum)
	}
}

func TestMetrics_DefaultsToInProcessReader(t *testing.T) {
	m, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Observe(session.Event{Kind: session.EventStarted})
	if err := m.Close(context.Background()); err != nil {
		t.Errorf("Close: %v", err)
	}
}
