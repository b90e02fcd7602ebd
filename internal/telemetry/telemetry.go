// Package telemetry records session metrics with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/earlybird-app/earlybird/internal/session"
)

const serviceName = "earlybird"

// Config selects where metrics go. With no Endpoint, metrics stay in process.
type Config struct {
	Endpoint string
	Insecure bool
	Version  string

	// Reader overrides the reader when Endpoint is empty. Tests pass a
	// ManualReader to collect what was recorded.
	Reader sdkmetric.Reader
}

// Metrics records session lifecycle measurements. It implements
// session.Observer.
type Metrics struct {
	provider *sdkmetric.MeterProvider

	sessionsStarted      metric.Int64Counter
	alarmsTriggered      metric.Int64Counter
	notificationFailures metric.Int64Counter
	sessionsReleased     metric.Int64Counter
	durationHist         metric.Float64Histogram
	cyclesHist           metric.Int64Histogram
}

// New builds the meter provider and instruments.
func New(ctx context.Context, cfg Config) (*Metrics, error) {
	var reader sdkmetric.Reader
	if cfg.Endpoint != "" {
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exp)
	} else if cfg.Reader != nil {
		reader = cfg.Reader
	} else {
		reader = sdkmetric.NewManualReader()
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	meter := provider.Meter(serviceName)

	m := &Metrics{provider: provider}
	if m.sessionsStarted, err = meter.Int64Counter(
		"earlybird_sessions_started_total",
		metric.WithDescription("Monitoring sessions started"),
		metric.WithUnit("{session}"),
	); err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}
	if m.alarmsTriggered, err = meter.Int64Counter(
		"earlybird_alarms_triggered_total",
		metric.WithDescription("Wake alarms fired"),
		metric.WithUnit("{alarm}"),
	); err != nil {
		return nil, fmt.Errorf("creating alarms counter: %w", err)
	}
	if m.notificationFailures, err = meter.Int64Counter(
		"earlybird_notification_failures_total",
		metric.WithDescription("Alarm notifications that could not be delivered"),
		metric.WithUnit("{failure}"),
	); err != nil {
		return nil, fmt.Errorf("creating failures counter: %w", err)
	}
	if m.sessionsReleased, err = meter.Int64Counter(
		"earlybird_sessions_abandoned_total",
		metric.WithDescription("Sessions torn down without a wake-up"),
		metric.WithUnit("{session}"),
	); err != nil {
		return nil, fmt.Errorf("creating abandoned counter: %w", err)
	}
	if m.durationHist, err = meter.Float64Histogram(
		"earlybird_session_duration_seconds",
		metric.WithDescription("Time asleep per completed session"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}
	if m.cyclesHist, err = meter.Int64Histogram(
		"earlybird_completed_cycles",
		metric.WithDescription("Full sleep cycles per completed session"),
		metric.WithUnit("{cycle}"),
	); err != nil {
		return nil, fmt.Errorf("creating cycles histogram: %w", err)
	}
	return m, nil
}

// Observe records the measurement that matches e.
func (m *Metrics) Observe(e session.Event) {
	ctx := context.Background()
	switch e.Kind {
	case session.EventStarted:
		m.sessionsStarted.Add(ctx, 1)
	case session.EventAlarmTriggered:
		m.alarmsTriggered.Add(ctx, 1)
	case session.EventNotificationFailed:
		m.notificationFailures.Add(ctx, 1)
	case session.EventReleased:
		m.sessionsReleased.Add(ctx, 1)
	case session.EventCompleted:
		opt := metric.WithAttributes(attribute.String("quality", e.Detail))
		m.durationHist.Record(ctx, float64(e.Elapsed), opt)
		m.cyclesHist.Record(ctx, int64(session.CompletedCycles(e.Elapsed)), opt)
	}
}

// Close shuts down the provider and flushes any pending metrics.
func (m *Metrics) Close(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
