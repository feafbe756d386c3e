package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/folds/logger"
)

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by the fold drivers.
type Metrics struct {
	runTotal     metric.Int64Counter
	runDuration  metric.Float64Histogram
	runActive    metric.Int64UpDownCounter
	itemsTotal   metric.Int64Counter
	tasksTotal   metric.Int64Counter
	droppedTotal metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("fold.run.total",
		metric.WithDescription("Total number of fold runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fold.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("fold.run.duration",
		metric.WithDescription("Duration of fold runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fold.run.duration histogram: %w", err)
	}

	runActive, err := meter.Int64UpDownCounter("fold.run.active",
		metric.WithDescription("Number of fold runs in progress"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fold.run.active gauge: %w", err)
	}

	itemsTotal, err := meter.Int64Counter("fold.items.total",
		metric.WithDescription("Stream elements or slice items consumed by fold runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fold.items.total counter: %w", err)
	}

	tasksTotal, err := meter.Int64Counter("fold.tasks.total",
		metric.WithDescription("Partial accumulators merged into a run result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fold.tasks.total counter: %w", err)
	}

	droppedTotal, err := meter.Int64Counter("fold.tasks.dropped",
		metric.WithDescription("Concurrent tasks dropped from the merge after failing"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fold.tasks.dropped counter: %w", err)
	}

	return &Metrics{
		runTotal:     runTotal,
		runDuration:  runDuration,
		runActive:    runActive,
		itemsTotal:   itemsTotal,
		tasksTotal:   tasksTotal,
		droppedTotal: droppedTotal,
	}, nil
}

// RecordRunStart increments the active run count.
func (m *Metrics) RecordRunStart(ctx context.Context, driver string) {
	m.runActive.Add(ctx, 1, metric.WithAttributes(attribute.String("driver", driver)))
}

// RecordRunEnd decrements active runs and records the completed run.
func (m *Metrics) RecordRunEnd(ctx context.Context, driver, status string, duration time.Duration) {
	m.runActive.Add(ctx, -1, metric.WithAttributes(attribute.String("driver", driver)))
	m.runTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("driver", driver),
		attribute.String("status", status),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("driver", driver),
	))
}

// RecordItems adds n consumed items.
func (m *Metrics) RecordItems(ctx context.Context, driver string, n int) {
	m.itemsTotal.Add(ctx, int64(n), metric.WithAttributes(attribute.String("driver", driver)))
}

// RecordTasks adds merged and dropped task counts.
func (m *Metrics) RecordTasks(ctx context.Context, driver string, merged, dropped int) {
	attrs := metric.WithAttributes(attribute.String("driver", driver))
	m.tasksTotal.Add(ctx, int64(merged), attrs)
	if dropped > 0 {
		m.droppedTotal.Add(ctx, int64(dropped), attrs)
	}
}
