package observability

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanRun is the name of the span started for each driver run.
const SpanRun = "fold.run"

// Span attribute keys.
const (
	AttrRunID      = "fold.run_id"
	AttrDriver     = "fold.driver"
	AttrItems      = "fold.items"
	AttrTasks      = "fold.tasks"
	AttrDropped    = "fold.dropped"
	AttrStatus     = "status"
	AttrDurationMs = "duration_ms"
)

// Run statuses.
const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// Run tracks one execution of a fold driver.
type Run struct {
	ID        string
	Driver    string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// RunStats are the counts reported when a run ends.
type RunStats struct {
	Items   int
	Tasks   int
	Dropped int
}

// StartRun starts a span for a driver run and records the run start metric.
// If metrics is nil, metric recording is silently skipped.
func StartRun(ctx context.Context, driver string, metrics *Metrics) (context.Context, *Run) {
	r := &Run{
		ID:        uuid.NewString(),
		Driver:    driver,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
	ctx, r.span = StartSpan(ctx, SpanRun, trace.WithAttributes(
		attribute.String(AttrRunID, r.ID),
		attribute.String(AttrDriver, driver),
	))
	if metrics != nil {
		metrics.RecordRunStart(ctx, driver)
	}
	return ctx, r
}

// End ends the span and records the run metrics. status is one of the Status
// constants; err, if non-nil, is recorded on the span.
func (r *Run) End(ctx context.Context, status string, stats RunStats, err error) {
	duration := time.Since(r.StartTime)

	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}
	r.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int(AttrItems, stats.Items),
		attribute.Int(AttrTasks, stats.Tasks),
		attribute.Int(AttrDropped, stats.Dropped),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	r.span.End()

	if r.Metrics != nil {
		r.Metrics.RecordItems(ctx, r.Driver, stats.Items)
		r.Metrics.RecordTasks(ctx, r.Driver, stats.Tasks, stats.Dropped)
		r.Metrics.RecordRunEnd(ctx, r.Driver, status, duration)
	}
}

// Duration returns the elapsed time since the run started.
func (r *Run) Duration() time.Duration {
	return time.Since(r.StartTime)
}
