package run

import (
	"context"

	"github.com/kbukum/folds/errors"
	"github.com/kbukum/folds/logger"
	"github.com/kbukum/folds/observability"
)

// Option configures a driver call.
type Option func(*options)

type options struct {
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
}

// WithChunkSize sets the number of items per fork-join task.
func WithChunkSize(n int) Option {
	return func(o *options) { o.cfg.ChunkSize = n }
}

// WithWorkers bounds the number of goroutines used by the fork-join drivers.
func WithWorkers(n int) Option {
	return func(o *options) { o.cfg.Workers = n }
}

// WithConfig replaces the chunk size, worker and concurrency settings.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger used for run events.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records run metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	o.cfg.ApplyDefaults()
	if o.log == nil {
		o.log = logger.Get("run")
	}
	return o
}

// tracker follows one driver run through logs, its span and metrics.
type tracker struct {
	ctx context.Context
	run *observability.Run
	log *logger.Logger
}

func (o options) begin(ctx context.Context, driver string) *tracker {
	ctx, r := observability.StartRun(ctx, driver, o.metrics)
	log := o.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldRunID, r.ID,
		logger.FieldDriver, driver,
	))
	log.Debug("fold run started", logger.Fields(
		logger.FieldWorkers, o.cfg.Workers,
	))
	return &tracker{ctx: ctx, run: r, log: log}
}

func (t *tracker) end(stats observability.RunStats, err error) {
	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldItems, stats.Items,
		logger.FieldTasks, stats.Tasks,
		logger.FieldDropped, stats.Dropped,
	), t.run.Duration())

	var status string
	switch {
	case err == nil:
		status = observability.StatusOK
		fields[logger.FieldStatus] = status
		t.log.Debug("fold run finished", fields)
	case errors.HasCode(err, errors.ErrCodeCancelled):
		status = observability.StatusCancelled
		fields[logger.FieldStatus] = status
		t.log.Debug("fold run cancelled", logger.MergeWithError(fields, err))
	default:
		status = observability.StatusError
		fields[logger.FieldStatus] = status
		t.log.Error("fold run failed", logger.MergeWithError(fields, err))
	}
	t.run.End(t.ctx, status, stats, err)
}
