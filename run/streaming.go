package run

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/kbukum/folds/errors"
	"github.com/kbukum/folds/fold"
	"github.com/kbukum/folds/logger"
	"github.com/kbukum/folds/observability"
	"github.com/kbukum/folds/stream"
)

// Report describes how StreamPar combined its tasks.
type Report struct {
	// Tasks is the number of task accumulators merged into the result.
	Tasks int
	// Dropped is the number of tasks that panicked and were left out.
	Dropped int
	// Err collects the failure of every dropped task, or is nil.
	Err error
}

// Stream folds src sequentially with a total reducer. src is closed before
// Stream returns. A source error ends the run with ErrCodeSourceFailed, or
// ErrCodeCancelled when it comes from ctx.
func Stream[A, B, M any, T fold.TotalTier](ctx context.Context, f fold.Def[A, B, M, T], src stream.Source[A], opts ...Option) (B, error) {
	o := newOptions(opts)
	t := o.begin(ctx, "stream")
	defer src.Close()

	acc := fold.Empty(f)
	n, err := drain(t.ctx, src, func(x A) { f.Step(x, &acc) })
	t.end(observability.RunStats{Items: n}, err)
	if err != nil {
		var zero B
		return zero, err
	}
	return f.Output(acc), nil
}

// Stream1 folds src sequentially with any reducer, initialising from the
// first item. It reports false for an empty stream.
func Stream1[A, B, M any, T fold.Tier](ctx context.Context, f fold.Def[A, B, M, T], src stream.Source[A], opts ...Option) (B, bool, error) {
	o := newOptions(opts)
	t := o.begin(ctx, "stream1")
	defer src.Close()

	var (
		acc     M
		started bool
	)
	n, err := drain(t.ctx, src, func(x A) {
		if !started {
			acc = f.Init(x)
			started = true
			return
		}
		f.Step(x, &acc)
	})
	t.end(observability.RunStats{Items: n}, err)

	var zero B
	if err != nil {
		return zero, false, err
	}
	if !started {
		return zero, false, nil
	}
	return f.Output(acc), true, nil
}

// StreamPar folds src with up to j concurrent tasks. Each item is turned into
// an accumulator on a worker and merged into the result in the order tasks
// complete, so the merge must be commutative for a deterministic result.
// When j <= 0 the configured concurrency is used.
//
// A task that panics is dropped from the merge and counted in the Report;
// the run continues. A source error or cancellation ends the run with an
// error and the items merged so far are discarded.
func StreamPar[A, B, M any](ctx context.Context, f fold.Def[A, B, M, fold.Mergeable], j int, src stream.Source[A], opts ...Option) (B, Report, error) {
	o := newOptions(opts)
	if j <= 0 {
		j = o.cfg.Concurrency
	}
	t := o.begin(ctx, "stream_par")

	outcomes := stream.Spawn(t.ctx, src, j, func(_ context.Context, x A) (M, error) {
		return initTask(f, x)
	})
	defer outcomes.Close()

	var (
		rep  Report
		errs *multierror.Error
	)
	acc := fold.Empty(f)
	_, err := drain(t.ctx, outcomes, func(out stream.Outcome[M]) {
		if out.Err != nil {
			rep.Dropped++
			errs = multierror.Append(errs, out.Err)
			t.log.Warn("task dropped from merge", logger.MergeWithError(nil, out.Err))
			return
		}
		fold.Merge(f, &acc, out.Value)
		rep.Tasks++
	})
	rep.Err = errs.ErrorOrNil()

	t.end(observability.RunStats{
		Items:   rep.Tasks + rep.Dropped,
		Tasks:   rep.Tasks,
		Dropped: rep.Dropped,
	}, err)
	if err != nil {
		var zero B
		return zero, rep, err
	}
	return f.Output(acc), rep, nil
}

// initTask builds the accumulator for one item, turning a panic into an
// ErrCodeTaskFailed error.
func initTask[A, B, M any, T fold.Tier](f fold.Def[A, B, M, T], x A) (acc M, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.TaskFailed(r)
		}
	}()
	return f.Init(x), nil
}

// drain calls fn for every value of src and returns the number of values.
func drain[T any](ctx context.Context, src stream.Source[T], fn func(T)) (int, error) {
	n := 0
	for {
		x, ok, err := src.Next(ctx)
		if err != nil {
			return n, errors.SourceFailed(err)
		}
		if !ok {
			if err := ctx.Err(); err != nil {
				return n, errors.Cancelled(err)
			}
			return n, nil
		}
		fn(x)
		n++
	}
}
