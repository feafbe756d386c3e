package run

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/folds/fold"
	"github.com/kbukum/folds/observability"
)

// Par folds xs by splitting it into chunks, folding each chunk from the
// empty accumulator on its own goroutine and merging the chunk accumulators
// pairwise. The result equals Fold over the same items for any chunk size.
func Par[A, B, M any](f fold.Def[A, B, M, fold.Mergeable], xs []A, opts ...Option) B {
	o := newOptions(opts)
	t := o.begin(context.Background(), "par")

	parts := slices.Collect(slices.Chunk(xs, o.cfg.ChunkSize))
	acc, ok := forkJoin(f, parts, o.cfg.Workers, func(part []A) M {
		acc := fold.Empty(f)
		f.StepChunk(part, &acc)
		return acc
	})
	if !ok {
		acc = fold.Empty(f)
	}

	t.end(observability.RunStats{Items: len(xs), Tasks: len(parts)}, nil)
	return f.Output(acc)
}

// Par1 is Par for reducers without an empty accumulator. Each chunk is
// initialised from its first item. It reports false when xs is empty.
func Par1[A, B, M any, T fold.MergeTier](f fold.Def[A, B, M, T], xs []A, opts ...Option) (B, bool) {
	o := newOptions(opts)
	t := o.begin(context.Background(), "par1")

	parts := slices.Collect(slices.Chunk(xs, o.cfg.ChunkSize))
	acc, ok := forkJoin(f, parts, o.cfg.Workers, func(part []A) M {
		acc := f.Init(part[0])
		f.StepChunk(part[1:], &acc)
		return acc
	})

	t.end(observability.RunStats{Items: len(xs), Tasks: len(parts)}, nil)
	if !ok {
		var zero B
		return zero, false
	}
	return f.Output(acc), true
}

// Partitions folds caller-provided partitions concurrently and merges them in
// partition order. Empty partitions contribute the empty accumulator.
func Partitions[A, B, M any](f fold.Def[A, B, M, fold.Mergeable], parts [][]A, opts ...Option) B {
	o := newOptions(opts)
	t := o.begin(context.Background(), "partitions")

	acc, ok := forkJoin(f, parts, o.cfg.Workers, func(part []A) M {
		acc := fold.Empty(f)
		f.StepChunk(part, &acc)
		return acc
	})
	if !ok {
		acc = fold.Empty(f)
	}

	items := 0
	for _, part := range parts {
		items += len(part)
	}
	t.end(observability.RunStats{Items: items, Tasks: len(parts)}, nil)
	return f.Output(acc)
}

// forkJoin computes leaf(part) for every part on at most workers goroutines
// and merges the results with a pairwise tree. Merge order follows part order.
// It reports false when there are no parts.
func forkJoin[A, B, M any, T fold.MergeTier](f fold.Def[A, B, M, T], parts [][]A, workers int, leaf func([]A) M) (M, bool) {
	if len(parts) == 0 {
		var zero M
		return zero, false
	}
	if len(parts) == 1 {
		return leaf(parts[0]), true
	}

	accs := make([]M, len(parts))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, part := range parts {
		g.Go(func() error {
			accs[i] = leaf(part)
			return nil
		})
	}
	_ = g.Wait()

	return mergeTree(f, accs, workers), true
}

// mergeTree merges accs level by level: at each level accs[2i] absorbs
// accs[2i+1], then the survivors are compacted to the front.
func mergeTree[A, B, M any, T fold.MergeTier](f fold.Def[A, B, M, T], accs []M, workers int) M {
	for len(accs) > 1 {
		pairs := len(accs) / 2
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range pairs {
			g.Go(func() error {
				fold.Merge(f, &accs[2*i], accs[2*i+1])
				return nil
			})
		}
		_ = g.Wait()

		next := accs[:0]
		for i := 0; i < len(accs); i += 2 {
			next = append(next, accs[i])
		}
		accs = next
	}
	return accs[0]
}
