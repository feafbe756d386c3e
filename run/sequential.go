package run

import (
	"iter"

	"github.com/kbukum/folds/fold"
)

// Fold runs a total reducer over xs. An empty sequence yields the output of
// the empty accumulator.
func Fold[A, B, M any, T fold.TotalTier](f fold.Def[A, B, M, T], xs iter.Seq[A]) B {
	acc := fold.Empty(f)
	for x := range xs {
		f.Step(x, &acc)
	}
	return f.Output(acc)
}

// Fold1 runs any reducer over xs, initialising from the first item. It
// reports false for an empty sequence.
func Fold1[A, B, M any, T fold.Tier](f fold.Def[A, B, M, T], xs iter.Seq[A]) (B, bool) {
	var (
		acc     M
		started bool
	)
	for x := range xs {
		if !started {
			acc = f.Init(x)
			started = true
			continue
		}
		f.Step(x, &acc)
	}
	if !started {
		var zero B
		return zero, false
	}
	return f.Output(acc), true
}

// Scan yields the output of a total reducer after each item of xs.
func Scan[A, B, M any, T fold.TotalTier](f fold.Def[A, B, M, T], xs iter.Seq[A]) iter.Seq[B] {
	return func(yield func(B) bool) {
		acc := fold.Empty(f)
		for x := range xs {
			f.Step(x, &acc)
			if !yield(f.Output(acc)) {
				return
			}
		}
	}
}
