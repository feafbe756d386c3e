// Package run executes reducer definitions from package fold.
//
// The same reducer can be driven in several ways:
//
//	Fold, Fold1, Scan       sequentially over an iter.Seq on the calling goroutine
//	Par, Par1, Partitions   fork-join over a slice, merging chunk accumulators
//	Stream, Stream1         sequentially over an asynchronous stream.Source
//	StreamPar               up to j concurrent tasks per stream, merged in completion order
//
// Each driver only accepts the capability tiers it needs. Partial variants
// (the "1" suffix) report false for an empty input instead of requiring an
// empty accumulator.
//
// The parallel and streaming drivers log each run at debug level through
// logger.Get("run"), start a "fold.run" span and, when given WithMetrics,
// record run metrics.
package run
