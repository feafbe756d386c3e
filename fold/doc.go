// Package fold provides composable reducer definitions.
//
// A reducer is described once as a Def value and executed by any of the
// drivers in package run: sequentially over an iterator, fork-join over a
// slice, or over an asynchronous stream. Combinators build new reducers from
// existing ones without touching the data they will eventually consume:
//
//	stats := fold.Par(fold.Min[int](), fold.Max[int]())
//	evens := fold.Sum[int]().Filter(func(x int) bool { return x%2 == 0 })
//
// Every Def carries a capability tier as its last type parameter:
//
//	Partial           needs at least one item (Init, Step, Output)
//	Total             also has an Empty accumulator
//	MergeablePartial  partial, with an associative Merge
//	Mergeable         total, with an associative Merge
//
// Drivers constrain the tier they accept, so running a partial reducer where
// an empty input must be handled, or splitting work across goroutines for a
// reducer without Merge, is rejected by the compiler.
package fold
