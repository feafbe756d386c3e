package fold

// Tier markers. They are only ever used as the last type argument of Def.
type (
	// Partial reducers need a first item to create an accumulator.
	Partial struct{}
	// Total reducers can start from an empty accumulator.
	Total struct{}
	// MergeablePartial reducers are partial and can combine accumulators.
	MergeablePartial struct{}
	// Mergeable reducers are total and can combine accumulators.
	Mergeable struct{}
)

// Tier is satisfied by every capability marker.
type Tier interface {
	Partial | Total | MergeablePartial | Mergeable
}

// TotalTier is satisfied by the tiers that provide Empty.
type TotalTier interface {
	Total | Mergeable
}

// MergeTier is satisfied by the tiers that provide Merge.
type MergeTier interface {
	MergeablePartial | Mergeable
}

// Def is an immutable reducer definition consuming A, producing B and
// accumulating into M. T records which optional capabilities are present.
//
// The zero Def is not usable; build one with a constructor, a primitive
// or a combinator.
type Def[A, B, M any, T Tier] struct {
	init   func(A) M
	step   func(A, *M)
	chunk  func([]A, *M)
	output func(M) B
	empty  func() M
	merge  func(*M, M)
}

// Init creates an accumulator from the first item.
func (d Def[A, B, M, T]) Init(x A) M { return d.init(x) }

// Step folds one item into acc.
func (d Def[A, B, M, T]) Step(x A, acc *M) { d.step(x, acc) }

// StepChunk folds xs into acc in order. It uses the reducer's bulk step when
// one is defined and otherwise calls Step per item.
func (d Def[A, B, M, T]) StepChunk(xs []A, acc *M) {
	if d.chunk != nil {
		d.chunk(xs, acc)
		return
	}
	for _, x := range xs {
		d.step(x, acc)
	}
}

// Output turns an accumulator into the final result. It must not mutate acc.
func (d Def[A, B, M, T]) Output(acc M) B { return d.output(acc) }

// Partial forgets every optional capability.
func (d Def[A, B, M, T]) Partial() Def[A, B, M, Partial] {
	return Def[A, B, M, Partial]{init: d.init, step: d.step, chunk: d.chunk, output: d.output}
}

// Empty returns the identity accumulator of a total reducer.
func Empty[A, B, M any, T TotalTier](d Def[A, B, M, T]) M {
	return d.empty()
}

// Merge combines src into dst. Merging is associative and agrees with
// folding the concatenation of the two inputs.
func Merge[A, B, M any, T MergeTier](d Def[A, B, M, T], dst *M, src M) {
	d.merge(dst, src)
}

// AsTotal forgets Merge on a total reducer.
func AsTotal[A, B, M any, T TotalTier](d Def[A, B, M, T]) Def[A, B, M, Total] {
	return Def[A, B, M, Total]{init: d.init, step: d.step, chunk: d.chunk, output: d.output, empty: d.empty}
}

// AsMergeablePartial forgets Empty on a mergeable reducer.
func AsMergeablePartial[A, B, M any, T MergeTier](d Def[A, B, M, T]) Def[A, B, M, MergeablePartial] {
	return Def[A, B, M, MergeablePartial]{init: d.init, step: d.step, chunk: d.chunk, output: d.output, merge: d.merge}
}

// Ops lists the operations of a user-defined reducer. Which fields are
// required depends on the constructor used.
type Ops[A, B, M any] struct {
	// Init creates an accumulator from the first item. Optional for total
	// tiers, where it defaults to Empty followed by Step.
	Init func(A) M
	// Step folds one item. Required.
	Step func(A, *M)
	// StepChunk folds a contiguous chunk. Optional; it must be equivalent to
	// calling Step for each item in order.
	StepChunk func([]A, *M)
	// Output produces the result. Required.
	Output func(M) B
	// Empty returns the identity accumulator. Required for total tiers.
	Empty func() M
	// Merge combines two accumulators. Required for mergeable tiers.
	Merge func(*M, M)
}

// NewPartial builds a reducer that needs at least one item.
func NewPartial[A, B, M any](ops Ops[A, B, M]) Def[A, B, M, Partial] {
	return build[Partial]("NewPartial", ops, false, false)
}

// NewTotal builds a reducer with an empty accumulator.
func NewTotal[A, B, M any](ops Ops[A, B, M]) Def[A, B, M, Total] {
	return build[Total]("NewTotal", ops, true, false)
}

// NewMergeablePartial builds a partial reducer with Merge.
func NewMergeablePartial[A, B, M any](ops Ops[A, B, M]) Def[A, B, M, MergeablePartial] {
	return build[MergeablePartial]("NewMergeablePartial", ops, false, true)
}

// NewMergeable builds a total reducer with Merge.
func NewMergeable[A, B, M any](ops Ops[A, B, M]) Def[A, B, M, Mergeable] {
	return build[Mergeable]("NewMergeable", ops, true, true)
}

func build[T Tier, A, B, M any](name string, ops Ops[A, B, M], total, mergeable bool) Def[A, B, M, T] {
	require := func(ok bool, op string) {
		if !ok {
			panic("fold: " + name + " requires " + op)
		}
	}
	require(ops.Step != nil, "Step")
	require(ops.Output != nil, "Output")
	if total {
		require(ops.Empty != nil, "Empty")
	} else {
		require(ops.Init != nil, "Init")
	}
	if mergeable {
		require(ops.Merge != nil, "Merge")
	}

	d := Def[A, B, M, T]{
		init:   ops.Init,
		step:   ops.Step,
		chunk:  ops.StepChunk,
		output: ops.Output,
	}
	if total {
		d.empty = ops.Empty
		if d.init == nil {
			empty, step := ops.Empty, ops.Step
			d.init = func(x A) M {
				acc := empty()
				step(x, &acc)
				return acc
			}
		}
	}
	if mergeable {
		d.merge = ops.Merge
	}
	return d
}
