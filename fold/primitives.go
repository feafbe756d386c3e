package fold

import "cmp"

// Number is the set of types Sum and Mean accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

func identity[T any](x T) T { return x }

// Sum adds its inputs. The sum of no items is zero.
func Sum[N Number]() Def[N, N, N, Mergeable] {
	return NewMergeable(Ops[N, N, N]{
		Init: identity[N],
		Step: func(x N, acc *N) { *acc += x },
		StepChunk: func(xs []N, acc *N) {
			s := *acc
			for _, x := range xs {
				s += x
			}
			*acc = s
		},
		Output: identity[N],
		Empty:  func() N { return 0 },
		Merge:  func(dst *N, src N) { *dst += src },
	})
}

// Count counts its inputs.
func Count[A any]() Def[A, int, int, Mergeable] {
	return NewMergeable(Ops[A, int, int]{
		Init:      func(A) int { return 1 },
		Step:      func(_ A, acc *int) { *acc++ },
		StepChunk: func(xs []A, acc *int) { *acc += len(xs) },
		Output:    identity[int],
		Empty:     func() int { return 0 },
		Merge:     func(dst *int, src int) { *dst += src },
	})
}

// Min keeps the smallest input.
func Min[O cmp.Ordered]() Def[O, O, O, MergeablePartial] {
	step := func(x O, acc *O) {
		if x < *acc {
			*acc = x
		}
	}
	return NewMergeablePartial(Ops[O, O, O]{
		Init:   identity[O],
		Step:   step,
		Output: identity[O],
		Merge:  func(dst *O, src O) { step(src, dst) },
	})
}

// Max keeps the largest input.
func Max[O cmp.Ordered]() Def[O, O, O, MergeablePartial] {
	step := func(x O, acc *O) {
		if x > *acc {
			*acc = x
		}
	}
	return NewMergeablePartial(Ops[O, O, O]{
		Init:   identity[O],
		Step:   step,
		Output: identity[O],
		Merge:  func(dst *O, src O) { step(src, dst) },
	})
}

// First keeps the first input.
func First[A any]() Def[A, A, A, Partial] {
	return NewPartial(Ops[A, A, A]{
		Init:   identity[A],
		Step:   func(A, *A) {},
		Output: identity[A],
	})
}

// Last keeps the most recent input.
func Last[A any]() Def[A, A, A, Partial] {
	return NewPartial(Ops[A, A, A]{
		Init:   identity[A],
		Step:   func(x A, acc *A) { *acc = x },
		Output: identity[A],
	})
}

// Mean averages its inputs. The mean of no items is NaN.
func Mean[N Number]() Def[N, float64, Pair[int, N], Mergeable] {
	return PostMap(Par(Count[N](), Sum[N]()), func(p Pair[int, N]) float64 {
		return float64(p.Right) / float64(p.Left)
	})
}
