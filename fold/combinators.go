package fold

// Pair holds the results, or the accumulators, of two reducers run side by
// side.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// Par runs two reducers over the same input in a single pass. The result has
// the tier of its operands.
func Par[A, B1, M1, B2, M2 any, T Tier](f1 Def[A, B1, M1, T], f2 Def[A, B2, M2, T]) Def[A, Pair[B1, B2], Pair[M1, M2], T] {
	d := Def[A, Pair[B1, B2], Pair[M1, M2], T]{
		init: func(x A) Pair[M1, M2] {
			return Pair[M1, M2]{Left: f1.init(x), Right: f2.init(x)}
		},
		step: func(x A, acc *Pair[M1, M2]) {
			f1.step(x, &acc.Left)
			f2.step(x, &acc.Right)
		},
		chunk: func(xs []A, acc *Pair[M1, M2]) {
			f1.StepChunk(xs, &acc.Left)
			f2.StepChunk(xs, &acc.Right)
		},
		output: func(acc Pair[M1, M2]) Pair[B1, B2] {
			return Pair[B1, B2]{Left: f1.output(acc.Left), Right: f2.output(acc.Right)}
		},
	}
	if f1.empty != nil && f2.empty != nil {
		d.empty = func() Pair[M1, M2] {
			return Pair[M1, M2]{Left: f1.empty(), Right: f2.empty()}
		}
	}
	if f1.merge != nil && f2.merge != nil {
		d.merge = func(dst *Pair[M1, M2], src Pair[M1, M2]) {
			f1.merge(&dst.Left, src.Left)
			f2.merge(&dst.Right, src.Right)
		}
	}
	return d
}

// Filter skips inputs for which pred returns false.
//
// On total tiers the first item is also filtered: Init starts from Empty.
// A partial accumulator cannot represent "nothing yet", so on partial tiers
// the first item always reaches the inner reducer.
func (d Def[A, B, M, T]) Filter(pred func(A) bool) Def[A, B, M, T] {
	f := d
	f.step = func(x A, acc *M) {
		if pred(x) {
			d.step(x, acc)
		}
	}
	f.chunk = func(xs []A, acc *M) {
		if d.chunk == nil {
			for _, x := range xs {
				if pred(x) {
					d.step(x, acc)
				}
			}
			return
		}
		kept := make([]A, 0, len(xs))
		for _, x := range xs {
			if pred(x) {
				kept = append(kept, x)
			}
		}
		d.chunk(kept, acc)
	}
	if d.empty != nil {
		f.init = func(x A) M {
			acc := d.empty()
			if pred(x) {
				d.step(x, &acc)
			}
			return acc
		}
	}
	return f
}

// GroupBy partitions the input by key and runs d independently per key.
// Keys never seen are absent from the result.
func GroupBy[A, B, M any, K comparable, T Tier](d Def[A, B, M, T], key func(A) K) Def[A, map[K]B, map[K]*M, T] {
	step := func(x A, acc *map[K]*M) {
		k := key(x)
		if cur, ok := (*acc)[k]; ok {
			d.step(x, cur)
			return
		}
		m := d.init(x)
		(*acc)[k] = &m
	}
	g := Def[A, map[K]B, map[K]*M, T]{
		init: func(x A) map[K]*M {
			acc := make(map[K]*M)
			step(x, &acc)
			return acc
		},
		step: step,
		output: func(acc map[K]*M) map[K]B {
			out := make(map[K]B, len(acc))
			for k, m := range acc {
				out[k] = d.output(*m)
			}
			return out
		},
	}
	if d.empty != nil {
		g.empty = func() map[K]*M { return make(map[K]*M) }
	}
	if d.merge != nil {
		g.merge = func(dst *map[K]*M, src map[K]*M) {
			for k, m := range src {
				if cur, ok := (*dst)[k]; ok {
					d.merge(cur, *m)
					continue
				}
				(*dst)[k] = m
			}
		}
	}
	return g
}

// PreMap converts each input with f before d sees it.
func PreMap[A2, A, B, M any, T Tier](d Def[A, B, M, T], f func(A2) A) Def[A2, B, M, T] {
	p := Def[A2, B, M, T]{
		init:   func(x A2) M { return d.init(f(x)) },
		step:   func(x A2, acc *M) { d.step(f(x), acc) },
		output: d.output,
		empty:  d.empty,
		merge:  d.merge,
	}
	if d.chunk != nil {
		p.chunk = func(xs []A2, acc *M) {
			mapped := make([]A, len(xs))
			for i, x := range xs {
				mapped[i] = f(x)
			}
			d.chunk(mapped, acc)
		}
	}
	return p
}

// PostMap converts the output of d with g.
func PostMap[B2, A, B, M any, T Tier](d Def[A, B, M, T], g func(B) B2) Def[A, B2, M, T] {
	return Def[A, B2, M, T]{
		init:   d.init,
		step:   d.step,
		chunk:  d.chunk,
		output: func(acc M) B2 { return g(d.output(acc)) },
		empty:  d.empty,
		merge:  d.merge,
	}
}

// Then feeds every intermediate output of first into second, so second folds
// over the running scan of first. first.Output must not retain or mutate its
// accumulator. The result cannot be merged.
func Then[A, B1, M1, B2, M2 any, T, U Tier](first Def[A, B1, M1, T], second Def[B1, B2, M2, U]) Def[A, B2, Pair[M1, M2], Partial] {
	return Def[A, B2, Pair[M1, M2], Partial]{
		init: func(x A) Pair[M1, M2] {
			m1 := first.init(x)
			return Pair[M1, M2]{Left: m1, Right: second.init(first.output(m1))}
		},
		step: func(x A, acc *Pair[M1, M2]) {
			first.step(x, &acc.Left)
			second.step(first.output(acc.Left), &acc.Right)
		},
		output: func(acc Pair[M1, M2]) B2 { return second.output(acc.Right) },
	}
}

// ThenTotal is Then for two total reducers. Its empty accumulator pairs the
// empty accumulators of both, so second sees nothing until first sees an item.
func ThenTotal[A, B1, M1, B2, M2 any, T, U TotalTier](first Def[A, B1, M1, T], second Def[B1, B2, M2, U]) Def[A, B2, Pair[M1, M2], Total] {
	d := Then(first, second)
	return Def[A, B2, Pair[M1, M2], Total]{
		init:   d.init,
		step:   d.step,
		output: d.output,
		empty: func() Pair[M1, M2] {
			return Pair[M1, M2]{Left: first.empty(), Right: second.empty()}
		},
	}
}

// Batched lifts d to consume chunks of items. Each chunk is folded with
// StepChunk. On partial tiers the first chunk must not be empty.
func Batched[A, B, M any, T Tier](d Def[A, B, M, T]) Def[[]A, B, M, T] {
	b := Def[[]A, B, M, T]{
		step:   d.StepChunk,
		output: d.output,
		empty:  d.empty,
		merge:  d.merge,
	}
	if d.empty != nil {
		b.init = func(xs []A) M {
			acc := d.empty()
			d.StepChunk(xs, &acc)
			return acc
		}
	} else {
		b.init = func(xs []A) M {
			if len(xs) == 0 {
				panic("fold: Batched partial reducer initialised with an empty chunk")
			}
			acc := d.init(xs[0])
			d.StepChunk(xs[1:], &acc)
			return acc
		}
	}
	return b
}

// Many runs n independent copies of d, one per lane. Element i of each input
// vector goes to lane i; elements past n are ignored. A lane starts on the
// first element it receives, so vectors may be narrower than n. The output
// has n entries; a lane that never received an element yields the zero B
// on partial tiers.
func Many[A, B, M any, T Tier](d Def[A, B, M, T], n int) Def[[]A, []B, []*M, T] {
	feed := func(xs []A, lanes []*M) {
		for i := range min(len(xs), len(lanes)) {
			if lanes[i] == nil {
				acc := d.init(xs[i])
				lanes[i] = &acc
				continue
			}
			d.step(xs[i], lanes[i])
		}
	}
	m := Def[[]A, []B, []*M, T]{
		init: func(xs []A) []*M {
			lanes := make([]*M, n)
			if d.empty != nil {
				for i := range lanes {
					acc := d.empty()
					lanes[i] = &acc
				}
			}
			feed(xs, lanes)
			return lanes
		},
		step: func(xs []A, lanes *[]*M) { feed(xs, *lanes) },
		output: func(lanes []*M) []B {
			out := make([]B, len(lanes))
			for i, acc := range lanes {
				if acc != nil {
					out[i] = d.output(*acc)
				}
			}
			return out
		},
	}
	if d.empty != nil {
		m.empty = func() []*M {
			lanes := make([]*M, n)
			for i := range lanes {
				acc := d.empty()
				lanes[i] = &acc
			}
			return lanes
		}
	}
	if d.merge != nil {
		m.merge = func(dst *[]*M, src []*M) {
			lanes := *dst
			for i := range min(len(lanes), len(src)) {
				switch {
				case src[i] == nil:
				case lanes[i] == nil:
					lanes[i] = src[i]
				default:
					d.merge(lanes[i], *src[i])
				}
			}
		}
	}
	return m
}
