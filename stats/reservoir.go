package stats

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"github.com/kbukum/folds/fold"
)

// Sampled is the output of a reservoir. When Full is true Items holds exactly
// the requested number of items drawn uniformly from the input. Otherwise the
// input was too short and Items holds all of it in arrival order.
type Sampled[A any] struct {
	Items []A
	Full  bool
}

// SampleOption configures Sample.
type SampleOption func(*sampleConfig)

type sampleConfig struct {
	source func() rand.Source
}

// WithSeed makes sampling reproducible. The n-th reservoir of the
// definition to draw a random number gets PCG stream n of seed, so two
// definitions built with the same seed and fed the same way agree, while
// reservoirs of one definition running on parallel chunks stay independent.
func WithSeed(seed uint64) SampleOption {
	return func(c *sampleConfig) {
		var streams atomic.Uint64
		c.source = func() rand.Source {
			return rand.NewPCG(seed, streams.Add(1)*0x9e3779b97f4a7c15)
		}
	}
}

// WithSource sets the factory called once per reservoir to obtain its
// random source.
func WithSource(source func() rand.Source) SampleOption {
	return func(c *sampleConfig) {
		c.source = source
	}
}

func entropySource() rand.Source {
	return rand.NewPCG(rand.Uint64(), rand.Uint64())
}

// Reservoir is the accumulator of Sample. It fills up to its capacity, then
// replaces items using Algorithm L.
type Reservoir[A any] struct {
	items  []A
	size   int
	active bool
	w      float64
	skip   int
	rng    *rand.Rand
	source func() rand.Source
}

// Len returns the number of items held.
func (r *Reservoir[A]) Len() int { return len(r.items) }

// Full reports whether the reservoir has reached its capacity.
func (r *Reservoir[A]) Full() bool { return r.active }

// Sample draws a uniform random sample of n items. n must be positive.
func Sample[A any](n int, opts ...SampleOption) fold.Def[A, Sampled[A], Reservoir[A], fold.Mergeable] {
	if n <= 0 {
		panic("stats: sample size must be positive")
	}
	cfg := sampleConfig{source: entropySource}
	for _, opt := range opts {
		opt(&cfg)
	}

	return fold.NewMergeable(fold.Ops[A, Sampled[A], Reservoir[A]]{
		Step:      func(x A, r *Reservoir[A]) { r.add(x) },
		StepChunk: func(xs []A, r *Reservoir[A]) { r.addChunk(xs) },
		Output: func(r Reservoir[A]) Sampled[A] {
			return Sampled[A]{Items: slices.Clone(r.items), Full: r.active}
		},
		Empty: func() Reservoir[A] {
			return Reservoir[A]{items: make([]A, 0, n), size: n, source: cfg.source}
		},
		// Replaying src through dst is not an exact merge of two
		// independent reservoirs when their input lengths differ.
		Merge: func(dst *Reservoir[A], src Reservoir[A]) {
			for _, x := range src.items {
				dst.add(x)
			}
		},
	})
}

func (r *Reservoir[A]) add(x A) {
	if !r.active {
		r.items = append(r.items, x)
		if len(r.items) == r.size {
			r.activate()
		}
		return
	}
	if r.skip > 0 {
		r.skip--
		return
	}
	r.items[r.rng.IntN(r.size)] = x
	r.w *= math.Exp(math.Log(r.uniform()) / float64(r.size))
	r.skip = r.nextSkip()
}

func (r *Reservoir[A]) addChunk(xs []A) {
	for len(xs) > 0 {
		if r.active && r.skip >= len(xs) {
			r.skip -= len(xs)
			return
		}
		if r.active {
			xs = xs[r.skip:]
			r.skip = 0
		}
		r.add(xs[0])
		xs = xs[1:]
	}
}

func (r *Reservoir[A]) activate() {
	r.active = true
	r.rng = rand.New(r.source())
	r.w = math.Exp(math.Log(r.uniform()) / float64(r.size))
	r.skip = r.nextSkip()
}

// uniform returns a value in (0, 1).
func (r *Reservoir[A]) uniform() float64 {
	for {
		if u := r.rng.Float64(); u > 0 {
			return u
		}
	}
}

func (r *Reservoir[A]) nextSkip() int {
	s := math.Floor(math.Log(r.uniform()) / math.Log(1-r.w))
	if math.IsNaN(s) || math.IsInf(s, 0) || s >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(s)
}
