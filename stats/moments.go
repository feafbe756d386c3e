package stats

import (
	"math"

	"github.com/kbukum/folds/fold"
)

// MState is the running state of the moment accumulator: the count, the
// mean, and the sums of the second, third and fourth powers of deviations
// from the mean.
type MState struct {
	N  float64
	M  float64
	M2 float64
	M3 float64
	M4 float64
}

// Summary holds the moments derived from an MState. Kurtosis is not excess
// kurtosis; a normal distribution gives about 3.
type Summary struct {
	N        int
	Mean     float64
	Variance float64
	Skewness float64
	Kurtosis float64
}

// Moments computes mean, sample variance, skewness and kurtosis in a single
// pass. Values are undefined (NaN or Inf) with fewer than two items.
func Moments() fold.Def[float64, Summary, MState, fold.Mergeable] {
	return fold.NewMergeable(fold.Ops[float64, Summary, MState]{
		Init:   func(x float64) MState { return MState{N: 1, M: x} },
		Step:   func(x float64, s *MState) { s.Add(x) },
		Output: MState.Summary,
		Empty:  func() MState { return MState{} },
		Merge:  func(dst *MState, src MState) { dst.Merge(src) },
	})
}

// Add folds one observation into s.
func (s *MState) Add(x float64) {
	n := s.N
	n1 := n + 1
	delta := x - s.M
	dn := delta / n1
	dn2 := dn * dn
	t := delta * dn * n

	s.M4 += t*dn2*(n1*n1-3*n1+3) + 6*dn2*s.M2 - 4*dn*s.M3
	s.M3 += t*dn*(n1-2) - 3*dn*s.M2
	s.M2 += t
	s.M += dn
	s.N = n1
}

// Merge combines o into s as if every observation of o had been added to s.
func (s *MState) Merge(o MState) {
	switch {
	case o.N == 0:
		return
	case s.N == 0:
		*s = o
		return
	}

	na, nb := s.N, o.N
	n := na + nb
	delta := o.M - s.M
	d2 := delta * delta
	d3 := d2 * delta
	d4 := d3 * delta

	m4 := s.M4 + o.M4 +
		d4*na*nb*(na*na-na*nb+nb*nb)/(n*n*n) +
		6*d2*(na*na*o.M2+nb*nb*s.M2)/(n*n) +
		4*delta*(na*o.M3-nb*s.M3)/n
	m3 := s.M3 + o.M3 +
		d3*na*nb*(na-nb)/(n*n) +
		3*delta*(na*o.M2-nb*s.M2)/n
	m2 := s.M2 + o.M2 + d2*na*nb/n

	s.M = s.M + delta*nb/n
	s.M2, s.M3, s.M4 = m2, m3, m4
	s.N = n
}

// Summary derives the moments. It does not modify s.
func (s MState) Summary() Summary {
	return Summary{
		N:        int(s.N),
		Mean:     s.M,
		Variance: s.M2 / (s.N - 1),
		Skewness: math.Sqrt(s.N) * s.M3 / math.Pow(s.M2, 1.5),
		Kurtosis: s.N * s.M4 / (s.M2 * s.M2),
	}
}
