// Package stats keeps running statistics over autoplay results.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// RunningStat accumulates mean and variance in one pass (Welford).
type RunningStat struct {
	n    int
	mean float64
	m2   float64
	min  float64
	max  float64
}

func (s *RunningStat) Push(val float64) {
	s.n++
	if s.n == 1 {
		s.mean = val
		s.m2 = 0
		s.min, s.max = val, val
		return
	}
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
	s.min = math.Min(s.min, val)
	s.max = math.Max(s.max, val)
}

func (s *RunningStat) Count() int {
	return s.n
}

func (s *RunningStat) Mean() float64 {
	return s.mean
}

func (s *RunningStat) Min() float64 {
	return s.min
}

func (s *RunningStat) Max() float64 {
	return s.max
}

// Variance is the sample variance.
func (s *RunningStat) Variance() float64 {
	if s.n <= 1 {
		return 0
	}
	return s.m2 / float64(s.n-1)
}

func (s *RunningStat) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *RunningStat) StandardError() float64 {
	if s.n == 0 {
		return 0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval returns the bounds of the two-tailed interval around
// the mean. pct is given in percent, e.g. 95.
func (s *RunningStat) ConfidenceInterval(pct float64) (float64, float64) {
	half := ZVal(pct) * s.StandardError()
	return s.mean - half, s.mean + half
}

// Quantile returns the empirical p-quantile of vals. vals is not modified.
func Quantile(p float64, vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := slices.Clone(vals)
	slices.Sort(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}
