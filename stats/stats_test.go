package stats

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
		min    float64
		max    float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638, 10, 23},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891, 10, 124},
		{[]int{1}, 1, 0, 1, 1},
		{[]int{}, 0, 0, 0, 0},
		{[]int{1, 1}, 1, 0, 1, 1},
	}
	for _, c := range cases {
		s := &RunningStat{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.Equal(s.Count(), len(c.scores))
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
		is.Equal(s.Min(), c.min)
		is.Equal(s.Max(), c.max)
	}
}

func TestZVal(t *testing.T) {
	assert.InDelta(t, 1.959964, ZVal(95), 1e-5)
	assert.InDelta(t, 2.575829, ZVal(99), 1e-5)
}

func TestConfidenceInterval(t *testing.T) {
	s := &RunningStat{}
	for _, v := range []float64{10, 12, 23, 23, 16, 23, 21, 16} {
		s.Push(v)
	}
	lo, hi := s.ConfidenceInterval(95)
	half := 1.959964 * 5.2372293656638 / 2.8284271247
	assert.InDelta(t, 18-half, lo, 1e-4)
	assert.InDelta(t, 18+half, hi, 1e-4)
}

func TestQuantile(t *testing.T) {
	is := is.New(t)
	vals := []float64{5, 1, 4, 2, 3}
	is.Equal(Quantile(0.5, vals), 3.0)
	is.Equal(Quantile(1, vals), 5.0)
	is.Equal(Quantile(0, vals), 1.0)
	// input untouched
	is.Equal(vals, []float64{5, 1, 4, 2, 3})
	is.Equal(Quantile(0.5, nil), 0.0)
}
