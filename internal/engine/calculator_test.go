package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDivide(t *testing.T) {
	cases := []struct {
		name string
		a, b float64
		want float64
	}{
		{"normal", 10, 4, 2.5},
		{"divide by zero", 5, 0, 0},
		{"zero numerator", 0, 5, 0},
		{"both zero", 0, 0, 0},
		{"infinite numerator", math.Inf(1), 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, safeDivide(tc.a, tc.b))
		})
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -1, 0, 10, 0},
		{"above", 11, 0, 10, 10},
		{"nan", math.NaN(), 0, 10, 0},
		{"+inf", math.Inf(1), 0, 10, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clamp(tc.v, tc.lo, tc.hi))
		})
	}
}

func TestFiniteOr(t *testing.T) {
	assert.Equal(t, 3.0, finiteOr(3, 1))
	assert.Equal(t, 1.0, finiteOr(math.NaN(), 1))
	assert.Equal(t, 1.0, finiteOr(math.Inf(-1), 1))
}

func TestStatsHelpers(t *testing.T) {
	assert.InDelta(t, 15.0, rms(15, 15), 1e-9)
	assert.InDelta(t, 2.0, mean(1, 2, 3), 1e-9)
	assert.InDelta(t, 0.0, stddev(4, 4, 4), 1e-9)
	assert.InDelta(t, math.Sqrt(2.0/3.0), stddev(1, 2, 3), 1e-9)
	assert.Equal(t, 0.0, rms())
	assert.Equal(t, 0.0, mean())
}

func TestGammaFn(t *testing.T) {
	assert.InDelta(t, 1.0, gammaFn(2), 1e-12)
	assert.InDelta(t, math.Sqrt(math.Pi)/2, gammaFn(1.5), 1e-12)
	// Pole at zero falls back to 1.
	assert.Equal(t, 1.0, gammaFn(0))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 12.35, round(12.346, 2))
	assert.Equal(t, 100.0, round(99.96, 1))
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 1, clampInt(-3, 1, 10))
	assert.Equal(t, 10, clampInt(12, 1, 10))
	assert.Equal(t, 5, clampInt(5, 1, 10))
}
