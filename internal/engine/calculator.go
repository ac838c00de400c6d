package engine

import "math"

// Numeric floors and fallbacks shared by the reliability calculations.
const (
	hoursPerYear            = 8760.0
	minMTBFHours            = 24.0
	minMTBFNoCriticalHours  = 168.0
	degradedMTBFFloorHours  = 0.1
	minRULHours             = 24.0
	fallbackRULHours        = 720.0
	fallbackAvailabilityPct = 99.0
)

// safeDivide returns a/b, or 0 when b is zero or the quotient is not finite.
func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return finiteOr(a/b, 0)
}

// finiteOr returns v, or fallback when v is NaN or ±Inf.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// clamp restricts v to [lo, hi]. NaN maps to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maxFloat64 returns the larger of a and b.
func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// minFloat64 returns the smaller of a and b.
func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// rms returns the root mean square of values, 0 for an empty slice.
func rms(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}

// mean returns the arithmetic mean of values, 0 for an empty slice.
func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation of values.
func stddev(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values...)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}

// gammaFn evaluates Γ(x), falling back to 1 where math.Gamma is not finite.
func gammaFn(x float64) float64 {
	g := math.Gamma(x)
	if math.IsNaN(g) || math.IsInf(g, 0) || g <= 0 {
		return 1
	}
	return g
}
