package engine

import (
	"testing"

	"github.com/dm/eams-go/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFailureProbability_AllCriticalShortCircuits(t *testing.T) {
	a := forced(model.SeverityCritical, 10)
	fp := FailureProbabilityFor(a, DegradedMTBF(a), false)
	assert.True(t, fp.ShortCircuited)
	assert.InDelta(t, 0.98, fp.Probability, 1e-12)
	assert.GreaterOrEqual(t, fp.Probability, 0.80)
	assert.Equal(t, 7*24.0, fp.HorizonHours)
}

func TestFailureProbability_ShortCircuitCappedAt99(t *testing.T) {
	a := append(forced(model.SeverityCritical, 10), forced(model.SeverityCritical, 10)...)
	fp := FailureProbabilityFor(a, 0.5, false)
	assert.Equal(t, 0.99, fp.Probability)
}

func TestFailureProbability_HealthyMachine(t *testing.T) {
	fp := FailureProbabilityFor(forced(model.SeverityGood, 0), hoursPerYear, false)
	assert.False(t, fp.ShortCircuited)
	assert.Equal(t, 30*24.0, fp.HorizonHours)
	assert.Equal(t, 1.0, fp.Beta)
	assert.InDelta(t, hoursPerYear, fp.Eta, 1e-6)
	assert.InDelta(t, 16.0/24, fp.DutyFactor, 1e-12)
	assert.InDelta(t, 0.95, fp.InterventionPotential, 1e-12)
	assert.InDelta(t, 0.0263, fp.Probability, 0.0005)
}

func TestFailureProbability_InterventionPotentialFloor(t *testing.T) {
	fp := FailureProbabilityFor(forced(model.SeverityCritical, 1), 100, false)
	assert.False(t, fp.ShortCircuited)
	assert.Equal(t, 0.5, fp.InterventionPotential)
	assert.InDelta(t, 2.5, fp.Beta, 1e-12)
	assert.LessOrEqual(t, fp.Probability, 0.95)
}

func TestFailureProbability_BetaClamped(t *testing.T) {
	a := append(forced(model.SeverityModerate, 1), forced(model.SeverityModerate, 1)...)
	fp := FailureProbabilityFor(a, 5000, false)
	assert.Equal(t, maxSystemBeta, fp.Beta)
}

func TestFailureProbability_ProbabilityPlusReliabilityIsOne(t *testing.T) {
	cases := []struct {
		a        []model.FailureModeResult
		degraded float64
	}{
		{forced(model.SeverityGood, 0), hoursPerYear},
		{forced(model.SeverityModerate, 3), 900},
		{forced(model.SeveritySevere, 6), 40},
		{forced(model.SeverityCritical, 10), 0.1},
		{forced(model.SeverityCritical, 2), 3},
	}
	for _, c := range cases {
		for _, deps := range []bool{false, true} {
			fp := FailureProbabilityFor(c.a, c.degraded, deps)
			assert.InDelta(t, 1.0, fp.Probability+fp.Reliability, 1e-12)
			assert.GreaterOrEqual(t, fp.Probability, 0.01)
			assert.LessOrEqual(t, fp.Probability, 0.99)
		}
	}
}

func TestFailureProbability_DependenciesAreOptIn(t *testing.T) {
	a := withMode(forced(model.SeverityGood, 0), model.FailureMisalignment, model.SeverityModerate, 2)
	plain := FailureProbabilityFor(a, 5000, false)
	amplified := FailureProbabilityFor(a, 5000, true)
	assert.InDelta(t, plain.BaseProbability*1.25, amplified.BaseProbability, 1e-12)
	assert.Greater(t, amplified.Probability, plain.Probability)

	// Nothing active, nothing to amplify.
	good := forced(model.SeverityGood, 0)
	assert.Equal(t, FailureProbabilityFor(good, 5000, false), FailureProbabilityFor(good, 5000, true))
}

func TestHorizonHours(t *testing.T) {
	assert.Equal(t, 168.0, horizonHours(model.SeverityCritical))
	assert.Equal(t, 336.0, horizonHours(model.SeveritySevere))
	assert.Equal(t, 720.0, horizonHours(model.SeverityModerate))
	assert.Equal(t, 720.0, horizonHours(model.SeverityGood))
}
