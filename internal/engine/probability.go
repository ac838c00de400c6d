package engine

import (
	"math"

	"github.com/dm/eams-go/internal/model"
)

// Dependency is a pairwise cause/effect amplification between failure modes:
// an active From mode raises the likelihood of To by Factor.
type Dependency struct {
	From   model.FailureType
	To     model.FailureType
	Factor float64
}

// DependencyMatrix lists the known cross-mode amplifications. It is applied
// only when Options.ApplyDependencies is set.
var DependencyMatrix = []Dependency{
	{model.FailureMisalignment, model.FailureBearingDefects, 1.25},
	{model.FailureUnbalance, model.FailureBearingDefects, 1.15},
	{model.FailureLooseness, model.FailureBearingDefects, 1.10},
	{model.FailureSoftFoot, model.FailureMisalignment, 1.20},
	{model.FailureCavitation, model.FailureBearingDefects, 1.10},
	{model.FailureResonance, model.FailureLooseness, 1.15},
}

const (
	shortCircuitMTBFHours    = 1.0
	shortCircuitBase         = 0.80
	shortCircuitPerCrit      = 0.02
	shortCircuitMax          = 0.99
	minSystemBeta            = 0.5
	maxSystemBeta            = 3.0
	maxInterventionPotential = 0.95
	minInterventionPotential = 0.5
	residualRiskOffset       = 1.45
	minFailureProbability    = 0.01
	maxFailureProbability    = 0.95
)

// horizonHours is the look-ahead window for the worst active severity.
func horizonHours(worst model.Severity) float64 {
	switch worst {
	case model.SeverityCritical:
		return 7 * 24
	case model.SeveritySevere:
		return 14 * 24
	default:
		return 30 * 24
	}
}

// dutyHours is the expected operating hours per day for the worst severity;
// degraded machines tend to be kept running longer to cover for standby units.
var dutyHours = map[model.Severity]float64{
	model.SeverityGood:     16,
	model.SeverityModerate: 18,
	model.SeveritySevere:   20,
	model.SeverityCritical: 22,
}

func systemBetaIncrement(t model.FailureType) float64 {
	switch failureFamily(t) {
	case "bearing":
		return 0.3
	case "fatigue":
		return 0.4
	case "corrosion":
		return 0.2
	default:
		return 0.1
	}
}

// isVibrationIssue reports whether t is a bearing, alignment or vibration
// problem that maintenance can still intervene on before failure.
func isVibrationIssue(t model.FailureType) bool {
	switch t {
	case model.FailureBearingDefects, model.FailureMisalignment, model.FailureUnbalance, model.FailureLooseness:
		return true
	}
	return false
}

// FailureProbabilityFor estimates the system probability of failure within the
// operating horizon from the degraded MTBF. A degraded MTBF under one hour
// means the machine is already failing and short-circuits the model.
func FailureProbabilityFor(analyses []model.FailureModeResult, degradedMTBF float64, applyDependencies bool) model.FailureProbability {
	worst := model.SeverityGood
	for _, a := range analyses {
		if a.Severity > worst {
			worst = a.Severity
		}
	}
	fp := model.FailureProbability{HorizonHours: horizonHours(worst)}

	if degradedMTBF < shortCircuitMTBFHours {
		critical := countSeverity(analyses, model.SeverityCritical)
		fp.Probability = math.Min(shortCircuitMax, shortCircuitBase+shortCircuitPerCrit*float64(critical))
		fp.Reliability = 1 - fp.Probability
		fp.ShortCircuited = true
		return fp
	}

	beta := 1.0
	potential := maxInterventionPotential
	for _, a := range analyses {
		if !a.Severity.Active() {
			continue
		}
		beta += systemBetaIncrement(a.Type)
		if isVibrationIssue(a.Type) {
			potential -= 0.1
		}
		switch a.Severity {
		case model.SeveritySevere:
			potential -= 0.05
		case model.SeverityCritical:
			potential -= 0.1
		}
	}
	beta = clamp(beta, minSystemBeta, maxSystemBeta)
	potential = math.Max(minInterventionPotential, potential)
	eta := degradedMTBF / gammaFn(1+1/beta)

	base := 1 - math.Exp(-math.Pow(fp.HorizonHours/eta, beta))
	if applyDependencies {
		base *= dependencyAmplification(analyses)
	}
	duty := dutyHours[worst] / 24
	residual := residualRiskOffset - potential

	fp.Beta = beta
	fp.Eta = eta
	fp.BaseProbability = finiteOr(base, 0)
	fp.DutyFactor = duty
	fp.InterventionPotential = potential
	fp.Probability = clamp(fp.BaseProbability*duty*residual, minFailureProbability, maxFailureProbability)
	fp.Reliability = 1 - fp.Probability
	return fp
}

// dependencyAmplification multiplies the factors of every dependency whose
// source mode is active.
func dependencyAmplification(analyses []model.FailureModeResult) float64 {
	active := make(map[model.FailureType]bool, len(analyses))
	for _, a := range analyses {
		if a.Severity.Active() {
			active[a.Type] = true
		}
	}
	amp := 1.0
	for _, d := range DependencyMatrix {
		if active[d.From] {
			amp *= d.Factor
		}
	}
	return amp
}
