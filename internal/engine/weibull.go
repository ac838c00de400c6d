package engine

import (
	"math"

	"github.com/dm/eams-go/internal/model"
)

// Weibull shape parameters per failure pattern, indexed Moderate/Severe/Critical.
var familyBeta = map[string][3]float64{
	"bearing":    {2.5, 3.0, 3.5},
	"fatigue":    {2.8, 3.4, 4.0},
	"corrosion":  {2.2, 2.6, 3.0},
	"electrical": {2.2, 2.4, 2.8},
	"early-life": {0.9, 0.75, 0.6},
	"foundation": {2.2, 2.0, 1.8},
	"random":     {1.0, 1.1, 1.2},
}

// failureFamily maps a failure type onto the pattern that governs its life
// distribution.
func failureFamily(t model.FailureType) string {
	switch t {
	case model.FailureBearingDefects:
		return "bearing"
	case model.FailureLooseness:
		return "fatigue"
	case model.FailureCavitation:
		return "corrosion"
	case model.FailureElectrical:
		return "electrical"
	case model.FailureMisalignment, model.FailureUnbalance:
		return "early-life"
	case model.FailureSoftFoot, model.FailureResonance:
		return "foundation"
	default:
		return "random"
	}
}

const (
	etaBaselineHours    = 19200.0
	etaActiveReduction  = 1680.0
	minEtaHours         = 24.0
	wearOutBeta         = 2.5
	wearOutBetaMFISlope = 0.04
	b10Unreliability    = 0.1
)

// severityStress is the per-mode stress weight s used in the η factors.
var severityStress = map[model.Severity]float64{
	model.SeverityModerate: 0.2,
	model.SeveritySevere:   0.5,
	model.SeverityCritical: 1.0,
}

// DominantMode returns the active mode with the highest severity, then the
// highest index, then the earliest detector position. ok is false when no
// mode is active.
func DominantMode(analyses []model.FailureModeResult) (model.FailureModeResult, bool) {
	var best model.FailureModeResult
	found := false
	for _, a := range analyses {
		if !a.Severity.Active() {
			continue
		}
		if !found || dominates(a, best) {
			best, found = a, true
		}
	}
	return best, found
}

func dominates(a, b model.FailureModeResult) bool {
	if a.Severity != b.Severity {
		return a.Severity > b.Severity
	}
	if a.Index != b.Index {
		return a.Index > b.Index
	}
	return a.Type.Order() < b.Type.Order()
}

// WeibullShape selects β from the dominant failure pattern. With no active
// mode the asset is treated as wearing out normally, β = 2.5 − 0.04·MFI.
func WeibullShape(analyses []model.FailureModeResult, mfi float64) (beta float64, family string) {
	dom, ok := DominantMode(analyses)
	if !ok {
		return wearOutBeta - wearOutBetaMFISlope*clamp(mfi, 0, maxIndex), "wear-out"
	}
	family = failureFamily(dom.Type)
	sev := clampInt(int(dom.Severity)-1, 0, 2)
	return familyBeta[family][sev], family
}

// WeibullScale derives η from the design baseline, reduced per active mode.
// Under foundation dominance the reduction is hyperbolic instead of
// exponential since structural faults degrade slowly.
func WeibullScale(analyses []model.FailureModeResult) float64 {
	var active int
	for _, a := range analyses {
		if a.Severity.Active() {
			active++
		}
	}
	relaxed := FoundationShare(analyses) > foundationBoostShare

	eta := etaBaselineHours - etaActiveReduction*float64(active)/float64(len(model.FailureTypes))
	for _, a := range analyses {
		s, ok := severityStress[a.Severity]
		if !ok {
			continue
		}
		i := clamp(a.Index, 0, maxIndex)
		if relaxed {
			eta *= 1 / (1 + s*i/20)
		} else {
			eta *= math.Exp(-s * i / 10)
		}
	}
	return math.Max(minEtaHours, finiteOr(eta, minEtaHours))
}

// weibullMTTF is the mean life η·Γ(1+1/β).
func weibullMTTF(beta, eta float64) float64 {
	return eta * gammaFn(1+1/beta)
}

// weibullB10 is the age by which 10% of a population has failed.
func weibullB10(beta, eta float64) float64 {
	return eta * math.Pow(-math.Log(1-b10Unreliability), 1/beta)
}

// weibullHazard is the instantaneous failure rate β/η·(t/η)^(β−1).
func weibullHazard(beta, eta, t float64) float64 {
	if eta <= 0 {
		return 0
	}
	return finiteOr(beta/eta*math.Pow(t/eta, beta-1), 0)
}

// Weibull fits the life distribution to the current condition and evaluates
// the derived quantities at the estimated age.
func Weibull(analyses []model.FailureModeResult, mfi float64) model.WeibullParameters {
	beta, family := WeibullShape(analyses, mfi)
	eta := WeibullScale(analyses)
	age := estimatedAge(mfi, eta)
	return model.WeibullParameters{
		Beta:       beta,
		Eta:        eta,
		MTTF:       weibullMTTF(beta, eta),
		B10Life:    weibullB10(beta, eta),
		HazardRate: weibullHazard(beta, eta, age),
		Family:     family,
	}
}

// estimatedAge treats the Master Fault Index as the consumed fraction of the
// characteristic life.
func estimatedAge(mfi, eta float64) float64 {
	return clamp(mfi, 0, maxIndex) / maxIndex * eta
}
