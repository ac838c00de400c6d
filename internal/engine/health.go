package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/dm/eams-go/internal/model"
)

// importanceWeights are the per-mode weights of the Master Fault Index.
var importanceWeights = map[model.FailureType]float64{
	model.FailureBearingDefects: 0.25,
	model.FailureUnbalance:      0.15,
	model.FailureMisalignment:   0.15,
	model.FailureLooseness:      0.12,
	model.FailureSoftFoot:       0.08,
	model.FailureCavitation:     0.08,
	model.FailureElectrical:     0.07,
	model.FailureFlowTurbulence: 0.06,
	model.FailureResonance:      0.04,
}

const (
	maxIndex                 = 10.0
	foundationBoostShare     = 0.5
	foundationDominanceShare = 0.6
	foundationContribBoost   = 1.3
	foundationMFIAmplifier   = 1.22
	exponentialHealthDecay   = 8.0
	indexPenaltyStandard     = 8.0
	indexPenaltyFoundation   = 5.0
)

// subsystem groups failure modes into a machine subsystem for the
// component-based health score.
type subsystem struct {
	name   string
	weight float64
	modes  []model.FailureType
}

var subsystems = []subsystem{
	{"Foundation", 0.20, []model.FailureType{model.FailureSoftFoot, model.FailureResonance}},
	{"Bearings", 0.25, []model.FailureType{model.FailureBearingDefects}},
	{"Alignment", 0.15, []model.FailureType{model.FailureMisalignment}},
	{"Balance", 0.15, []model.FailureType{model.FailureUnbalance}},
	{"Mechanical", 0.10, []model.FailureType{model.FailureLooseness}},
	{"Hydraulic", 0.10, []model.FailureType{model.FailureCavitation, model.FailureFlowTurbulence}},
	{"Electrical", 0.05, []model.FailureType{model.FailureElectrical}},
}

var (
	standardPenalty   = [...]float64{0, 20, 50, 85}
	foundationPenalty = [...]float64{0, 10, 30, 55}
)

// errNoSubsystems is returned by the component path when no analysis maps onto
// a known subsystem.
var errNoSubsystems = errors.New("no subsystem has diagnosed modes")

// FoundationShare returns the fraction of active (non-Good) modes that are
// foundation modes. Zero when nothing is active.
func FoundationShare(analyses []model.FailureModeResult) float64 {
	var active, foundation int
	for _, a := range analyses {
		if !a.Severity.Active() {
			continue
		}
		active++
		if a.Type.IsFoundation() {
			foundation++
		}
	}
	return safeDivide(float64(foundation), float64(active))
}

// MasterFaultIndex computes the weighted Master Fault Index (0–10) and the
// per-mode contributions to it, in analysis order.
func MasterFaultIndex(analyses []model.FailureModeResult) (float64, []model.FailureContribution) {
	share := FoundationShare(analyses)

	contribs := make([]model.FailureContribution, 0, len(analyses))
	var weighted, weights float64
	for _, a := range analyses {
		w := importanceWeights[a.Type]
		c := w * clamp(a.Index, 0, maxIndex)
		if share > foundationBoostShare && a.Type.IsFoundation() {
			c *= foundationContribBoost
		}
		weighted += c
		weights += w
		contribs = append(contribs, model.FailureContribution{
			Type:         a.Type,
			Severity:     a.Severity,
			Index:        a.Index,
			Weight:       w,
			Contribution: c,
		})
	}

	mfi := safeDivide(weighted, weights)
	if share > foundationDominanceShare {
		mfi *= foundationMFIAmplifier
	}
	for i := range contribs {
		contribs[i].Percent = safeDivide(contribs[i].Contribution, weighted) * 100
	}
	return clamp(mfi, 0, maxIndex), contribs
}

// modePenalty is the mean of the severity penalty and the index penalty,
// both on a 0–100 scale.
func modePenalty(a model.FailureModeResult) float64 {
	sev := int(a.Severity)
	if sev < 0 || sev >= len(standardPenalty) {
		sev = len(standardPenalty) - 1
	}
	sp, ip := standardPenalty[sev], a.Index*indexPenaltyStandard
	if a.Type.IsFoundation() {
		sp, ip = foundationPenalty[sev], a.Index*indexPenaltyFoundation
	}
	return (sp + clamp(ip, 0, 100)) / 2
}

// ComponentHealth scores each subsystem as 100 minus the mean penalty of its
// modes and returns the weighted mean across populated subsystems.
func ComponentHealth(analyses []model.FailureModeResult) (float64, []model.SubsystemHealth, error) {
	byType := make(map[model.FailureType]model.FailureModeResult, len(analyses))
	for _, a := range analyses {
		byType[a.Type] = a
	}

	var out []model.SubsystemHealth
	var weighted, weights float64
	for _, s := range subsystems {
		var penalties []float64
		var modes []model.FailureType
		for _, t := range s.modes {
			a, ok := byType[t]
			if !ok {
				continue
			}
			penalties = append(penalties, modePenalty(a))
			modes = append(modes, t)
		}
		if len(penalties) == 0 {
			continue
		}
		h := 100 - mean(penalties...)
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return 0, nil, fmt.Errorf("subsystem %s: non-finite health", s.name)
		}
		h = clamp(h, 0, 100)
		out = append(out, model.SubsystemHealth{Name: s.name, Weight: s.weight, Health: h, Modes: modes})
		weighted += s.weight * h
		weights += s.weight
	}
	if len(out) == 0 {
		return 0, nil, errNoSubsystems
	}
	return clamp(weighted/weights, 0, 100), out, nil
}

// ExponentialHealth maps the Master Fault Index onto 0–100 as 100·e^(−MFI/8).
func ExponentialHealth(mfi float64) float64 {
	return clamp(100*math.Exp(-math.Max(0, mfi)/exponentialHealthDecay), 0, 100)
}

// HealthScore returns the overall health score, the method that produced it
// and the subsystem breakdown. The component path is preferred; the
// exponential MFI mapping is used only when it fails.
func HealthScore(analyses []model.FailureModeResult, mfi float64) (float64, string, []model.SubsystemHealth) {
	score, subs, err := ComponentHealth(analyses)
	if err != nil {
		return ExponentialHealth(mfi), model.HealthMethodExponential, nil
	}
	return score, model.HealthMethodComponent, subs
}

// Grade maps a 0–100 health score onto A–F.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
