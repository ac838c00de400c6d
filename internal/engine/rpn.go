package engine

import (
	"math"
	"sort"

	"github.com/dm/eams-go/internal/model"
)

var severityScore = [...]float64{1, 4, 7, 9}

var classWeight = map[model.CriticalityClass]float64{
	model.CriticalityA: 1.2,
	model.CriticalityB: 1.0,
	model.CriticalityC: 0.8,
}

var impactWeight = map[model.ImpactLevel]float64{
	model.ImpactLow:    1.0,
	model.ImpactMedium: 1.1,
	model.ImpactHigh:   1.3,
}

// detectionDifficulty is how hard each mode is to catch before failure
// with periodic route-based measurements (1 easy … 10 hidden).
var detectionDifficulty = map[model.FailureType]float64{
	model.FailureUnbalance:      3,
	model.FailureBearingDefects: 4,
	model.FailureMisalignment:   5,
	model.FailureLooseness:      5,
	model.FailureCavitation:     6,
	model.FailureFlowTurbulence: 6,
	model.FailureSoftFoot:       7,
	model.FailureElectrical:     7,
	model.FailureResonance:      8,
}

var occurrenceBias = map[model.FailureType]float64{
	model.FailureBearingDefects: 0.10,
	model.FailureElectrical:     0.05,
	model.FailureSoftFoot:       -0.10,
}

// Risk bands: upper RPN limits and response timeframes.
const (
	rpnLowLimit    = 50.0
	rpnMediumLimit = 150.0
	rpnHighLimit   = 300.0
)

func weightOf[K comparable](m map[K]float64, k K) float64 {
	if w, ok := m[k]; ok {
		return w
	}
	return 1
}

func severityRating(a model.FailureModeResult, ctx model.EquipmentContext) int {
	s := severityScore[clampInt(int(a.Severity), 0, len(severityScore)-1)]
	switch {
	case (a.Type == model.FailureSoftFoot || a.Type == model.FailureCavitation) && a.Severity >= model.SeveritySevere,
		a.Type == model.FailureElectrical && a.Severity == model.SeverityCritical:
		s++
	}
	s *= weightOf(classWeight, ctx.Criticality)
	return clampInt(int(math.Round(s)), 1, 10)
}

func occurrenceRating(a model.FailureModeResult, s model.VibrationSnapshot, ctx model.EquipmentContext) int {
	o := 1 + 9*clamp(a.Index, 0, maxIndex)/maxIndex
	mult := 1 + occurrenceBias[a.Type]
	// A configured design speed wins over the speed measured with the snapshot.
	speed := ctx.OperatingSpeed
	if speed <= 0 {
		speed = s.Speed
	}
	if speed > 1800 {
		mult += 0.1
	}
	temp := ctx.OperatingTemperature
	if s.Temperature != nil {
		temp = *s.Temperature
	}
	if temp > 60 {
		mult += 0.1
	}
	if ctx.DutyCycle > 0.8 {
		mult += 0.1
	}
	return clampInt(int(math.Round(o*mult)), 1, 10)
}

func isMechanical(t model.FailureType) bool {
	switch t {
	case model.FailureElectrical, model.FailureCavitation, model.FailureFlowTurbulence:
		return false
	}
	return true
}

func cadenceFactor(days float64) float64 {
	switch {
	case days <= 7:
		return 0.8
	case days <= 30:
		return 0.9
	case days <= 90:
		return 1.0
	default:
		return 1.15
	}
}

func detectionRating(a model.FailureModeResult, ctx model.EquipmentContext) int {
	d := weightOf(detectionDifficulty, a.Type)
	if ctx.Monitoring.ContinuousVibration && isMechanical(a.Type) {
		d *= 0.7
	}
	if ctx.Monitoring.Thermal {
		switch a.Type {
		case model.FailureBearingDefects, model.FailureElectrical, model.FailureLooseness:
			d *= 0.85
		}
	}
	if ctx.Monitoring.MCSA && a.Type == model.FailureElectrical {
		d *= 0.6
	}
	d *= cadenceFactor(ctx.InspectionIntervalDays)
	switch a.Severity {
	case model.SeveritySevere:
		d--
	case model.SeverityCritical:
		d -= 2
	}
	return clampInt(int(math.Round(d)), 1, 10)
}

// RiskBandFor buckets an RPN and returns the response timeframe.
func RiskBandFor(rpn float64) (model.RiskBand, string) {
	switch {
	case rpn < rpnLowLimit:
		return model.RiskLow, "Next scheduled maintenance"
	case rpn < rpnMediumLimit:
		return model.RiskMedium, "Within 1 month"
	case rpn < rpnHighLimit:
		return model.RiskHigh, "Within 1 week"
	default:
		return model.RiskCritical, "Within 24 hours"
	}
}

// AssessRisk scores one failure mode FMEA-style. The result depends only on
// its arguments.
func AssessRisk(a model.FailureModeResult, s model.VibrationSnapshot, ctx model.EquipmentContext) model.RiskAssessment {
	sr := severityRating(a, ctx)
	oc := occurrenceRating(a, s, ctx)
	dr := detectionRating(a, ctx)
	rpn := float64(sr*oc*dr) * weightOf(classWeight, ctx.Criticality) * weightOf(impactWeight, ctx.EnvironmentalImpact)
	rpn = round(rpn, 1)
	band, timeframe := RiskBandFor(rpn)
	return model.RiskAssessment{
		Type:       a.Type,
		Severity:   sr,
		Occurrence: oc,
		Detection:  dr,
		RPN:        rpn,
		Band:       band,
		Timeframe:  timeframe,
	}
}

// RiskAssessments scores every analysis, in analysis order.
func RiskAssessments(analyses []model.FailureModeResult, s model.VibrationSnapshot, ctx model.EquipmentContext) []model.RiskAssessment {
	out := make([]model.RiskAssessment, 0, len(analyses))
	for _, a := range analyses {
		out = append(out, AssessRisk(a, s, ctx))
	}
	return out
}

// sortByRPN orders risks by RPN descending, then detector order.
func sortByRPN(risks []model.RiskAssessment) {
	sort.SliceStable(risks, func(i, j int) bool {
		if risks[i].RPN != risks[j].RPN {
			return risks[i].RPN > risks[j].RPN
		}
		return risks[i].Type.Order() < risks[j].Type.Order()
	})
}

// ParetoVitalFew returns the modes that together make up 80% of total RPN,
// highest first. At least the top mode is returned when any RPN is positive.
func ParetoVitalFew(risks []model.RiskAssessment) []model.FailureType {
	sorted := append([]model.RiskAssessment(nil), risks...)
	sortByRPN(sorted)

	var total float64
	for _, r := range sorted {
		total += r.RPN
	}
	if total <= 0 {
		return nil
	}

	var out []model.FailureType
	var cum float64
	for _, r := range sorted {
		cum += r.RPN
		if cum/total > 0.8 && len(out) > 0 {
			break
		}
		out = append(out, r.Type)
	}
	return out
}

// RankContributions attaches each mode's risk assessment to its MFI
// contribution and sorts the rows by RPN descending.
func RankContributions(contribs []model.FailureContribution, risks []model.RiskAssessment) []model.FailureContribution {
	byType := make(map[model.FailureType]model.RiskAssessment, len(risks))
	for _, r := range risks {
		byType[r.Type] = r
	}
	out := append([]model.FailureContribution(nil), contribs...)
	for i := range out {
		out[i].Risk = byType[out[i].Type]
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Risk.RPN != out[j].Risk.RPN {
			return out[i].Risk.RPN > out[j].Risk.RPN
		}
		return out[i].Type.Order() < out[j].Type.Order()
	})
	return out
}
