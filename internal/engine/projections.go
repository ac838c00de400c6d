package engine

import (
	"math"

	"github.com/dm/eams-go/internal/model"
)

const anomalyThreshold = 0.5

// AnomalyProjection is the anomaly view of an assessment: a 0–1 score mixing
// fault index, lost health and failure probability.
type AnomalyProjection struct {
	Score     float64             `json:"score"`
	IsAnomaly bool                `json:"is_anomaly"`
	Drivers   []model.FailureType `json:"drivers,omitempty"`
}

// DigitalTwinProjection extrapolates the current condition forward assuming
// the present degradation rate holds.
type DigitalTwinProjection struct {
	HealthScore           float64 `json:"health_score"`
	RULHours              float64 `json:"rul_hours"`
	StressIndex           float64 `json:"stress_index"`
	DegradationRatePerDay float64 `json:"degradation_rate_per_day"`
	PredictedHealth30d    float64 `json:"predicted_health_30d"`
}

// ProjectAnomaly derives the anomaly view from a. The active modes listed as
// drivers are those in the Pareto vital few.
func ProjectAnomaly(a *model.MasterHealthAssessment) AnomalyProjection {
	if a == nil {
		return AnomalyProjection{}
	}
	score := 0.5*clamp(a.MasterFaultIndex/maxIndex, 0, 1) +
		0.3*clamp(1-a.OverallHealthScore/100, 0, 1) +
		0.2*clamp(a.FailureProbability.Probability, 0, 1)
	p := AnomalyProjection{Score: round(score, 3), IsAnomaly: score > anomalyThreshold}

	active := make(map[model.FailureType]bool)
	for _, r := range a.Analyses {
		if r.Severity.Active() {
			active[r.Type] = true
		}
	}
	for _, t := range a.ParetoVitalFew {
		if active[t] {
			p.Drivers = append(p.Drivers, t)
		}
	}
	return p
}

// ProjectDigitalTwin derives the digital-twin view from a. Health is assumed
// to fall linearly to zero over the remaining useful life, accelerated by the
// combined stress index.
func ProjectDigitalTwin(a *model.MasterHealthAssessment) DigitalTwinProjection {
	if a == nil {
		return DigitalTwinProjection{}
	}
	st := a.Reliability.Stress
	stress := finiteOr(st.Temperature*st.Vibration*st.DutyCycle, 1)
	rulDays := math.Max(a.Reliability.RUL.Hours, minRULHours) / 24
	rate := a.OverallHealthScore / rulDays * math.Max(1, stress)
	return DigitalTwinProjection{
		HealthScore:           a.OverallHealthScore,
		RULHours:              a.Reliability.RUL.Hours,
		StressIndex:           stress,
		DegradationRatePerDay: rate,
		PredictedHealth30d:    clamp(a.OverallHealthScore-30*rate, 0, 100),
	}
}
