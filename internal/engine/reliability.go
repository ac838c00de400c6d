package engine

import (
	"fmt"
	"math"

	"github.com/dm/eams-go/internal/model"
)

// repairActivity is one maintenance task with its planned duration.
type repairActivity struct {
	family string
	scope  string
	hours  float64
}

func (r repairActivity) key() string {
	return fmt.Sprintf("%s_%s_%gh", r.family, r.scope, r.hours)
}

// repairActivities lists the task needed per failure type, indexed
// Moderate/Severe/Critical.
var repairActivities = map[model.FailureType][3]repairActivity{
	model.FailureUnbalance:      {{"balance", "trim", 4}, {"balance", "dynamic", 8}, {"balance", "rotor", 16}},
	model.FailureMisalignment:   {{"alignment", "check", 4}, {"alignment", "precision", 16}, {"alignment", "coupling", 24}},
	model.FailureSoftFoot:       {{"foundation", "shim", 4}, {"foundation", "shim", 8}, {"foundation", "regrout", 48}},
	model.FailureBearingDefects: {{"bearing", "lubrication", 2}, {"bearing", "replace", 16}, {"bearing", "critical", 24}},
	model.FailureLooseness:      {{"structure", "torque", 2}, {"structure", "fit", 8}, {"structure", "repair", 24}},
	model.FailureCavitation:     {{"hydraulic", "suction", 4}, {"hydraulic", "impeller", 16}, {"hydraulic", "impeller", 32}},
	model.FailureElectrical:     {{"electrical", "test", 4}, {"electrical", "repair", 16}, {"electrical", "rewind", 48}},
	model.FailureFlowTurbulence: {{"hydraulic", "piping", 4}, {"hydraulic", "piping", 8}, {"hydraulic", "piping", 16}},
	model.FailureResonance:      {{"structure", "survey", 4}, {"structure", "stiffen", 16}, {"structure", "stiffen", 40}},
}

// MTTR components, hours.
const (
	diagnosisHours     = 4.0
	maxActivityHours   = 72.0
	testingBaseHours   = 2.0
	testingPerActivity = 1.0
	maxMTTRHours       = 720.0
	minMTTRHours       = 24.0
	rulConfidenceMax   = 95.0
	rulConfidenceMin   = 40.0
	maxInspectionHours = 2160.0
	designTemperatureC = 60.0
	designDutyCycle    = 0.7
)

var procurementHours = map[model.Severity]float64{
	model.SeverityCritical: 48,
	model.SeveritySevere:   24,
	model.SeverityModerate: 8,
}

// mtbfFactor is the MTBF multiplier contributed by one active mode.
// Foundation faults develop slowly and use gentler factors.
func mtbfFactor(a model.FailureModeResult) float64 {
	i := clamp(a.Index, 0, maxIndex)
	if a.Type.IsFoundation() {
		base := math.Exp(-i / 40)
		switch a.Severity {
		case model.SeverityModerate:
			return base * 0.95
		case model.SeveritySevere:
			return base * 0.85
		case model.SeverityCritical:
			return base * 0.70
		}
		return 1
	}
	switch a.Severity {
	case model.SeverityModerate:
		return math.Exp(-i/20) * 0.8
	case model.SeveritySevere:
		return math.Exp(-i/12) * 0.5
	case model.SeverityCritical:
		return math.Exp(-i/10) * 0.001
	}
	return 1
}

// DegradedMTBF is the design MTBF reduced by every active mode, without the
// planning floors. It can drop well below an hour for a machine in trip.
func DegradedMTBF(analyses []model.FailureModeResult) float64 {
	mtbf := hoursPerYear
	for _, a := range analyses {
		if a.Severity.Active() {
			mtbf *= mtbfFactor(a)
		}
	}
	return math.Max(degradedMTBFFloorHours, finiteOr(mtbf, degradedMTBFFloorHours))
}

// PlanningMTBF applies the reporting floors to a degraded MTBF: 24 h
// absolute, 168 h while no mode is Critical.
func PlanningMTBF(degraded float64, analyses []model.FailureModeResult) float64 {
	floor := minMTBFNoCriticalHours
	if countSeverity(analyses, model.SeverityCritical) > 0 {
		floor = minMTBFHours
	}
	return math.Max(floor, degraded)
}

// MTTR sums diagnosis, repair, procurement and testing time for the
// deduplicated repair activities the active modes call for.
func MTTR(analyses []model.FailureModeResult) (float64, []string) {
	seen := make(map[string]bool)
	var keys []string
	var repair float64
	worst := model.SeverityGood
	for _, a := range analyses {
		if !a.Severity.Active() {
			continue
		}
		if a.Severity > worst {
			worst = a.Severity
		}
		acts, ok := repairActivities[a.Type]
		if !ok {
			continue
		}
		act := acts[clampInt(int(a.Severity)-1, 0, 2)]
		k := act.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
		repair += act.hours
	}

	var mttr float64
	if len(keys) > 0 {
		mttr = diagnosisHours + math.Min(repair, maxActivityHours) +
			procurementHours[worst] + testingBaseHours + testingPerActivity*float64(len(keys))
	}
	return clamp(mttr, minMTTRHours, maxMTTRHours), keys
}

// Availability is MTBF/(MTBF+MTTR) as a percentage.
func Availability(mtbf, mttr float64) float64 {
	a := mtbf / (mtbf + mttr) * 100
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return fallbackAvailabilityPct
	}
	return clamp(a, 0, 100)
}

var zoneRULFactor = map[string]float64{"A": 1.1, "B": 1.0, "C": 0.7, "D": 0.4}

// temperatureRULFactor halves life for every 10 °C above 60 °C (Arrhenius
// rule of thumb) and gives a small credit to cool-running machines.
func temperatureRULFactor(t *float64) float64 {
	if t == nil || !finite(*t) {
		return 1
	}
	switch {
	case *t > designTemperatureC:
		return math.Max(0.25, math.Pow(2, -(*t-designTemperatureC)/10))
	case *t < 40:
		return 1.05
	default:
		return 1
	}
}

// RemainingUsefulLife estimates conditional remaining life from the Weibull
// fit, with the Master Fault Index standing in for consumed life.
func RemainingUsefulLife(analyses []model.FailureModeResult, w model.WeibullParameters, mfi float64, s model.VibrationSnapshot) model.RULEstimate {
	active := countActive(analyses)
	critical := countSeverity(analyses, model.SeverityCritical)
	est := model.RULEstimate{
		CurrentAgeHours: estimatedAge(mfi, w.Eta),
		Confidence:      clamp(rulConfidenceMax-5*float64(active)-10*float64(critical), rulConfidenceMin, rulConfidenceMax),
		Method:          "weibull",
	}

	t, beta, eta := est.CurrentAgeHours, w.Beta, w.Eta
	if t >= eta {
		est.Hours, est.Method = minRULHours, "end-of-life"
		return est
	}
	bracket := math.Pow(-math.Log(1-b10Unreliability), 1/beta) - math.Pow(t/eta, beta)
	if bracket <= 0 {
		est.Hours, est.Method = minRULHours, "end-of-life"
		return est
	}
	rul := eta * math.Pow(bracket, 1/beta)
	if !finite(rul) {
		est.Hours, est.Method = fallbackRULHours, "fallback"
		return est
	}
	rul *= zoneRULFactor[ISOZone(rms(s.VH, s.VV))] * temperatureRULFactor(s.Temperature)
	est.Hours = math.Max(minRULHours, rul)
	return est
}

// Stress returns NSWC-10 style stress multipliers relative to the design
// condition of the asset.
func Stress(s model.VibrationSnapshot, ctx model.EquipmentContext) model.StressFactors {
	f := model.StressFactors{Temperature: 1, Vibration: 1, DutyCycle: 1}
	if s.Temperature != nil && finite(*s.Temperature) {
		design := ctx.OperatingTemperature
		if design <= 0 {
			design = designTemperatureC
		}
		f.Temperature = math.Exp(0.1 * (*s.Temperature/design - 1))
	}
	if r := rms(s.VH, s.VV) / isoZoneAB; r > 0 {
		f.Vibration = math.Pow(r, 2.5)
	}
	if ctx.DutyCycle > 0 {
		f.DutyCycle = math.Pow(ctx.DutyCycle/designDutyCycle, 0.6)
	}
	return f
}

// Optimize picks a maintenance strategy from the failure pattern and sets
// the interval to the earlier of B10 life and remaining life.
func Optimize(analyses []model.FailureModeResult, w model.WeibullParameters, rul model.RULEstimate) model.MaintenanceOptimization {
	var strategy string
	switch {
	case countSeverity(analyses, model.SeverityCritical) > 0:
		strategy = "Immediate corrective maintenance"
	case w.Beta < 1:
		strategy = "Condition-based monitoring"
	case w.Beta <= 1.5:
		strategy = "Predictive maintenance"
	default:
		strategy = "Time-based preventive replacement"
	}
	interval := math.Min(w.B10Life, rul.Hours)
	return model.MaintenanceOptimization{
		Strategy:             strategy,
		OptimalIntervalHours: interval,
		NextInspectionHours:  clamp(interval/4, minRULHours, maxInspectionHours),
	}
}

// oredaRate is the reference reliability of one equipment category: base
// failures per year and repairs per year, plus the failure-rate multiplier
// per installation environment.
type oredaRate struct {
	failuresPerYear float64
	repairsPerYear  float64
	environment     map[model.Environment]float64
}

var oredaRates = map[model.EquipmentCategory]oredaRate{
	model.CategoryCentrifugalPump:       {0.52, 8760, envFactors(1.5, 2.0)},
	model.CategoryPositiveDisplacement:  {0.78, 6570, envFactors(1.8, 2.3)},
	model.CategoryInductionMotor:        {0.31, 4380, envFactors(1.2, 1.6)},
	model.CategoryCentrifugalCompressor: {1.24, 5840, envFactors(2.1, 2.8)},
	model.CategoryBallValve:             {0.089, 2190, envFactors(1.1, 1.4)},
	model.CategoryButterflyValve:        {0.067, 1460, envFactors(1.1, 1.3)},
}

func envFactors(offshore, harsh float64) map[model.Environment]float64 {
	return map[model.Environment]float64{
		model.EnvironmentOnshore:  1,
		model.EnvironmentOffshore: offshore,
		model.EnvironmentHarsh:    harsh,
	}
}

// Benchmark returns the OREDA reference MTBF, MTTR and availability for the
// asset's category. An unset environment counts as onshore. It returns nil
// for an unknown category or environment.
func Benchmark(ctx model.EquipmentContext) *model.ReliabilityBenchmark {
	rate, ok := oredaRates[ctx.Category]
	if !ok {
		return nil
	}
	env := ctx.Environment
	if env == "" {
		env = model.EnvironmentOnshore
	}
	factor, ok := rate.environment[env]
	if !ok {
		return nil
	}
	failures := rate.failuresPerYear * factor
	mtbf := hoursPerYear / failures
	mttr := hoursPerYear / rate.repairsPerYear
	return &model.ReliabilityBenchmark{
		Category:          ctx.Category,
		Environment:       env,
		FailuresPerYear:   failures,
		EnvironmentFactor: factor,
		MTBF:              mtbf,
		MTTR:              mttr,
		Availability:      Availability(mtbf, mttr),
	}
}

// Reliability computes the full reliability picture for one snapshot.
func Reliability(analyses []model.FailureModeResult, mfi float64, s model.VibrationSnapshot, ctx model.EquipmentContext) model.ReliabilityMetrics {
	degraded := DegradedMTBF(analyses)
	mtbf := PlanningMTBF(degraded, analyses)
	mttr, acts := MTTR(analyses)
	w := Weibull(analyses, mfi)
	rul := RemainingUsefulLife(analyses, w, mfi, s)
	return model.ReliabilityMetrics{
		MTBF:             mtbf,
		DegradedMTBF:     degraded,
		MTTR:             mttr,
		Availability:     Availability(mtbf, mttr),
		RepairActivities: acts,
		Weibull:          w,
		RUL:              rul,
		Stress:           Stress(s, ctx),
		Optimization:     Optimize(analyses, w, rul),
		Benchmark:        Benchmark(ctx),
	}
}

func countActive(analyses []model.FailureModeResult) int {
	var n int
	for _, a := range analyses {
		if a.Severity.Active() {
			n++
		}
	}
	return n
}

func countSeverity(analyses []model.FailureModeResult, sev model.Severity) int {
	var n int
	for _, a := range analyses {
		if a.Severity == sev {
			n++
		}
	}
	return n
}
