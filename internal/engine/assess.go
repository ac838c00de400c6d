package engine

import (
	"fmt"

	"github.com/dm/eams-go/internal/model"
)

// Options adjusts a single assessment. The zero value uses DefaultContext,
// no trend signals and independent failure modes.
type Options struct {
	Context *model.EquipmentContext
	Signals *model.AnalyticsSignals
	// ApplyDependencies enables cross-mode amplification of the failure
	// probability through DependencyMatrix.
	ApplyDependencies bool
}

func (o Options) context() model.EquipmentContext {
	if o.Context != nil {
		return *o.Context
	}
	return model.DefaultContext()
}

// tracer collects ordered trace steps.
type tracer struct {
	steps []model.TraceStep
}

func (t *tracer) add(stage, msg string, value float64) {
	t.steps = append(t.steps, model.TraceStep{Stage: stage, Message: msg, Value: value})
}

// Assess runs the full pipeline on one snapshot. The assessment is nil when
// the snapshot fails validation; the returned Validation explains why.
func Assess(s model.VibrationSnapshot, opts Options) (*model.MasterHealthAssessment, model.Validation) {
	v := ValidateSnapshot(s)
	if !v.Valid {
		return nil, v
	}
	ctx := opts.context()
	tr := &tracer{}

	analyses := RunDetectors(s)
	var critical []model.FailureType
	for _, a := range analyses {
		tr.add("detect", fmt.Sprintf("%s %s", a.Type, a.Severity), a.Index)
		if a.Severity == model.SeverityCritical {
			critical = append(critical, a.Type)
		}
	}

	mfi, contribs := MasterFaultIndex(analyses)
	share := FoundationShare(analyses)
	tr.add("health", "foundation share of active modes", share)
	tr.add("health", "master fault index", mfi)

	score, method, subs := HealthScore(analyses, mfi)
	tr.add("health", "overall health score ("+method+")", score)

	rel := Reliability(analyses, mfi, s, ctx)
	tr.add("reliability", "degraded MTBF hours", rel.DegradedMTBF)
	tr.add("reliability", "MTBF hours", rel.MTBF)
	tr.add("reliability", "MTTR hours", rel.MTTR)
	tr.add("reliability", "availability percent", rel.Availability)
	tr.add("reliability", "weibull beta ("+rel.Weibull.Family+")", rel.Weibull.Beta)
	tr.add("reliability", "weibull eta hours", rel.Weibull.Eta)
	tr.add("reliability", "remaining useful life hours ("+rel.RUL.Method+")", rel.RUL.Hours)
	if bm := rel.Benchmark; bm != nil {
		tr.add("reliability", "OREDA reference MTBF hours ("+string(bm.Category)+", "+string(bm.Environment)+")", bm.MTBF)
	}
	tr.add("stress", "temperature stress factor", rel.Stress.Temperature)
	tr.add("stress", "vibration stress factor", rel.Stress.Vibration)
	tr.add("stress", "duty cycle stress factor", rel.Stress.DutyCycle)

	prob := FailureProbabilityFor(analyses, rel.DegradedMTBF, opts.ApplyDependencies)
	if prob.ShortCircuited {
		tr.add("probability", "degraded MTBF below one hour, short-circuited", prob.Probability)
	} else {
		tr.add("probability", fmt.Sprintf("failure probability over %.0f h", prob.HorizonHours), prob.Probability)
	}

	risks := RiskAssessments(analyses, s, ctx)
	ranked := RankContributions(contribs, risks)
	pareto := ParetoVitalFew(risks)
	if len(ranked) > 0 {
		tr.add("risk", "highest RPN ("+string(ranked[0].Type)+")", ranked[0].Risk.RPN)
	}

	recs := SynthesizeRecommendations(RecommendationInput{
		Snapshot:         s,
		Context:          ctx,
		Analyses:         analyses,
		HealthScore:      score,
		MasterFaultIndex: mfi,
		Reliability:      rel,
		Probability:      prob,
		Signals:          opts.Signals,
	})
	tr.add("recommendations", "recommendations after deduplication", float64(recs.Summary.Total))

	return &model.MasterHealthAssessment{
		Snapshot:             s,
		Analyses:             analyses,
		MasterFaultIndex:     mfi,
		OverallHealthScore:   score,
		HealthGrade:          Grade(score),
		HealthMethod:         method,
		Subsystems:           subs,
		CriticalFailures:     critical,
		Reliability:          rel,
		FailureProbability:   prob,
		FailureContributions: ranked,
		ParetoVitalFew:       pareto,
		Recommendations:      recs,
		Trace:                tr.steps,
	}, v
}

// BuildReport flattens an assessment into the PFMEA worksheet view, rows
// sorted by RPN descending.
func BuildReport(a *model.MasterHealthAssessment) model.Report {
	if a == nil {
		return model.Report{}
	}
	rows := make([]model.ReportRow, 0, len(a.FailureContributions))
	for _, c := range a.FailureContributions {
		rows = append(rows, model.ReportRow{
			Type:         c.Type,
			Severity:     c.Severity,
			Index:        c.Index,
			Contribution: c.Contribution,
			S:            c.Risk.Severity,
			O:            c.Risk.Occurrence,
			D:            c.Risk.Detection,
			RPN:          c.Risk.RPN,
			Band:         c.Risk.Band,
			Timeframe:    c.Risk.Timeframe,
		})
	}
	return model.Report{
		HealthScore:        a.OverallHealthScore,
		HealthGrade:        a.HealthGrade,
		MasterFaultIndex:   a.MasterFaultIndex,
		MTBF:               a.Reliability.MTBF,
		MTTR:               a.Reliability.MTTR,
		Availability:       a.Reliability.Availability,
		RULHours:           a.Reliability.RUL.Hours,
		FailureProbability: a.FailureProbability.Probability,
		Rows:               rows,
	}
}
