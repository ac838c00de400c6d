package engine

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/dm/eams-go/internal/model"
)

const (
	// Moderate modes only produce a recommendation once their index is this high.
	moderateRecommendationIndex = 3.0
	// Two actions whose word overlap reaches this ratio are treated as duplicates.
	duplicateOverlap = 0.6

	apiBearingTempLimitC = 82.0
	shortRULHours        = 168.0
	// A health drop above this many points is rapid when it happened within
	// a week, or when the time since the last assessment is unknown.
	healthDropPoints = 10.0
	hoursPerWeek     = 168.0
	// A Master Fault Index rise of this much between assessments is flagged.
	mfiRisePoints = 1.0
)

// unitCost is the planning cost estimate of one recommendation per category.
var unitCost = map[model.RecommendationCategory]float64{
	model.CategoryMechanical:  5000,
	model.CategoryElectrical:  4000,
	model.CategoryHydraulic:   6000,
	model.CategoryFoundation:  8000,
	model.CategoryReliability: 2500,
	model.CategoryCompliance:  1500,
	model.CategoryAnalytics:   1000,
	model.CategoryMonitoring:  3000,
}

// modeAction is matched against the lowercase failure type name. Actions are
// indexed Moderate/Severe/Critical.
type modeAction struct {
	match    string
	category model.RecommendationCategory
	actions  [3]string
}

var modeActions = []modeAction{
	{"unbalance", model.CategoryMechanical, [3]string{
		"Check the rotor for deposits and trim balance at the next stop",
		"Perform dynamic balancing of the rotor",
		"Stop and rebalance the rotor before further operation",
	}},
	{"misalignment", model.CategoryMechanical, [3]string{
		"Verify shaft alignment at the next planned stop",
		"Carry out precision laser shaft alignment",
		"Realign shafts and replace damaged coupling elements",
	}},
	{"soft foot", model.CategoryFoundation, [3]string{
		"Measure soft foot at each machine foot",
		"Correct soft foot with precision shims and re-torque anchors",
		"Re-grout the baseplate and re-shim all feet",
	}},
	{"bearing", model.CategoryMechanical, [3]string{
		"Relubricate drive-end bearing and trend its envelope spectrum",
		"Replace drive-end bearing and inspect lubrication",
		"Stop the machine and replace the drive-end bearing",
	}},
	{"looseness", model.CategoryMechanical, [3]string{
		"Check fastener torque on feet and bearing housings",
		"Tighten fasteners and restore bearing housing fits",
		"Repair pedestal and housing fits before restart",
	}},
	{"cavitation", model.CategoryHydraulic, [3]string{
		"Verify suction pressure and NPSH margin",
		"Increase suction head and inspect impeller erosion",
		"Throttle flow and replace the eroded impeller",
	}},
	{"electrical", model.CategoryElectrical, [3]string{
		"Run motor current signature analysis",
		"Test motor windings, rotor bars and supply balance",
		"Isolate the motor and repair rotor bars or rewind the stator",
	}},
	{"turbulence", model.CategoryHydraulic, [3]string{
		"Compare duty point with the pump curve",
		"Return pump operation toward best efficiency point",
		"Modify suction piping and fit a minimum flow bypass",
	}},
	{"resonance", model.CategoryFoundation, [3]string{
		"Bump test the structure to locate natural frequencies",
		"Detune structure by stiffening baseplate or changing speed",
		"Move running speed off the resonance band",
	}},
}

// RecommendationInput is everything the synthesizer draws on.
type RecommendationInput struct {
	Snapshot    model.VibrationSnapshot
	Context     model.EquipmentContext
	Analyses    []model.FailureModeResult
	HealthScore float64
	// MasterFaultIndex is compared with the previous index when Signals is set.
	MasterFaultIndex float64
	Reliability      model.ReliabilityMetrics
	Probability      model.FailureProbability
	// Signals is optional and enables the trend checks.
	Signals *model.AnalyticsSignals
}

// SynthesizeRecommendations gathers candidates from failure modes, health,
// standards and analytics, removes near-duplicates and buckets the rest by
// timeframe.
func SynthesizeRecommendations(in RecommendationInput) model.RecommendationSet {
	var candidates []model.Recommendation
	candidates = append(candidates, failureModeRecs(in.Analyses)...)
	candidates = append(candidates, healthRecs(in.HealthScore)...)
	candidates = append(candidates, standardsRecs(in)...)
	candidates = append(candidates, analyticsRecs(in)...)

	set := model.RecommendationSet{
		Immediate: []model.Recommendation{},
		ShortTerm: []model.Recommendation{},
		LongTerm:  []model.Recommendation{},
	}
	for _, r := range Deduplicate(candidates) {
		switch bucketOf(r) {
		case bucketImmediate:
			set.Immediate = append(set.Immediate, r)
		case bucketShortTerm:
			set.ShortTerm = append(set.ShortTerm, r)
		default:
			set.LongTerm = append(set.LongTerm, r)
		}
	}
	set.Summary = Summarize(set.All())
	return set
}

func failureModeRecs(analyses []model.FailureModeResult) []model.Recommendation {
	var recs []model.Recommendation
	for _, a := range analyses {
		var (
			prio      model.Priority
			timeframe string
			urgency   float64
		)
		switch {
		case a.Severity == model.SeverityCritical:
			prio, timeframe, urgency = model.PriorityCritical, "Immediately", 95
		case a.Severity == model.SeveritySevere:
			prio, timeframe, urgency = model.PriorityHigh, "Within 1 week", 75
		case a.Severity == model.SeverityModerate && a.Index >= moderateRecommendationIndex:
			prio, timeframe, urgency = model.PriorityMedium, "Within 1 month", 55
		default:
			continue
		}
		reason := fmt.Sprintf("%s diagnosed %s (index %.2f)", a.Type, a.Severity, a.Index)
		name := strings.ToLower(string(a.Type))
		for _, ma := range modeActions {
			if !strings.Contains(name, ma.match) {
				continue
			}
			recs = append(recs, model.Recommendation{
				Priority:     prio,
				Category:     ma.category,
				Action:       ma.actions[int(a.Severity)-1],
				Reason:       reason,
				Timeframe:    timeframe,
				UrgencyScore: urgency,
				Source:       model.SourceFailureMode,
			})
			recs = append(recs, immediateActionRecs(a, ma.category, reason)...)
			break
		}
	}
	return recs
}

// immediateActionRecs turns the first-response steps of the guidance catalog
// into recommendations for Severe and Critical modes. They rank just below
// the corrective action of the same mode.
func immediateActionRecs(a model.FailureModeResult, cat model.RecommendationCategory, reason string) []model.Recommendation {
	var (
		prio      model.Priority
		timeframe string
		urgency   float64
	)
	switch a.Severity {
	case model.SeverityCritical:
		prio, timeframe, urgency = model.PriorityCritical, "Immediately", 93
	case model.SeveritySevere:
		prio, timeframe, urgency = model.PriorityHigh, "Within 24 hours", 74
	default:
		return nil
	}
	acts := GuidanceFor(a.Type).ImmediateActions
	recs := make([]model.Recommendation, 0, len(acts))
	for _, act := range acts {
		recs = append(recs, model.Recommendation{
			Priority:     prio,
			Category:     cat,
			Action:       act,
			Reason:       reason,
			Timeframe:    timeframe,
			UrgencyScore: urgency,
			Source:       model.SourceFailureMode,
		})
	}
	return recs
}

func healthRecs(score float64) []model.Recommendation {
	rec := model.Recommendation{
		Category: model.CategoryReliability,
		Reason:   fmt.Sprintf("Overall health score %.1f", score),
		Source:   model.SourceHealth,
	}
	switch {
	case score < 30:
		rec.Priority, rec.Action, rec.Timeframe, rec.UrgencyScore =
			model.PriorityCritical, "Schedule complete equipment overhaul", "Immediately", 98
	case score < 50:
		rec.Priority, rec.Action, rec.Timeframe, rec.UrgencyScore =
			model.PriorityHigh, "Plan major maintenance intervention", "Within 24 hours", 85
	case score < 70:
		rec.Category = model.CategoryMonitoring
		rec.Priority, rec.Action, rec.Timeframe, rec.UrgencyScore =
			model.PriorityMedium, "Increase condition monitoring frequency", "Within 1 week", 65
	default:
		rec.Category = model.CategoryMonitoring
		rec.Priority, rec.Action, rec.Timeframe, rec.UrgencyScore =
			model.PriorityLow, "Continue routine condition monitoring", "Next 3 months", 20
	}
	return []model.Recommendation{rec}
}

func standardsRecs(in RecommendationInput) []model.Recommendation {
	var recs []model.Recommendation
	r := rms(in.Snapshot.VH, in.Snapshot.VV)

	switch ISOZone(r) {
	case "D":
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityCritical,
			Category:     model.CategoryCompliance,
			Action:       "Restrict operation until vibration leaves ISO 10816-3 zone D",
			Reason:       fmt.Sprintf("Radial velocity %.2f mm/s exceeds the zone C/D limit of %.1f mm/s", r, isoZoneCD),
			Timeframe:    "Within 24 hours",
			UrgencyScore: 92,
			Source:       model.SourceStandards,
		})
	case "C":
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityHigh,
			Category:     model.CategoryCompliance,
			Action:       "Plan corrective work for vibration in ISO 10816-3 zone C",
			Reason:       fmt.Sprintf("Radial velocity %.2f mm/s is unsatisfactory for long-term operation", r),
			Timeframe:    "Within 1 week",
			UrgencyScore: 70,
			Source:       model.SourceStandards,
		})
	}

	if trip := ThresholdsFor(model.FailureUnbalance).Critical; r > trip {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityCritical,
			Category:     model.CategoryCompliance,
			Action:       "Verify API 670 machinery protection trip response",
			Reason:       fmt.Sprintf("Radial velocity %.2f mm/s is above the %.1f mm/s trip level", r, trip),
			Timeframe:    "Immediately",
			UrgencyScore: 96,
			Source:       model.SourceStandards,
		})
	}

	if t := in.Snapshot.Temperature; t != nil && *t > apiBearingTempLimitC {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityHigh,
			Category:     model.CategoryCompliance,
			Action:       "Investigate bearing temperature above API 610 limit",
			Reason:       fmt.Sprintf("Bearing housing at %.1f °C, limit %.0f °C", *t, apiBearingTempLimitC),
			Timeframe:    "Within 24 hours",
			UrgencyScore: 88,
			Source:       model.SourceStandards,
		})
	}

	if in.Context.Criticality == model.CriticalityA && !in.Context.Monitoring.ContinuousVibration {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityMedium,
			Category:     model.CategoryMonitoring,
			Action:       "Install continuous vibration monitoring on this class A asset",
			Reason:       "Production-critical equipment is only covered by periodic rounds",
			Timeframe:    "Next 3 months",
			UrgencyScore: 40,
			Source:       model.SourceStandards,
		})
	}

	if countSeverity(in.Analyses, model.SeverityCritical) > 0 {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityMedium,
			Category:     model.CategoryCompliance,
			Action:       "Record the failure event in the ISO 14224 reliability database",
			Reason:       "Critical failure modes must be captured for reliability data collection",
			Timeframe:    "Within 1 week",
			UrgencyScore: 50,
			Source:       model.SourceStandards,
		})
	}
	return recs
}

func analyticsRecs(in RecommendationInput) []model.Recommendation {
	var recs []model.Recommendation
	if rul := in.Reliability.RUL.Hours; rul > 0 && rul < shortRULHours {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityCritical,
			Category:     model.CategoryReliability,
			Action:       "Plan replacement before remaining useful life runs out",
			Reason:       fmt.Sprintf("Estimated remaining useful life %.0f h", rul),
			Timeframe:    "Within 24 hours",
			UrgencyScore: 90,
			Source:       model.SourceAnalytics,
		})
	}
	if p := in.Probability.Probability; p > 0.5 {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityHigh,
			Category:     model.CategoryReliability,
			Action:       "Arrange standby equipment and spares for probable failure",
			Reason:       fmt.Sprintf("Failure probability %.0f%% within %.0f h", p*100, in.Probability.HorizonHours),
			Timeframe:    "Within 1 week",
			UrgencyScore: 80,
			Source:       model.SourceAnalytics,
		})
	}
	if b := in.Reliability.Weibull.Beta; b > 0 && b < 1 {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityMedium,
			Category:     model.CategoryAnalytics,
			Action:       "Review installation and commissioning quality",
			Reason:       fmt.Sprintf("Weibull shape %.2f indicates early-life failures", b),
			Timeframe:    "Within 1 month",
			UrgencyScore: 50,
			Source:       model.SourceAnalytics,
		})
	}

	sig := in.Signals
	if sig == nil {
		return recs
	}
	if drop := sig.PreviousHealthScore - in.HealthScore; sig.PreviousHealthScore > 0 && rapidDrop(drop, sig.ElapsedHours) {
		reason := fmt.Sprintf("Health score dropped from %.1f to %.1f", sig.PreviousHealthScore, in.HealthScore)
		if sig.ElapsedHours > 0 {
			reason += fmt.Sprintf(" in %.0f h (%.1f points per week)", sig.ElapsedHours, drop/sig.ElapsedHours*hoursPerWeek)
		}
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityHigh,
			Category:     model.CategoryAnalytics,
			Action:       "Investigate rapid health deterioration since the last assessment",
			Reason:       reason,
			Timeframe:    "Within 1 week",
			UrgencyScore: 78,
			Source:       model.SourceAnalytics,
		})
	}
	if rise := in.MasterFaultIndex - sig.PreviousMFI; rise >= mfiRisePoints {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityMedium,
			Category:     model.CategoryAnalytics,
			Action:       "Identify the cause of the rising master fault index",
			Reason:       fmt.Sprintf("Master fault index rose from %.2f to %.2f", sig.PreviousMFI, in.MasterFaultIndex),
			Timeframe:    "Within 1 week",
			UrgencyScore: 68,
			Source:       model.SourceAnalytics,
		})
	}
	if sig.PreviousRULHours > 0 && in.Reliability.RUL.Hours < sig.PreviousRULHours/2 {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityHigh,
			Category:     model.CategoryAnalytics,
			Action:       "Confirm accelerated wear with a follow-up measurement",
			Reason:       fmt.Sprintf("Remaining life fell from %.0f h to %.0f h", sig.PreviousRULHours, in.Reliability.RUL.Hours),
			Timeframe:    "Within 1 week",
			UrgencyScore: 72,
			Source:       model.SourceAnalytics,
		})
	}
	if sig.AnomalyScore > 0.7 {
		recs = append(recs, model.Recommendation{
			Priority:     model.PriorityMedium,
			Category:     model.CategoryAnalytics,
			Action:       "Review anomalous operating signature against process changes",
			Reason:       fmt.Sprintf("Anomaly score %.2f", sig.AnomalyScore),
			Timeframe:    "Within 1 month",
			UrgencyScore: 55,
			Source:       model.SourceAnalytics,
		})
	}
	return recs
}

// rapidDrop reports whether a health drop of drop points over elapsed hours
// is rapid. An elapsed time of zero means the interval is unknown.
func rapidDrop(drop, elapsed float64) bool {
	if drop <= healthDropPoints {
		return false
	}
	return elapsed <= 0 || drop/elapsed*hoursPerWeek > healthDropPoints
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "the": true, "of": true, "to": true, "in": true,
	"on": true, "for": true, "with": true, "by": true, "or": true, "at": true, "is": true,
	"this": true, "from": true, "before": true, "until": true,
}

// actionWords lowercases s, strips punctuation and stop words and returns the
// remaining word set.
func actionWords(s string) map[string]bool {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	words := make(map[string]bool)
	for _, w := range strings.Fields(clean) {
		if !stopWords[w] {
			words[w] = true
		}
	}
	return words
}

// Similarity is |A∩B| / max(|A|,|B|) over the action word sets of a and b.
func Similarity(a, b string) float64 {
	wa, wb := actionWords(a), actionWords(b)
	var common int
	for w := range wa {
		if wb[w] {
			common++
		}
	}
	return safeDivide(float64(common), float64(max(len(wa), len(wb))))
}

// Deduplicate drops recommendations whose action is a near-duplicate of a more
// urgent one. The result is sorted by urgency (ties keep input order), and
// running it again returns the same list.
func Deduplicate(recs []model.Recommendation) []model.Recommendation {
	sorted := append([]model.Recommendation(nil), recs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UrgencyScore > sorted[j].UrgencyScore
	})

	kept := make([]model.Recommendation, 0, len(sorted))
	for _, r := range sorted {
		dup := false
		for _, k := range kept {
			if Similarity(r.Action, k.Action) >= duplicateOverlap {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, r)
		}
	}
	return kept
}

type bucket int

const (
	bucketImmediate bucket = iota
	bucketShortTerm
	bucketLongTerm
)

// bucketOf places a recommendation by its timeframe text, falling back to
// urgency when the text is not recognised. Long-term phrases are checked
// before "month" so "Next 3 months" is not read as short-term.
func bucketOf(r model.Recommendation) bucket {
	tf := strings.ToLower(r.Timeframe)
	switch {
	case strings.Contains(tf, "immediately"), strings.Contains(tf, "24 hours"):
		return bucketImmediate
	case strings.Contains(tf, "3 months"), strings.Contains(tf, "6 months"),
		strings.Contains(tf, "quarterly"), strings.Contains(tf, "annual"):
		return bucketLongTerm
	case strings.Contains(tf, "week"), strings.Contains(tf, "month"):
		return bucketShortTerm
	}
	switch {
	case r.UrgencyScore >= 90:
		return bucketImmediate
	case r.UrgencyScore >= 60:
		return bucketShortTerm
	default:
		return bucketLongTerm
	}
}

// Summarize counts recommendations per priority and category and estimates
// their total cost.
func Summarize(recs []model.Recommendation) model.RecommendationSummary {
	s := model.RecommendationSummary{
		Total:      len(recs),
		ByPriority: make(map[model.Priority]int),
		ByCategory: make(map[model.RecommendationCategory]int),
	}
	for _, r := range recs {
		s.ByPriority[r.Priority]++
		s.ByCategory[r.Category]++
		s.EstimatedCost += unitCost[r.Category]
	}
	return s
}
