package tui

import (
	"context"
	"strings"
	"time"

	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// stripANSI removes ANSI escape sequences for plain-text content assertions.
// Handles all CSI sequences (not just SGR m-terminated ones).
func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			// CSI final bytes are in range 0x40–0x7E
			if r >= 0x40 && r <= 0x7E {
				inEscape = false
			}
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

var fixtureTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// makeResult builds a valid result with the headline numbers set and one
// failure mode contribution per critical mode.
func makeResult(id string, health float64, grade string, critical ...model.FailureType) runner.Result {
	a := &model.MasterHealthAssessment{
		OverallHealthScore: health,
		HealthGrade:        grade,
		MasterFaultIndex:   (100 - health) / 10,
		CriticalFailures:   critical,
		Reliability: model.ReliabilityMetrics{
			MTBF:         8760,
			MTTR:         8,
			Availability: 99.9,
			RUL:          model.RULEstimate{Hours: health * 100, Confidence: 80},
		},
		FailureProbability: model.FailureProbability{Probability: (100 - health) / 100},
		Recommendations: model.RecommendationSet{
			Summary: model.RecommendationSummary{ByPriority: map[model.Priority]int{}},
		},
	}
	for _, ft := range critical {
		a.FailureContributions = append(a.FailureContributions, model.FailureContribution{
			Type:     ft,
			Severity: model.SeverityCritical,
			Index:    9,
			Risk: model.RiskAssessment{
				Type: ft, Severity: 9, Occurrence: 8, Detection: 3, RPN: 216,
				Band: model.RiskCritical, Timeframe: "24 hours",
			},
		})
	}
	return runner.Result{
		Reading:    model.EquipmentReading{EquipmentID: id, Name: id + " pump"},
		AssessedAt: fixtureTime,
		Assessment: a,
		Validation: model.Validation{Valid: true},
	}
}

// makeRejected builds a result for a reading that failed validation.
func makeRejected(id string, reasons ...string) runner.Result {
	return runner.Result{
		Reading:    model.EquipmentReading{EquipmentID: id},
		AssessedAt: fixtureTime,
		Validation: model.Validation{Valid: false, Reasons: reasons},
	}
}

// stubSource is a source.Source returning fixed readings or an error.
type stubSource struct {
	readings []model.EquipmentReading
	err      error
}

func (s *stubSource) Readings(ctx context.Context) ([]model.EquipmentReading, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.readings, nil
}

func (s *stubSource) Name() string { return "plant.yaml" }

// newTestApp returns an App with a stub source, no runner and a fixed size.
func newTestApp() *App {
	app := NewApp(&stubSource{}, nil, 30*time.Second)
	app.width = 120
	app.height = 40
	return app
}

// loaded returns a test app that has received results.
func loaded(results ...runner.Result) *App {
	app := newTestApp()
	app.Update(ResultsMsg{Results: results, FetchedAt: fixtureTime})
	return app
}
