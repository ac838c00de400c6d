package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dm/eams-go/internal/engine"
	"github.com/dm/eams-go/internal/format"
	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// Markdown writes one section per result: the reliability summary, the PFMEA
// worksheet and the recommendation buckets.
func Markdown(w io.Writer, results []runner.Result) error {
	var b strings.Builder
	b.WriteString("# Equipment condition assessment\n")

	for _, r := range results {
		fmt.Fprintf(&b, "\n## %s\n\n", title(r))
		if !r.Valid() {
			b.WriteString("Reading rejected:\n\n")
			for _, reason := range r.Validation.Reasons {
				fmt.Fprintf(&b, "- %s\n", reason)
			}
			continue
		}
		writeSummary(&b, r)
		writeWorksheet(&b, engine.BuildReport(r.Assessment))
		writeRecommendations(&b, r.Assessment.Recommendations)
		for _, warn := range r.Validation.Warnings {
			fmt.Fprintf(&b, "\n> Note: %s\n", warn)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

func writeSummary(b *strings.Builder, r runner.Result) {
	a := r.Assessment
	b.WriteString("| Health | Grade | MFI | MTBF | MTTR | Availability | RUL | P(failure) | Anomaly |\n")
	b.WriteString("|---:|:---:|---:|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(b, "| %.1f | %s | %.2f | %s | %s | %s | %s | %s | %.2f |\n",
		a.OverallHealthScore, a.HealthGrade, a.MasterFaultIndex,
		format.FormatHours(a.Reliability.MTBF), format.FormatHours(a.Reliability.MTTR),
		format.FormatPercent(a.Reliability.Availability), format.FormatHours(a.Reliability.RUL.Hours),
		format.FormatProbability(a.FailureProbability.Probability), r.Anomaly.Score)

	fmt.Fprintf(b, "\nStrategy: %s, inspect every %s (next in %s). Weibull β %.2f, η %s.\n",
		a.Reliability.Optimization.Strategy,
		format.FormatHours(a.Reliability.Optimization.OptimalIntervalHours),
		format.FormatHours(a.Reliability.Optimization.NextInspectionHours),
		a.Reliability.Weibull.Beta, format.FormatHours(a.Reliability.Weibull.Eta))

	if bm := a.Reliability.Benchmark; bm != nil {
		fmt.Fprintf(b, "OREDA reference (%s, %s): MTBF %s, MTTR %s, availability %s.\n",
			bm.Category, bm.Environment, format.FormatHours(bm.MTBF),
			format.FormatHours(bm.MTTR), format.FormatPercent(bm.Availability))
	}
}

func writeWorksheet(b *strings.Builder, rep model.Report) {
	b.WriteString("\n### Failure modes\n\n")
	b.WriteString("| Mode | Severity | Index | Contribution | S | O | D | RPN | Band | Timeframe |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|---|---|\n")
	for _, row := range rep.Rows {
		fmt.Fprintf(b, "| %s | %s | %.2f | %.2f | %d | %d | %d | %.0f | %s | %s |\n",
			row.Type, row.Severity, row.Index, row.Contribution,
			row.S, row.O, row.D, row.RPN, row.Band, row.Timeframe)
	}
}

func writeRecommendations(b *strings.Builder, set model.RecommendationSet) {
	b.WriteString("\n### Recommendations\n")
	buckets := []struct {
		name string
		recs []model.Recommendation
	}{
		{"Immediate", set.Immediate},
		{"Short term", set.ShortTerm},
		{"Long term", set.LongTerm},
	}
	for _, bk := range buckets {
		if len(bk.recs) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n**%s**\n\n", bk.name)
		for _, rec := range bk.recs {
			fmt.Fprintf(b, "- [%s] %s: %s (%s, %s)\n",
				rec.Priority, rec.Category, rec.Action, rec.Reason, rec.Timeframe)
		}
	}
	fmt.Fprintf(b, "\n%d recommendations, estimated cost %s.\n",
		set.Summary.Total, format.FormatCurrency(set.Summary.EstimatedCost))
}
