package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dm/eams-go/internal/format"
	"github.com/dm/eams-go/internal/runner"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Table writes a one-row-per-equipment summary table.
func Table(w io.Writer, results []runner.Result) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("EQUIPMENT", "GRADE", "HEALTH", "MFI", "MTBF", "AVAIL", "RUL", "P(FAIL)", "CRITICAL", "ACTIONS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range results {
		if !r.Valid() {
			t.Row(title(r), "-", "rejected", "", "", "", "", "", "", "")
			continue
		}
		a := r.Assessment
		t.Row(
			title(r),
			a.HealthGrade,
			fmt.Sprintf("%.1f", a.OverallHealthScore),
			fmt.Sprintf("%.2f", a.MasterFaultIndex),
			format.FormatHours(a.Reliability.MTBF),
			format.FormatPercent(a.Reliability.Availability),
			format.FormatHours(a.Reliability.RUL.Hours),
			format.FormatProbability(a.FailureProbability.Probability),
			fmt.Sprintf("%d", len(a.CriticalFailures)),
			fmt.Sprintf("%d", a.Recommendations.Summary.Total),
		)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
