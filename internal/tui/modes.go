package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/eams-go/internal/engine"
	"github.com/dm/eams-go/internal/format"
	"github.com/dm/eams-go/internal/model"
)

// maxModeRows caps the failure-mode table so the fleet table stays on screen.
const maxModeRows = 6

// bandColor maps an FMEA risk band to its indicator color.
func bandColor(b model.RiskBand) lipgloss.Color {
	switch b {
	case model.RiskCritical:
		return colorRed
	case model.RiskHigh:
		return colorOrange
	case model.RiskMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

// renderModes renders the highest-RPN failure modes of the selected equipment.
func renderModes(app *App) string {
	res, ok := app.selected()
	if !ok || !res.Valid() {
		return ""
	}
	rows := engine.BuildReport(res.Assessment).Rows
	if len(rows) == 0 {
		return ""
	}
	hidden := 0
	if len(rows) > maxModeRows {
		hidden = len(rows) - maxModeRows
		rows = rows[:maxModeRows]
	}

	t := ltable.New().
		Headers("MODE", "SEVERITY", "INDEX", "S·O·D", "RPN", "BAND", "ACT WITHIN").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle().PaddingRight(2)
			if row < 0 || row >= len(rows) {
				return base
			}
			r := rows[row]
			switch col {
			case 1:
				return base.Foreground(severityFg(modeSeverity(r.Severity)))
			case 4, 5:
				return base.Bold(true).Foreground(bandColor(r.Band))
			}
			return base.Foreground(colorWhite)
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	for _, r := range rows {
		t = t.Row(
			string(r.Type),
			r.Severity.String(),
			fmt.Sprintf("%.2f", r.Index),
			fmt.Sprintf("%d·%d·%d", r.S, r.O, r.D),
			format.FormatDecimal(r.RPN),
			string(r.Band),
			r.Timeframe,
		)
	}

	title := "Failure modes"
	if hidden > 0 {
		title += fmt.Sprintf("  (+%d more, press a for details)", hidden)
	}
	return lipgloss.JoinVertical(lipgloss.Left, StyleDim.Render(title), t.String())
}
