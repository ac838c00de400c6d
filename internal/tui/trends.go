package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/eams-go/internal/format"
)

// trendCard is one sparkline panel. A zero hi scales the series to its own
// maximum.
type trendCard struct {
	title  string
	value  string
	field  string
	lo, hi float64
	color  lipgloss.Color
	style  lipgloss.Style
}

// renderTrendCard renders a single card with title, value, and sparkline.
//
// Layout (3 rows inside a rounded border):
//
//	╭──────────────────╮
//	│ Title            │   ← dim, or yellow/red when the value crosses a threshold
//	│ 82.4             │   ← bold, card color
//	│ ▁▂▃▅▇█▇▅▃▂       │   ← colored sparkline
//	╰──────────────────╯
func renderTrendCard(c trendCard, values []float64, cardWidth int) string {
	const minCardWidth = 8
	if cardWidth < minCardWidth {
		cardWidth = minCardWidth
	}
	// Inner width = card width minus border (2) and padding (2), and lipgloss
	// Width() includes padding.
	innerWidth := max(cardWidth-6, 1)

	var spark string
	if c.hi > c.lo {
		spark = RenderSparklineRange(values, innerWidth, c.lo, c.hi, c.color)
	} else {
		spark = RenderSparkline(values, innerWidth, c.color)
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1).
		Width(cardWidth - 4)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		c.style.Render(c.title),
		lipgloss.NewStyle().Bold(true).Foreground(c.color).Render(c.value),
		spark,
	))
}

// titleStyle keeps the dim title for normal values and applies alert colors otherwise.
func titleStyle(s severity) lipgloss.Style {
	if s == severityNormal {
		return StyleDim
	}
	return severityToStyle(s).Bold(true)
}

// renderTrendsRow renders the Health, MFI, RUL and failure probability trend
// cards of the selected equipment under a "Trends" label.
// Wide terminals (>= 80 cols): 1x4 horizontal row.
// Narrow terminals (< 80 cols): 2x2 grid.
func renderTrendsRow(app *App) string {
	res, ok := app.selected()
	if !ok || !res.Valid() {
		return ""
	}
	a := res.Assessment
	hist := app.selectedHistory()

	cards := []trendCard{
		{"Health", fmt.Sprintf("%.1f", a.OverallHealthScore), "healthScore", 0, 100, colorGreen,
			titleStyle(healthSeverity(a.OverallHealthScore))},
		{"Fault Index", fmt.Sprintf("%.2f", a.MasterFaultIndex), "mfi", 0, 10, colorPurple, StyleDim},
		{"Remaining Life", format.FormatHours(a.Reliability.RUL.Hours), "rul", 0, 0, colorCyan,
			titleStyle(rulSeverity(a.Reliability.RUL.Hours))},
		{"Failure Probability", format.FormatProbability(a.FailureProbability.Probability), "failureProbability", 0, 1, colorOrange,
			titleStyle(probabilitySeverity(a.FailureProbability.Probability))},
	}
	render := func(c trendCard, w int) string {
		return renderTrendCard(c, hist.Values(c.field), w)
	}

	if app.width > 0 && app.width < 80 {
		// Each card renders at (cardWidth-2) chars: 2*(cardWidth-2) = width.
		cardWidth := (app.width + 4) / 2
		if cardWidth < 8 {
			return ""
		}
		label := StyleDim.MaxWidth(app.width).Render("Trends")
		top := lipgloss.JoinHorizontal(lipgloss.Top, render(cards[0], cardWidth), render(cards[1], cardWidth))
		bottom := lipgloss.JoinHorizontal(lipgloss.Top, render(cards[2], cardWidth), render(cards[3], cardWidth))
		return lipgloss.JoinVertical(lipgloss.Left, label, top, bottom)
	}

	// 4*(cardWidth-2) = width.
	cardWidth := max((app.width+8)/4, 20)
	row := make([]string, len(cards))
	for i, c := range cards {
		row[i] = render(c, cardWidth)
	}
	return lipgloss.JoinVertical(lipgloss.Left, StyleDim.Render("Trends"), lipgloss.JoinHorizontal(lipgloss.Top, row...))
}
