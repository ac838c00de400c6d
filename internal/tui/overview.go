package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/eams-go/internal/format"
)

// renderOverview renders the 7-stat overview bar for the selected equipment.
// Wide terminals (>= 80 cols): all 7 cards in a single horizontal row.
// Narrow terminals (< 80 cols): cards stacked in rows of 2.
// Returns empty string when nothing is selected or the reading was rejected.
func renderOverview(app *App) string {
	res, ok := app.selected()
	if !ok {
		return ""
	}
	if !res.Valid() {
		reasons := strings.Join(res.Validation.Reasons, "; ")
		return StyleError.Render(sanitize(res.Reading.EquipmentID)+" rejected: ") + StyleDim.Render(reasons)
	}
	a := res.Assessment

	width := app.width
	if width <= 0 {
		width = 80
	}
	narrowMode := width < 80

	var cardWidth int
	if narrowMode {
		cardWidth = max((width-4)/2, 10)
	} else {
		cardWidth = max((width-14)/7, 8)
	}
	barWidth := max(cardWidth-4, 4)

	// Card 1: grade on a colored background.
	card1 := StyleOverviewCard.
		Background(gradeColor(a.HealthGrade)).
		Foreground(colorDark).
		Bold(true).
		Width(cardWidth).
		Render(a.HealthGrade + "\n" + truncateName(sanitize(res.Reading.EquipmentID), cardWidth-2))

	healthSev := healthSeverity(a.OverallHealthScore)
	card2 := StyleOverviewCard.
		Foreground(severityFg(healthSev)).
		Width(cardWidth).
		Render(withMark(fmt.Sprintf("%.1f", a.OverallHealthScore), healthSev) + "\n" +
			renderMiniBar(a.OverallHealthScore, barWidth) + "\nHealth")

	card3 := StyleOverviewCard.
		Foreground(colorPurple).
		Width(cardWidth).
		Render(fmt.Sprintf("%.2f", a.MasterFaultIndex) + "\nMFI")

	card4 := StyleOverviewCard.
		Foreground(colorBlue).
		Width(cardWidth).
		Render(format.FormatHours(a.Reliability.MTBF) + "\nMTBF")

	availSev := availabilitySeverity(a.Reliability.Availability)
	card5 := StyleOverviewCard.
		Foreground(severityFg(availSev)).
		Width(cardWidth).
		Render(withMark(format.FormatPercent(a.Reliability.Availability), availSev) + "\n" +
			renderMiniBar(a.Reliability.Availability, barWidth) + "\nAvailability")

	rulSev := rulSeverity(a.Reliability.RUL.Hours)
	card6 := StyleOverviewCard.
		Foreground(severityFg(rulSev)).
		Width(cardWidth).
		Render(withMark(format.FormatHours(a.Reliability.RUL.Hours), rulSev) + "\n" +
			fmt.Sprintf("%.0f%% conf", a.Reliability.RUL.Confidence) + "\nRUL")

	p := a.FailureProbability.Probability
	probSev := probabilitySeverity(p)
	card7 := StyleOverviewCard.
		Foreground(severityFg(probSev)).
		Width(cardWidth).
		Render(withMark(format.FormatProbability(p), probSev) + "\n" +
			renderMiniBar(p*100, barWidth) + "\nP(failure)")

	if narrowMode {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, card1, card2)
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, card3, card4)
		row3 := lipgloss.JoinHorizontal(lipgloss.Top, card5, card6)
		return lipgloss.JoinVertical(lipgloss.Left, row1, row2, row3, card7)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, card1, card2, card3, card4, card5, card6, card7)
}

// withMark appends "!" to critical values so they stand out without color.
func withMark(value string, sev severity) string {
	if sev == severityCritical {
		return value + "!"
	}
	return value
}

// renderMiniBar renders a mini progress bar using Unicode block characters.
// Fills proportionally using "█" for filled and "░" for empty cells.
func renderMiniBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(percent, 100))
	filled := min(int(percent/100.0*float64(width)), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
