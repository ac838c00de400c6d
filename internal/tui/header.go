package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top header bar with the source, fleet condition
// and timing info.
//
// Layout:
//
//	left:   source name (or "Loading <source>..." before the first run)
//	center: "● FLEET GRADE C  2 critical" in the worst grade's color
//	        (or "● SOURCE ERROR  <error>" when the last refresh failed)
//	right:  "Last: HH:MM:SS  Refresh: 30s" (or "Press r to retry")
func renderHeader(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}

	name := ""
	if app.source != nil {
		name = sanitize(app.source.Name())
	}

	var left, center, right string
	if app.results == nil {
		left = "Loading " + name + "..."
	} else {
		left = name
	}

	switch {
	case app.connState == stateDisconnected && app.lastError != nil:
		errMsg := app.lastError.Error()
		if len(errMsg) > 40 {
			errMsg = errMsg[:40] + "..."
		}
		center = StyleError.Render("● SOURCE ERROR  " + errMsg)
		right = StyleError.Render("Press r to retry")
	case app.results != nil:
		grade, critical, rejected := fleetStatus(app)
		status := "● FLEET GRADE " + grade
		if critical > 0 {
			status += fmt.Sprintf("  %d critical", critical)
		}
		if rejected > 0 {
			status += fmt.Sprintf("  %d rejected", rejected)
		}
		center = GradeStyle(grade).Render(status)

		lastStr := "--:--:--"
		if !app.lastUpdated.IsZero() {
			lastStr = app.lastUpdated.Format("15:04:05")
		}
		right = StyleDim.Render(fmt.Sprintf("Last: %s  Refresh: %s", lastStr, formatDuration(app.interval)))
	}

	// StyleHeader has Padding(0, 1) so inner content width = total width - 2.
	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2

	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", spacing-leftSpacing) +
		right

	return StyleHeader.Width(width).MaxWidth(width).Render(row)
}

// fleetStatus returns the worst grade across valid results ("-" when none),
// the number of machines with at least one critical failure mode and the
// number of rejected readings.
func fleetStatus(app *App) (grade string, critical, rejected int) {
	grade = "-"
	for _, r := range app.results {
		if !r.Valid() {
			rejected++
			continue
		}
		if len(r.Assessment.CriticalFailures) > 0 {
			critical++
		}
		if g := r.Assessment.HealthGrade; grade == "-" || g > grade {
			grade = g
		}
	}
	return grade, critical, rejected
}

// formatDuration formats a refresh interval as a compact string, e.g. "10s" or "2m".
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
