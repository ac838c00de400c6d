package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/eams-go/internal/model"
)

// severity represents the alert level for a displayed value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// healthSeverity returns Warning below grade C (70) and Critical at grade F (< 60).
func healthSeverity(score float64) severity {
	switch {
	case score < 60:
		return severityCritical
	case score < 70:
		return severityWarning
	default:
		return severityNormal
	}
}

// rulSeverity returns Critical inside one week and Warning inside one month.
func rulSeverity(hours float64) severity {
	switch {
	case hours < 168:
		return severityCritical
	case hours < 720:
		return severityWarning
	default:
		return severityNormal
	}
}

// probabilitySeverity returns Warning above 20% and Critical above 50%.
func probabilitySeverity(p float64) severity {
	switch {
	case p > 0.5:
		return severityCritical
	case p > 0.2:
		return severityWarning
	default:
		return severityNormal
	}
}

// availabilitySeverity returns Warning below 99% and Critical below 95%.
func availabilitySeverity(pct float64) severity {
	switch {
	case pct < 95:
		return severityCritical
	case pct < 99:
		return severityWarning
	default:
		return severityNormal
	}
}

// modeSeverity maps a failure-mode severity onto the dashboard alert levels.
func modeSeverity(s model.Severity) severity {
	switch s {
	case model.SeverityCritical, model.SeveritySevere:
		return severityCritical
	case model.SeverityModerate:
		return severityWarning
	default:
		return severityNormal
	}
}

// severityFg returns the foreground color for a severity level.
func severityFg(s severity) lipgloss.Color {
	switch s {
	case severityWarning:
		return colorYellow
	case severityCritical:
		return colorRed
	default:
		return colorWhite
	}
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return StyleYellow
	case severityCritical:
		return StyleRed
	default:
		return lipgloss.NewStyle()
	}
}
