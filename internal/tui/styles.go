package tui

import "github.com/charmbracelet/lipgloss"

// Color constants for the dashboard palette.
var (
	colorGreen      = lipgloss.Color("#10b981")
	colorYellow     = lipgloss.Color("#f59e0b")
	colorOrange     = lipgloss.Color("#f97316")
	colorRed        = lipgloss.Color("#ef4444")
	colorGray       = lipgloss.Color("#6b7280")
	colorBlue       = lipgloss.Color("#3b82f6")
	colorCyan       = lipgloss.Color("#06b6d4")
	colorPurple     = lipgloss.Color("#8b5cf6")
	colorWhite      = lipgloss.Color("#f8fafc")
	colorDark       = lipgloss.Color("#1e293b")
	colorAlt        = lipgloss.Color("#0f172a")
	colorSelectedBg = lipgloss.Color("#334155")
)

// StyleHeader is the full-width dark header bar.
var StyleHeader = lipgloss.NewStyle().
	Background(colorDark).
	Foreground(colorWhite).
	Padding(0, 1)

// StyleOverviewCard is a stat card in the overview bar.
var StyleOverviewCard = lipgloss.NewStyle().
	Background(colorAlt).
	Foreground(colorWhite).
	Padding(0, 1).
	Margin(0).
	Align(lipgloss.Center)

// Utility styles.
var (
	StyleError = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleDim   = lipgloss.NewStyle().Foreground(colorGray)
)

// Named color styles for cell coloring.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(colorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(colorYellow)
	StyleOrange = lipgloss.NewStyle().Foreground(colorOrange)
	StyleBlue   = lipgloss.NewStyle().Foreground(colorBlue)
	StyleRed    = lipgloss.NewStyle().Foreground(colorRed)
)

// gradeColor maps a health grade to its indicator color.
func gradeColor(grade string) lipgloss.Color {
	switch grade {
	case "A":
		return colorGreen
	case "B":
		return colorCyan
	case "C":
		return colorYellow
	case "D":
		return colorOrange
	case "F":
		return colorRed
	default:
		return colorGray
	}
}

// GradeStyle returns the bold foreground style for a health grade.
func GradeStyle(grade string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(gradeColor(grade))
}
