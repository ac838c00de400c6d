package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/eams-go/internal/format"
	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// priorityBadge returns a colored, fixed-width badge for the given priority.
func priorityBadge(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return StyleRed.Bold(true).Render("[CRITICAL]")
	case model.PriorityHigh:
		return StyleOrange.Bold(true).Render("[HIGH]    ")
	case model.PriorityMedium:
		return StyleYellow.Bold(true).Render("[MEDIUM]  ")
	default:
		return StyleGreen.Bold(true).Render("[LOW]     ")
	}
}

// wrapText wraps text at maxWidth rune-columns, breaking at word boundaries.
// Returns the original string unchanged when it fits within maxWidth.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 || utf8.RuneCountInString(text) <= maxWidth {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var lines []string
	var current strings.Builder
	var currentLen int
	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case currentLen == 0:
			current.WriteString(word)
			currentLen = wordLen
		case currentLen+1+wordLen <= maxWidth:
			current.WriteByte(' ')
			current.WriteString(word)
			currentLen += 1 + wordLen
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
			currentLen = wordLen
		}
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return strings.Join(lines, "\n")
}

// buildAnalyticsLines returns every content line of the recommendations
// screen. Shared by rendering and by the scroll clamp in Update.
func buildAnalyticsLines(res runner.Result, ok bool, width int) []string {
	if !ok {
		return []string{"", "  " + StyleDim.Render("No equipment selected"), ""}
	}
	if !res.Valid() {
		lines := []string{"", "  " + StyleError.Render("Reading rejected")}
		for _, reason := range res.Validation.Reasons {
			lines = append(lines, "    "+wrapText(sanitize(reason), width-6))
		}
		return lines
	}

	set := res.Assessment.Recommendations
	if set.Summary.Total == 0 && len(set.All()) == 0 {
		return []string{"", "  " + StyleGreen.Bold(true).Render("No actions required, equipment is in good condition"), ""}
	}

	var lines []string
	buckets := []struct {
		label string
		recs  []model.Recommendation
	}{
		{"Immediate", set.Immediate},
		{"Short term", set.ShortTerm},
		{"Long term", set.LongTerm},
	}
	for _, b := range buckets {
		if len(b.recs) == 0 {
			continue
		}
		lines = append(lines, "", "  "+StyleDim.Bold(true).Underline(true).Render(b.label))
		for _, r := range b.recs {
			lines = append(lines, fmt.Sprintf("  %s %s", priorityBadge(r.Priority), r.Action))
			meta := string(r.Category)
			if r.Timeframe != "" {
				meta += " · " + r.Timeframe
			}
			lines = append(lines, "    "+StyleDim.Render(meta))
			if r.Reason != "" {
				for _, l := range strings.Split(wrapText(r.Reason, width-6), "\n") {
					lines = append(lines, "    "+l)
				}
			}
		}
	}

	s := set.Summary
	lines = append(lines, "", fmt.Sprintf("  %d recommendations  %d critical  %d high  estimated cost %s",
		s.Total, s.ByPriority[model.PriorityCritical], s.ByPriority[model.PriorityHigh],
		format.FormatCurrency(s.EstimatedCost)))
	return lines
}

// renderAnalyticsTitle renders the title bar of the recommendations screen.
// Both renderAnalytics and analyticsMaxOffset measure its rendered height,
// since it wraps on narrow terminals.
func renderAnalyticsTitle(app *App, width int) string {
	titleText := "Recommendations"
	if res, ok := app.selected(); ok {
		titleText += ": " + sanitize(res.Reading.EquipmentID)
		if res.Reading.Name != "" {
			titleText += " " + sanitize(res.Reading.Name)
		}
	}
	hintText := StyleDim.Render("[a/esc: back]")
	innerWidth := width - 2 // StyleHeader has Padding(0,1)
	gap := max(innerWidth-lipgloss.Width(titleText)-lipgloss.Width(hintText), 1)
	titleRow := titleText + strings.Repeat(" ", gap) + hintText
	return StyleHeader.Width(width).MaxWidth(width).Render(titleRow)
}

// analyticsLayout measures the scrollable area and returns the content lines,
// the visible content height and whether the content overflows.
func analyticsLayout(app *App) (lines []string, contentH int, overflows bool) {
	width := app.width
	if width <= 0 {
		width = 80
	}
	height := app.height
	if height <= 0 {
		height = 24
	}
	headerH := renderedHeight(renderHeader(app))
	titleH := renderedHeight(renderAnalyticsTitle(app, width))
	footerH := renderedHeight(renderFooter(app))
	availH := max(height-headerH-titleH-footerH, 1)

	res, ok := app.selected()
	lines = buildAnalyticsLines(res, ok, width)

	// When content overflows, the last line is reserved for a scroll hint.
	overflows = len(lines) > availH
	contentH = availH
	if overflows && contentH > 1 {
		contentH--
	}
	return lines, contentH, overflows
}

// analyticsMaxOffset returns the largest valid recScroll. Update clamps the
// stored offset with it so scrolling back up responds immediately.
func analyticsMaxOffset(app *App) int {
	lines, contentH, _ := analyticsLayout(app)
	return max(len(lines)-contentH, 0)
}

// renderAnalytics renders the title bar followed by the scrollable
// recommendations of the selected equipment. View renders the header above
// and the footer below; the available height accounts for both.
func renderAnalytics(app *App) string {
	width := app.width
	if width <= 0 {
		width = 80
	}
	titleBar := renderAnalyticsTitle(app, width)

	lines, contentH, overflows := analyticsLayout(app)
	maxOffset := max(len(lines)-contentH, 0)
	offset := min(app.recScroll, maxOffset)

	end := min(offset+contentH, len(lines))
	var visible []string
	if offset < len(lines) {
		visible = append(visible, lines[offset:end]...)
	}
	for len(visible) < contentH {
		visible = append(visible, "")
	}

	if overflows {
		var hint string
		switch {
		case offset == 0:
			hint = "  ↓ scroll for more"
		case offset >= maxOffset:
			hint = "  ↑ scroll up"
		default:
			hint = "  ↑↓ scroll"
		}
		visible = append(visible, StyleDim.Render(hint))
	}

	return titleBar + "\n" + strings.Join(visible, "\n")
}
