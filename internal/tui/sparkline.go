package tui

import (
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks is the 8-level block character set for sparklines.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline scales values against their own maximum. See
// RenderSparklineRange for the layout rules.
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	hi := 0.0
	if len(values) > 0 {
		hi = slices.Max(values)
	}
	return RenderSparklineRange(values, width, 0, hi, color)
}

// RenderSparklineRange converts values into a block sparkline of exactly
// width characters, mapping lo to the lowest block and hi to the highest.
// Fixed ranges keep bounded series such as health (0–100) comparable
// between refreshes.
//
// Rules:
//   - Empty values → width spaces
//   - hi <= lo → all '▁'
//   - Values longer than width → last width values
//   - Fewer values than width → left-padded with spaces
//   - NaN or infinite values render as '▁'
func RenderSparklineRange(values []float64, width int, lo, hi float64, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))

	span := hi - lo
	for _, v := range values {
		idx := 0
		if span > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			idx = int((v - lo) / span * 7)
		}
		idx = max(0, min(idx, 7))
		sb.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
