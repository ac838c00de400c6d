package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatHours formats a duration in hours, switching to days from 48 h and to
// years from one operating year (8760 h). Negative or non-finite values
// return "---".
// Example: 12.5 → "12.5 h", 72 → "3.0 d", 17520 → "2.0 y".
func FormatHours(h float64) string {
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return "---"
	}
	switch {
	case h >= 8760:
		return fmt.Sprintf("%.1f y", h/8760)
	case h >= 48:
		return fmt.Sprintf("%.1f d", h/24)
	default:
		return fmt.Sprintf("%.1f h", h)
	}
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatProbability formats a 0–1 probability as a percentage.
// Example: 0.263 → "26.3%".
func FormatProbability(p float64) string {
	return FormatPercent(p * 100)
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatDecimal formats a float with comma-separated thousands and one decimal place.
// Example: 19013.3 → "19,013.3".
func FormatDecimal(f float64) string {
	formatted := fmt.Sprintf("%.1f", f)
	sign := ""
	if len(formatted) > 0 && formatted[0] == '-' {
		sign = "-"
		formatted = formatted[1:]
	}
	parts := strings.SplitN(formatted, ".", 2)
	intPart := insertCommas(parts[0])
	if len(parts) == 2 {
		return sign + intPart + "." + parts[1]
	}
	return sign + intPart
}

// FormatCurrency formats a cost estimate rounded to whole units.
// Example: 16000 → "$16,000".
func FormatCurrency(amount float64) string {
	return "$" + FormatNumber(int64(math.Round(amount)))
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
