package tui

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// testColor is a neutral color used for sparkline tests.
var testColor = lipgloss.Color("#ffffff")

func TestRenderSparkline_Empty(t *testing.T) {
	result := stripANSI(RenderSparkline(nil, 10, testColor))
	if result != strings.Repeat(" ", 10) {
		t.Errorf("expected 10 spaces, got %q", result)
	}
}

func TestRenderSparkline_ZeroWidth(t *testing.T) {
	if got := RenderSparkline([]float64{1, 2}, 0, testColor); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestRenderSparkline_AllZeros(t *testing.T) {
	result := []rune(stripANSI(RenderSparkline([]float64{0, 0, 0, 0, 0}, 5, testColor)))
	if len(result) != 5 {
		t.Fatalf("expected 5 runes, got %d: %q", len(result), string(result))
	}
	for i, ch := range result {
		if ch != '▁' {
			t.Errorf("index %d: expected '▁', got %q", i, ch)
		}
	}
}

func TestRenderSparkline_Ascending(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	result := []rune(stripANSI(RenderSparkline(values, 8, testColor)))
	if len(result) != 8 {
		t.Fatalf("expected 8 runes, got %d: %q", len(result), string(result))
	}
	for i := 1; i < len(result); i++ {
		if result[i] < result[i-1] {
			t.Errorf("index %d: expected non-decreasing, got %q < %q", i, result[i], result[i-1])
		}
	}
	if result[7] != '█' {
		t.Errorf("last char: expected '█', got %q", result[7])
	}
}

func TestRenderSparkline_TruncatesLeft(t *testing.T) {
	// 20 values; width=10 → only the last 10 values are used.
	values := make([]float64, 20)
	for i := range values {
		values[i] = float64(i)
	}
	result := []rune(stripANSI(RenderSparkline(values, 10, testColor)))
	if len(result) != 10 {
		t.Fatalf("expected 10 runes, got %d", len(result))
	}
	if result[9] != '█' {
		t.Errorf("expected last char '█', got %q", result[9])
	}
}

func TestRenderSparkline_LeftPadded(t *testing.T) {
	result := stripANSI(RenderSparkline([]float64{5, 10}, 6, testColor))
	if !strings.HasPrefix(result, "    ") {
		t.Errorf("expected 4 leading spaces, got %q", result)
	}
	if len([]rune(result)) != 6 {
		t.Errorf("expected 6 runes, got %q", result)
	}
}

func TestRenderSparklineRange_FixedScale(t *testing.T) {
	// Health 50 on a 0..100 scale sits mid-range even when it is the series max.
	result := []rune(stripANSI(RenderSparklineRange([]float64{50, 50}, 2, 0, 100, testColor)))
	for i, ch := range result {
		if ch != '▄' {
			t.Errorf("index %d: expected '▄', got %q", i, ch)
		}
	}
}

func TestRenderSparklineRange_ClampsOutOfRange(t *testing.T) {
	result := []rune(stripANSI(RenderSparklineRange([]float64{-10, 200}, 2, 0, 100, testColor)))
	if result[0] != '▁' || result[1] != '█' {
		t.Errorf("expected clamped '▁█', got %q", string(result))
	}
}

func TestRenderSparklineRange_NonFinite(t *testing.T) {
	values := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}
	result := []rune(stripANSI(RenderSparklineRange(values, 3, 0, 1, testColor)))
	for i, ch := range result {
		if ch != '▁' {
			t.Errorf("index %d: expected '▁', got %q", i, ch)
		}
	}
}

func TestRenderSparklineRange_EmptyRange(t *testing.T) {
	result := []rune(stripANSI(RenderSparklineRange([]float64{3, 7}, 2, 5, 5, testColor)))
	if string(result) != "▁▁" {
		t.Errorf("expected '▁▁', got %q", string(result))
	}
}
