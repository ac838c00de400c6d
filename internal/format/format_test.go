package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "0.0 h"},
		{"floor", 24, "24.0 h"},
		{"just_under_two_days", 47.9, "47.9 h"},
		{"two_days", 48, "2.0 d"},
		{"week", 168, "7.0 d"},
		{"one_year", 8760, "1.0 y"},
		{"two_years", 17520, "2.0 y"},
		{"negative", -1, "---"},
		{"nan", math.NaN(), "---"},
		{"inf", math.Inf(1), "---"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatHours(tc.input))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{"zero", 0, "0"},
		{"small", 42, "42"},
		{"three_digits", 999, "999"},
		{"four_digits", 1000, "1,000"},
		{"six_digits", 123456, "123,456"},
		{"seven_digits", 1234567, "1,234,567"},
		{"nine_digits", 12345678, "12,345,678"},
		{"negative", -12345, "-12,345"},
		{"min_int64", math.MinInt64, "-9,223,372,036,854,775,808"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatNumber(tc.input))
		})
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "0.0"},
		{"fractional", 1204.34, "1,204.3"},
		{"eta", 19013.33, "19,013.3"},
		{"large", 1000000, "1,000,000.0"},
		{"negative", -2500.25, "-2,500.2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDecimal(tc.input))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"zero", 0, "0.0%"},
		{"small", 1.5, "1.5%"},
		{"typical", 34.5, "34.5%"},
		{"hundred", 100.0, "100.0%"},
		{"fractional", 67.89, "67.9%"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatPercent(tc.input))
		})
	}
}

func TestFormatProbability(t *testing.T) {
	assert.Equal(t, "26.3%", FormatProbability(0.263))
	assert.Equal(t, "98.0%", FormatProbability(0.98))
	assert.Equal(t, "1.0%", FormatProbability(0.01))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "$2,500", FormatCurrency(2500))
	assert.Equal(t, "$16,000", FormatCurrency(15999.6))
}
