package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/dm/eams-go/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestValidateSnapshot_Healthy(t *testing.T) {
	v := ValidateSnapshot(makeSnapshot(1, 1))
	assert.True(t, v.Valid)
	assert.Empty(t, v.Reasons)
	assert.Empty(t, v.Warnings)
}

func TestValidateSnapshot_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *model.VibrationSnapshot)
		reason string
	}{
		{"NaN velocity", func(s *model.VibrationSnapshot) { s.VH = math.NaN() }, "VH is not a finite number"},
		{"Inf acceleration", func(s *model.VibrationSnapshot) { s.AA = math.Inf(1) }, "AA is not a finite number"},
		{"negative velocity", func(s *model.VibrationSnapshot) { s.VV = -0.5 }, "VV must not be negative"},
		{"frequency too low", func(s *model.VibrationSnapshot) { s.Frequency = 0.05 }, "frequency 0.05 Hz outside"},
		{"frequency too high", func(s *model.VibrationSnapshot) { s.Frequency = 1200 }, "frequency 1200 Hz outside"},
		{"speed zero", func(s *model.VibrationSnapshot) { s.Speed = 0 }, "speed 0 RPM outside"},
		{"speed too high", func(s *model.VibrationSnapshot) { s.Speed = 60000 }, "speed 60000 RPM outside"},
		{"temperature NaN", func(s *model.VibrationSnapshot) { s.Temperature = ptr(math.NaN()) }, "temperature is not a finite number"},
		{"temperature negative", func(s *model.VibrationSnapshot) { s.Temperature = ptr(-5) }, "temperature must not be negative"},
		{"temperature implausible", func(s *model.VibrationSnapshot) { s.Temperature = ptr(300) }, "above plausible limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := makeSnapshot(1, 1)
			tt.mutate(&s)
			v := ValidateSnapshot(s)
			assert.False(t, v.Valid)
			assert.True(t, containsSubstr(v.Reasons, tt.reason), "reasons %v should mention %q", v.Reasons, tt.reason)
			assert.Empty(t, v.Warnings, "warnings are only produced for valid snapshots")
		})
	}
}

func TestValidateSnapshot_MultipleReasons(t *testing.T) {
	s := makeSnapshot(1, 1)
	s.VH = -1
	s.VA = math.NaN()
	v := ValidateSnapshot(s)
	assert.False(t, v.Valid)
	assert.Len(t, v.Reasons, 2)
}

func TestValidateSnapshot_Warnings(t *testing.T) {
	t.Run("stopped machine", func(t *testing.T) {
		v := ValidateSnapshot(makeSnapshot(0, 0))
		assert.True(t, v.Valid)
		assert.True(t, containsSubstr(v.Warnings, "all vibration channels read zero"))
	})
	t.Run("speed inconsistent with supply", func(t *testing.T) {
		s := makeSnapshot(1, 1)
		s.Speed = 100
		v := ValidateSnapshot(s)
		assert.True(t, v.Valid)
		assert.True(t, containsSubstr(v.Warnings, "inconsistent with supply frequency"))
	})
	t.Run("very high radial velocity", func(t *testing.T) {
		v := ValidateSnapshot(makeSnapshot(50, 1))
		assert.True(t, v.Valid)
		assert.True(t, containsSubstr(v.Warnings, "unusually high"))
	})
}

func TestPolePairs(t *testing.T) {
	assert.Equal(t, 2, polePairs(50, 1450))
	assert.Equal(t, 1, polePairs(50, 2950))
	assert.Equal(t, 3, polePairs(60, 1180))
	assert.Equal(t, 0, polePairs(50, 100), "30 pole pairs is implausible")
	assert.Equal(t, 0, polePairs(0, 1450))
	assert.Equal(t, 0, polePairs(50, 0))
}

func containsSubstr(list []string, sub string) bool {
	for _, s := range list {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
