package engine

import (
	"fmt"
	"math"

	"github.com/dm/eams-go/internal/model"
)

// Accepted input ranges.
const (
	minFrequencyHz = 0.1
	maxFrequencyHz = 1000.0
	minSpeedRPM    = 1.0
	maxSpeedRPM    = 50000.0
	maxTempC       = 250.0
)

// ValidateSnapshot checks a snapshot before any detector runs. It never
// panics: every problem is reported as a reason (rejecting) or a warning
// (advisory).
func ValidateSnapshot(s model.VibrationSnapshot) model.Validation {
	v := model.Validation{}

	fields := []struct {
		name  string
		value float64
	}{
		{"VH", s.VH}, {"VV", s.VV}, {"VA", s.VA},
		{"AH", s.AH}, {"AV", s.AV}, {"AA", s.AA},
		{"frequency", s.Frequency}, {"speed", s.Speed},
	}
	for _, f := range fields {
		switch {
		case math.IsNaN(f.value) || math.IsInf(f.value, 0):
			v.Reasons = append(v.Reasons, fmt.Sprintf("%s is not a finite number", f.name))
		case f.value < 0:
			v.Reasons = append(v.Reasons, fmt.Sprintf("%s must not be negative (got %g)", f.name, f.value))
		}
	}

	if finite(s.Frequency) && s.Frequency >= 0 && (s.Frequency < minFrequencyHz || s.Frequency > maxFrequencyHz) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("frequency %g Hz outside [%g, %g]", s.Frequency, minFrequencyHz, maxFrequencyHz))
	}
	if finite(s.Speed) && s.Speed >= 0 && (s.Speed < minSpeedRPM || s.Speed > maxSpeedRPM) {
		v.Reasons = append(v.Reasons, fmt.Sprintf("speed %g RPM outside [%g, %g]", s.Speed, minSpeedRPM, maxSpeedRPM))
	}

	if s.Temperature != nil {
		t := *s.Temperature
		switch {
		case !finite(t):
			v.Reasons = append(v.Reasons, "temperature is not a finite number")
		case t < 0:
			v.Reasons = append(v.Reasons, fmt.Sprintf("temperature must not be negative (got %g)", t))
		case t > maxTempC:
			v.Reasons = append(v.Reasons, fmt.Sprintf("temperature %g °C above plausible limit %g", t, maxTempC))
		}
	}

	v.Valid = len(v.Reasons) == 0
	if !v.Valid {
		return v
	}

	// Advisory checks on an otherwise valid snapshot.
	if r := rms(s.VH, s.VV); r > 45 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("radial velocity %.1f mm/s is unusually high; check sensor mounting and units", r))
	}
	shaftHz := s.Speed / 60
	if poles := polePairs(s.Frequency, s.Speed); poles == 0 || math.Abs(s.Frequency/float64(poles)-shaftHz)/shaftHz > 0.2 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("speed %.0f RPM is inconsistent with supply frequency %.1f Hz", s.Speed, s.Frequency))
	}
	if s.VH == 0 && s.VV == 0 && s.VA == 0 && s.AH == 0 && s.AV == 0 && s.AA == 0 {
		v.Warnings = append(v.Warnings, "all vibration channels read zero; the machine may be stopped")
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// maxPolePairs bounds the estimate at a 24-pole machine.
const maxPolePairs = 12

// polePairs estimates the number of motor pole pairs as round(60f/N). Counting
// pairs keeps the implied pole count even. It returns 0 when no sensible
// estimate exists; ValidateSnapshot warns about such readings and the
// electrical detector then assumes zero slip.
func polePairs(frequency, speed float64) int {
	if speed <= 0 || frequency <= 0 {
		return 0
	}
	p := math.Round(frequency * 60 / speed)
	if p < 1 || p > maxPolePairs {
		return 0
	}
	return int(p)
}
