package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dm/eams-go/internal/model"
)

func TestHealthSeverity(t *testing.T) {
	assert.Equal(t, severityNormal, healthSeverity(95))
	assert.Equal(t, severityNormal, healthSeverity(70))
	assert.Equal(t, severityWarning, healthSeverity(69.9))
	assert.Equal(t, severityWarning, healthSeverity(60))
	assert.Equal(t, severityCritical, healthSeverity(59.9))
}

func TestRULSeverity(t *testing.T) {
	assert.Equal(t, severityNormal, rulSeverity(8760))
	assert.Equal(t, severityNormal, rulSeverity(720))
	assert.Equal(t, severityWarning, rulSeverity(719))
	assert.Equal(t, severityWarning, rulSeverity(168))
	assert.Equal(t, severityCritical, rulSeverity(167))
}

func TestProbabilitySeverity(t *testing.T) {
	assert.Equal(t, severityNormal, probabilitySeverity(0.05))
	assert.Equal(t, severityNormal, probabilitySeverity(0.2))
	assert.Equal(t, severityWarning, probabilitySeverity(0.21))
	assert.Equal(t, severityWarning, probabilitySeverity(0.5))
	assert.Equal(t, severityCritical, probabilitySeverity(0.51))
}

func TestAvailabilitySeverity(t *testing.T) {
	assert.Equal(t, severityNormal, availabilitySeverity(99.5))
	assert.Equal(t, severityNormal, availabilitySeverity(99))
	assert.Equal(t, severityWarning, availabilitySeverity(98))
	assert.Equal(t, severityCritical, availabilitySeverity(94.9))
}

func TestModeSeverity(t *testing.T) {
	assert.Equal(t, severityNormal, modeSeverity(model.SeverityGood))
	assert.Equal(t, severityWarning, modeSeverity(model.SeverityModerate))
	assert.Equal(t, severityCritical, modeSeverity(model.SeveritySevere))
	assert.Equal(t, severityCritical, modeSeverity(model.SeverityCritical))
}

func TestSeverityColors(t *testing.T) {
	assert.Equal(t, colorWhite, severityFg(severityNormal))
	assert.Equal(t, colorYellow, severityFg(severityWarning))
	assert.Equal(t, colorRed, severityFg(severityCritical))
	assert.Equal(t, StyleRed.GetForeground(), severityToStyle(severityCritical).GetForeground())
}

func TestGradeColor(t *testing.T) {
	assert.Equal(t, colorGreen, gradeColor("A"))
	assert.Equal(t, colorCyan, gradeColor("B"))
	assert.Equal(t, colorYellow, gradeColor("C"))
	assert.Equal(t, colorOrange, gradeColor("D"))
	assert.Equal(t, colorRed, gradeColor("F"))
	assert.Equal(t, colorGray, gradeColor("-"))
}
