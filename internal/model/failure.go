package model

import (
	"fmt"
	"strings"
)

// FailureType names one of the nine failure families the detectors cover.
// The names are matched by substring when looking up recommended actions.
type FailureType string

const (
	FailureUnbalance      FailureType = "Unbalance"
	FailureMisalignment   FailureType = "Misalignment"
	FailureSoftFoot       FailureType = "Soft Foot"
	FailureBearingDefects FailureType = "Bearing Defects"
	FailureLooseness      FailureType = "Mechanical Looseness"
	FailureCavitation     FailureType = "Cavitation"
	FailureElectrical     FailureType = "Electrical Faults"
	FailureFlowTurbulence FailureType = "Flow Turbulence"
	FailureResonance      FailureType = "Resonance"
)

// FailureTypes lists every failure family in detector execution order.
var FailureTypes = []FailureType{
	FailureUnbalance,
	FailureMisalignment,
	FailureSoftFoot,
	FailureBearingDefects,
	FailureLooseness,
	FailureCavitation,
	FailureElectrical,
	FailureFlowTurbulence,
	FailureResonance,
}

// Order returns the position of t in FailureTypes, or len(FailureTypes) for
// unknown types so they sort last.
func (t FailureType) Order() int {
	for i, ft := range FailureTypes {
		if ft == t {
			return i
		}
	}
	return len(FailureTypes)
}

// IsFoundation reports whether t is a structural/foundation failure. These
// degrade slowly and are scored with gentler penalties.
func (t FailureType) IsFoundation() bool {
	return t == FailureSoftFoot || t == FailureResonance
}

// Severity is the diagnosed condition of one failure mode.
type Severity int

const (
	SeverityGood Severity = iota
	SeverityModerate
	SeveritySevere
	SeverityCritical
)

var severityNames = [...]string{"Good", "Moderate", "Severe", "Critical"}

func (s Severity) String() string {
	if s < SeverityGood || s > SeverityCritical {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText renders the severity by name in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts a severity name, case-insensitively.
func (s *Severity) UnmarshalText(b []byte) error {
	for i, name := range severityNames {
		if strings.EqualFold(name, string(b)) {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(b))
}

// Active reports whether the severity indicates a developing fault.
func (s Severity) Active() bool {
	return s > SeverityGood
}

// Thresholds are the band limits of a detector's governing scalar.
// A value up to Good is Good, up to Moderate is Moderate, up to Severe is
// Severe and anything above is Critical. Critical is the trip/danger level
// shown to operators.
type Thresholds struct {
	Good     float64 `json:"good"`
	Moderate float64 `json:"moderate"`
	Severe   float64 `json:"severe"`
	Critical float64 `json:"critical"`
}

// Classify maps a governing value onto a severity band. Non-decreasing in v.
func (th Thresholds) Classify(v float64) Severity {
	switch {
	case v <= th.Good:
		return SeverityGood
	case v <= th.Moderate:
		return SeverityModerate
	case v <= th.Severe:
		return SeveritySevere
	default:
		return SeverityCritical
	}
}

// Guidance is the static maintenance text attached to a failure type.
type Guidance struct {
	RootCauses         []string `json:"root_causes"`
	ImmediateActions   []string `json:"immediate_actions"`
	CorrectiveMeasures []string `json:"corrective_measures"`
	PreventiveMeasures []string `json:"preventive_measures"`
}

// Display holds presentation hints for dashboards.
type Display struct {
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// FailureModeResult is one detector's verdict on a snapshot.
type FailureModeResult struct {
	Type       FailureType `json:"type"`
	Severity   Severity    `json:"severity"`
	Index      float64     `json:"index"`
	Governing  float64     `json:"governing"`
	Thresholds Thresholds  `json:"thresholds"`
	ISOZone    string      `json:"iso_zone"`
	Guidance   Guidance    `json:"guidance"`
	Display    Display     `json:"display"`
}
