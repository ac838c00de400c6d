package model

import "time"

// VibrationSnapshot is one set of pre-reduced triaxial measurements taken at
// the drive-end bearing housing. Velocities are RMS mm/s, accelerations RMS m/s².
type VibrationSnapshot struct {
	VH float64 `json:"vh" yaml:"vh"` // horizontal velocity
	VV float64 `json:"vv" yaml:"vv"` // vertical velocity
	VA float64 `json:"va" yaml:"va"` // axial velocity
	AH float64 `json:"ah" yaml:"ah"` // horizontal acceleration
	AV float64 `json:"av" yaml:"av"` // vertical acceleration
	AA float64 `json:"aa" yaml:"aa"` // axial acceleration

	Frequency float64 `json:"frequency" yaml:"frequency"` // Hz
	Speed     float64 `json:"speed" yaml:"speed"`         // RPM

	// Temperature is the bearing housing temperature in °C, nil when not measured.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// EquipmentReading ties a snapshot to the asset it was taken from.
type EquipmentReading struct {
	EquipmentID string            `json:"equipment_id" yaml:"equipment_id"`
	Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
	TakenAt     time.Time         `json:"taken_at" yaml:"taken_at"`
	Snapshot    VibrationSnapshot `json:"snapshot" yaml:"snapshot"`
}

// CriticalityClass ranks the asset's importance to the process.
// A = production-critical, B = important, C = non-critical.
type CriticalityClass string

const (
	CriticalityA CriticalityClass = "A"
	CriticalityB CriticalityClass = "B"
	CriticalityC CriticalityClass = "C"
)

// ImpactLevel is the environmental/safety consequence class of a failure.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "low"
	ImpactMedium ImpactLevel = "medium"
	ImpactHigh   ImpactLevel = "high"
)

// EquipmentCategory is the OREDA equipment class of the asset. It selects the
// reference failure and repair rates reported next to the condition-based
// figures.
type EquipmentCategory string

const (
	CategoryCentrifugalPump       EquipmentCategory = "pump_centrifugal"
	CategoryPositiveDisplacement  EquipmentCategory = "pump_positive_displacement"
	CategoryInductionMotor        EquipmentCategory = "motor_induction"
	CategoryCentrifugalCompressor EquipmentCategory = "compressor_centrifugal"
	CategoryBallValve             EquipmentCategory = "valve_ball"
	CategoryButterflyValve        EquipmentCategory = "valve_butterfly"
)

// Environment is the installation environment that scales reference
// failure rates.
type Environment string

const (
	EnvironmentOnshore  Environment = "onshore"
	EnvironmentOffshore Environment = "offshore"
	EnvironmentHarsh    Environment = "harsh"
)

// MonitoringCapabilities lists the condition-monitoring techniques installed
// on the asset. Each one makes some failure modes easier to detect.
type MonitoringCapabilities struct {
	ContinuousVibration bool `json:"continuous_vibration" yaml:"continuous_vibration"`
	Thermal             bool `json:"thermal" yaml:"thermal"`
	MCSA                bool `json:"mcsa" yaml:"mcsa"` // motor current signature analysis
}

// EquipmentContext carries the operating and organisational facts that adjust
// risk scoring. The zero value is not meaningful; use DefaultContext.
type EquipmentContext struct {
	OperatingSpeed         float64                `json:"operating_speed" yaml:"operating_speed"`             // RPM
	OperatingTemperature   float64                `json:"operating_temperature" yaml:"operating_temperature"` // °C
	DutyCycle              float64                `json:"duty_cycle" yaml:"duty_cycle"`                       // 0–1
	Monitoring             MonitoringCapabilities `json:"monitoring" yaml:"monitoring"`
	InspectionIntervalDays float64                `json:"inspection_interval_days" yaml:"inspection_interval_days"`
	Criticality            CriticalityClass       `json:"criticality" yaml:"criticality"`
	EnvironmentalImpact    ImpactLevel            `json:"environmental_impact" yaml:"environmental_impact"`
	Category               EquipmentCategory      `json:"category,omitempty" yaml:"category,omitempty"`
	Environment            Environment            `json:"environment,omitempty" yaml:"environment,omitempty"`
}

// DefaultContext returns the context used when the caller supplies none:
// an important (class B) onshore centrifugal pump on a monthly inspection
// round.
func DefaultContext() EquipmentContext {
	return EquipmentContext{
		DutyCycle:              0.7,
		InspectionIntervalDays: 30,
		Criticality:            CriticalityB,
		EnvironmentalImpact:    ImpactMedium,
		Category:               CategoryCentrifugalPump,
		Environment:            EnvironmentOnshore,
	}
}

// Validation is the outcome of checking a snapshot before analysis.
// Reasons explain a rejection; Warnings are advisory and never reject.
type Validation struct {
	Valid    bool     `json:"valid"`
	Reasons  []string `json:"reasons,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
