package model

// WeibullParameters describes the two-parameter Weibull life distribution
// fitted to the current condition.
type WeibullParameters struct {
	Beta       float64 `json:"beta"`        // shape
	Eta        float64 `json:"eta"`         // scale (characteristic life), hours
	MTTF       float64 `json:"mttf"`        // η·Γ(1+1/β), hours
	B10Life    float64 `json:"b10_life"`    // time by which 10% fail, hours
	HazardRate float64 `json:"hazard_rate"` // failures/hour at the estimated age
	Family     string  `json:"family"`      // failure pattern that selected β
}

// RULEstimate is the remaining-useful-life prediction.
type RULEstimate struct {
	Hours           float64 `json:"hours"`
	Confidence      float64 `json:"confidence"` // 0–100
	CurrentAgeHours float64 `json:"current_age_hours"`
	Method          string  `json:"method"`
}

// MaintenanceOptimization is the suggested maintenance strategy and cadence.
type MaintenanceOptimization struct {
	Strategy             string  `json:"strategy"`
	OptimalIntervalHours float64 `json:"optimal_interval_hours"`
	NextInspectionHours  float64 `json:"next_inspection_hours"`
}

// StressFactors are the NSWC-10 style multipliers derived from the snapshot.
// A factor of 1 means the asset runs at its design condition.
type StressFactors struct {
	Temperature float64 `json:"temperature"`
	Vibration   float64 `json:"vibration"`
	DutyCycle   float64 `json:"duty_cycle"`
}

// ReliabilityBenchmark is the OREDA reference reliability of the asset's
// equipment category, scaled by its installation environment. It is what a
// typical unit of the class achieves and is independent of the snapshot.
type ReliabilityBenchmark struct {
	Category          EquipmentCategory `json:"category"`
	Environment       Environment       `json:"environment"`
	FailuresPerYear   float64           `json:"failures_per_year"` // base rate × environment factor
	EnvironmentFactor float64           `json:"environment_factor"`
	MTBF              float64           `json:"mtbf"`         // hours
	MTTR              float64           `json:"mttr"`         // hours
	Availability      float64           `json:"availability"` // percent
}

// ReliabilityMetrics groups MTBF/MTTR/availability and the life model.
type ReliabilityMetrics struct {
	MTBF             float64                 `json:"mtbf"`          // hours, planning floors applied
	DegradedMTBF     float64                 `json:"degraded_mtbf"` // hours, before planning floors
	MTTR             float64                 `json:"mttr"`          // hours
	Availability     float64                 `json:"availability"`  // percent
	RepairActivities []string                `json:"repair_activities,omitempty"`
	Weibull          WeibullParameters       `json:"weibull"`
	RUL              RULEstimate             `json:"rul"`
	Stress           StressFactors           `json:"stress"`
	Optimization     MaintenanceOptimization `json:"maintenance_optimization"`

	// Benchmark is nil when the equipment category is unset or unknown.
	Benchmark *ReliabilityBenchmark `json:"benchmark,omitempty"`
}

// FailureProbability is the system-level probability of failure within the
// operating horizon.
type FailureProbability struct {
	Probability           float64 `json:"probability"`
	Reliability           float64 `json:"reliability"`
	HorizonHours          float64 `json:"horizon_hours"`
	Beta                  float64 `json:"beta"`
	Eta                   float64 `json:"eta"`
	BaseProbability       float64 `json:"base_probability"`
	DutyFactor            float64 `json:"duty_factor"`
	InterventionPotential float64 `json:"intervention_potential"`
	ShortCircuited        bool    `json:"short_circuited"`
}

// SubsystemHealth is the health of one machine subsystem (0–100).
type SubsystemHealth struct {
	Name   string        `json:"name"`
	Weight float64       `json:"weight"`
	Health float64       `json:"health"`
	Modes  []FailureType `json:"modes"`
}

// RiskBand buckets an RPN into a response class.
type RiskBand string

const (
	RiskLow      RiskBand = "Low"
	RiskMedium   RiskBand = "Medium"
	RiskHigh     RiskBand = "High"
	RiskCritical RiskBand = "Critical"
)

// RiskAssessment is the FMEA scoring of one failure mode.
type RiskAssessment struct {
	Type       FailureType `json:"type"`
	Severity   int         `json:"severity"`   // S, 1–10
	Occurrence int         `json:"occurrence"` // O, 1–10
	Detection  int         `json:"detection"`  // D, 1–10
	RPN        float64     `json:"rpn"`
	Band       RiskBand    `json:"band"`
	Timeframe  string      `json:"timeframe"`
}

// FailureContribution is one row of the fault breakdown: how much a mode adds
// to the Master Fault Index and how risky it is.
type FailureContribution struct {
	Type         FailureType    `json:"type"`
	Severity     Severity       `json:"severity"`
	Index        float64        `json:"index"`
	Weight       float64        `json:"weight"`
	Contribution float64        `json:"contribution"`
	Percent      float64        `json:"percent"`
	Risk         RiskAssessment `json:"risk"`
}
