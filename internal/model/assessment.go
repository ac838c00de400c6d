package model

// Health computation methods reported in MasterHealthAssessment.HealthMethod.
const (
	HealthMethodComponent   = "component"
	HealthMethodExponential = "exponential"
)

// TraceStep records one intermediate value of an assessment so callers can
// explain a result without the engine printing anything.
type TraceStep struct {
	Stage   string  `json:"stage"`
	Message string  `json:"message"`
	Value   float64 `json:"value"`
}

// AnalyticsSignals summarises the previous assessment of the same asset. It is
// supplied explicitly by the caller (typically from a cache) and lets the
// engine flag trends without holding state between calls.
type AnalyticsSignals struct {
	PreviousHealthScore float64 `json:"previous_health_score"`
	PreviousMFI         float64 `json:"previous_mfi"`
	PreviousRULHours    float64 `json:"previous_rul_hours"`
	ElapsedHours        float64 `json:"elapsed_hours"`
	AnomalyScore        float64 `json:"anomaly_score"`
}

// MasterHealthAssessment is the complete result for one snapshot.
type MasterHealthAssessment struct {
	Snapshot             VibrationSnapshot     `json:"snapshot"`
	Analyses             []FailureModeResult   `json:"analyses"`
	MasterFaultIndex     float64               `json:"master_fault_index"`
	OverallHealthScore   float64               `json:"overall_health_score"`
	HealthGrade          string                `json:"health_grade"`
	HealthMethod         string                `json:"health_method"`
	Subsystems           []SubsystemHealth     `json:"subsystems,omitempty"`
	CriticalFailures     []FailureType         `json:"critical_failures"`
	Reliability          ReliabilityMetrics    `json:"reliability"`
	FailureProbability   FailureProbability    `json:"failure_probability"`
	FailureContributions []FailureContribution `json:"failure_contributions"`
	ParetoVitalFew       []FailureType         `json:"pareto_vital_few,omitempty"`
	Recommendations      RecommendationSet     `json:"recommendations"`
	Trace                []TraceStep           `json:"trace,omitempty"`
}

// ReportRow is one line of the PFMEA-style worksheet.
type ReportRow struct {
	Type         FailureType `json:"type"`
	Severity     Severity    `json:"severity"`
	Index        float64     `json:"index"`
	Contribution float64     `json:"contribution"`
	S            int         `json:"s"`
	O            int         `json:"o"`
	D            int         `json:"d"`
	RPN          float64     `json:"rpn"`
	Band         RiskBand    `json:"band"`
	Timeframe    string      `json:"timeframe"`
}

// Report is the tabular view of an assessment, rows sorted by RPN.
type Report struct {
	HealthScore        float64     `json:"health_score"`
	HealthGrade        string      `json:"health_grade"`
	MasterFaultIndex   float64     `json:"master_fault_index"`
	MTBF               float64     `json:"mtbf"`
	MTTR               float64     `json:"mttr"`
	Availability       float64     `json:"availability"`
	RULHours           float64     `json:"rul_hours"`
	FailureProbability float64     `json:"failure_probability"`
	Rows               []ReportRow `json:"rows"`
}
