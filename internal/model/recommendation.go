package model

import (
	"fmt"
	"strings"
)

// Priority indicates how urgent a recommendation is.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

var priorityNames = [...]string{"Low", "Medium", "High", "Critical"}

func (p Priority) String() string {
	if p < PriorityLow || p > PriorityCritical {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// MarshalText renders the priority by name.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText accepts a priority name, case-insensitively.
func (p *Priority) UnmarshalText(b []byte) error {
	for i, name := range priorityNames {
		if strings.EqualFold(name, string(b)) {
			*p = Priority(i)
			return nil
		}
	}
	return fmt.Errorf("unknown priority %q", string(b))
}

// RecommendationCategory groups related recommendations.
type RecommendationCategory string

const (
	CategoryMechanical  RecommendationCategory = "Mechanical"
	CategoryElectrical  RecommendationCategory = "Electrical"
	CategoryHydraulic   RecommendationCategory = "Hydraulic"
	CategoryFoundation  RecommendationCategory = "Foundation"
	CategoryReliability RecommendationCategory = "Reliability"
	CategoryCompliance  RecommendationCategory = "Compliance"
	CategoryAnalytics   RecommendationCategory = "Analytics"
	CategoryMonitoring  RecommendationCategory = "Monitoring"
)

// Categories lists recommendation categories in display order.
var Categories = []RecommendationCategory{
	CategoryMechanical,
	CategoryElectrical,
	CategoryHydraulic,
	CategoryFoundation,
	CategoryReliability,
	CategoryCompliance,
	CategoryAnalytics,
	CategoryMonitoring,
}

// Recommendation sources.
const (
	SourceFailureMode = "failure-mode"
	SourceHealth      = "health-score"
	SourceStandards   = "standards"
	SourceAnalytics   = "analytics"
)

// Recommendation is a single maintenance action derived from an assessment.
type Recommendation struct {
	Priority     Priority               `json:"priority"`
	Category     RecommendationCategory `json:"category"`
	Action       string                 `json:"action"`
	Reason       string                 `json:"reason"`
	Timeframe    string                 `json:"timeframe"`
	UrgencyScore float64                `json:"urgency_score"` // 0–100
	Source       string                 `json:"source"`
}

// RecommendationSummary rolls up a recommendation set.
type RecommendationSummary struct {
	Total         int                            `json:"total"`
	ByPriority    map[Priority]int               `json:"by_priority"`
	ByCategory    map[RecommendationCategory]int `json:"by_category"`
	EstimatedCost float64                        `json:"estimated_cost"`
}

// RecommendationSet is the deduplicated output, bucketed by timeframe.
type RecommendationSet struct {
	Immediate []Recommendation      `json:"immediate"`
	ShortTerm []Recommendation      `json:"short_term"`
	LongTerm  []Recommendation      `json:"long_term"`
	Summary   RecommendationSummary `json:"summary"`
}

// All returns every recommendation, immediate first.
func (s RecommendationSet) All() []Recommendation {
	out := make([]Recommendation, 0, len(s.Immediate)+len(s.ShortTerm)+len(s.LongTerm))
	out = append(out, s.Immediate...)
	out = append(out, s.ShortTerm...)
	return append(out, s.LongTerm...)
}
