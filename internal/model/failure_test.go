package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholds_Classify(t *testing.T) {
	th := Thresholds{Good: 2.8, Moderate: 7.1, Severe: 11.0, Critical: 18.0}
	cases := []struct {
		name string
		v    float64
		want Severity
	}{
		{"zero", 0, SeverityGood},
		{"at good limit", 2.8, SeverityGood},
		{"just above good", 2.81, SeverityModerate},
		{"at moderate limit", 7.1, SeverityModerate},
		{"severe", 9, SeveritySevere},
		{"at severe limit", 11.0, SeveritySevere},
		{"above severe", 11.01, SeverityCritical},
		{"beyond trip level", 40, SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, th.Classify(tc.v))
		})
	}
}

func TestSeverity_TextRoundTrip(t *testing.T) {
	b, err := json.Marshal(struct {
		S Severity `json:"s"`
	}{SeveritySevere})
	require.NoError(t, err)
	assert.JSONEq(t, `{"s":"Severe"}`, string(b))

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("critical")))
	assert.Equal(t, SeverityCritical, s)
	assert.Error(t, s.UnmarshalText([]byte("broken")))
}

func TestSeverity_StringOutOfRange(t *testing.T) {
	assert.Equal(t, "Severity(9)", Severity(9).String())
	assert.False(t, SeverityGood.Active())
	assert.True(t, SeverityModerate.Active())
}

func TestFailureType_OrderAndFoundation(t *testing.T) {
	assert.Equal(t, 0, FailureUnbalance.Order())
	assert.Equal(t, 8, FailureResonance.Order())
	assert.Equal(t, len(FailureTypes), FailureType("Gearbox").Order())

	assert.True(t, FailureSoftFoot.IsFoundation())
	assert.True(t, FailureResonance.IsFoundation())
	assert.False(t, FailureBearingDefects.IsFoundation())
}

func TestPriority_Text(t *testing.T) {
	var p Priority
	require.NoError(t, p.UnmarshalText([]byte("HIGH")))
	assert.Equal(t, PriorityHigh, p)
	assert.Equal(t, "Critical", PriorityCritical.String())
}

func TestRecommendationSet_All(t *testing.T) {
	set := RecommendationSet{
		Immediate: []Recommendation{{Action: "a"}},
		ShortTerm: []Recommendation{{Action: "b"}},
		LongTerm:  []Recommendation{{Action: "c"}},
	}
	all := set.All()
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Action)
	assert.Equal(t, "c", all[2].Action)
}
