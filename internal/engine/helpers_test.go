package engine

import "github.com/dm/eams-go/internal/model"

// makeSnapshot builds a snapshot with every velocity channel at v and every
// acceleration channel at a, on a 4-pole 50 Hz motor.
func makeSnapshot(v, a float64) model.VibrationSnapshot {
	return model.VibrationSnapshot{
		VH: v, VV: v, VA: v,
		AH: a, AV: a, AA: a,
		Frequency: 50,
		Speed:     1450,
	}
}

// forced returns one analysis per failure type, all at the given severity
// and index.
func forced(sev model.Severity, index float64) []model.FailureModeResult {
	out := make([]model.FailureModeResult, 0, len(model.FailureTypes))
	for _, t := range model.FailureTypes {
		out = append(out, model.FailureModeResult{Type: t, Severity: sev, Index: index})
	}
	return out
}

// withMode replaces the analysis of type t.
func withMode(analyses []model.FailureModeResult, t model.FailureType, sev model.Severity, index float64) []model.FailureModeResult {
	out := append([]model.FailureModeResult(nil), analyses...)
	for i := range out {
		if out[i].Type == t {
			out[i].Severity = sev
			out[i].Index = index
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }

// detect returns the RunDetectors result for failure type ft.
func detect(ft model.FailureType, s model.VibrationSnapshot) (model.FailureModeResult, bool) {
	for _, r := range RunDetectors(s) {
		if r.Type == ft {
			return r, true
		}
	}
	return model.FailureModeResult{}, false
}
