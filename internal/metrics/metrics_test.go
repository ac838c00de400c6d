package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/eams-go/internal/engine"
	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

func assessed(t *testing.T, id string, v float64) runner.Result {
	t.Helper()
	snap := model.VibrationSnapshot{VH: v, VV: v, VA: v, AH: 1, AV: 1, AA: 1, Frequency: 50, Speed: 1450}
	a, val := engine.Assess(snap, engine.Options{})
	require.True(t, val.Valid, val.Reasons)
	return runner.Result{
		Reading:    model.EquipmentReading{EquipmentID: id, Snapshot: snap},
		Assessment: a,
		Validation: val,
		Anomaly:    engine.ProjectAnomaly(a),
	}
}

func TestRecord(t *testing.T) {
	r := New()
	res := assessed(t, "P-101", 15)
	r.Record(res)

	a := res.Assessment
	assert.InDelta(t, a.OverallHealthScore, testutil.ToFloat64(r.health.WithLabelValues("P-101")), 1e-9)
	assert.InDelta(t, a.MasterFaultIndex, testutil.ToFloat64(r.mfi.WithLabelValues("P-101")), 1e-9)
	assert.InDelta(t, a.Reliability.MTBF, testutil.ToFloat64(r.mtbf.WithLabelValues("P-101")), 1e-9)
	assert.InDelta(t, a.Reliability.RUL.Hours, testutil.ToFloat64(r.rul.WithLabelValues("P-101")), 1e-9)
	assert.InDelta(t, a.FailureProbability.Probability, testutil.ToFloat64(r.probability.WithLabelValues("P-101")), 1e-9)
	assert.InDelta(t, res.Anomaly.Score, testutil.ToFloat64(r.anomaly.WithLabelValues("P-101")), 1e-9)
	assert.Equal(t, float64(model.SeverityCritical),
		testutil.ToFloat64(r.modeSeverity.WithLabelValues("P-101", string(model.FailureUnbalance))))

	assert.Equal(t, len(a.Analyses), testutil.CollectAndCount(r.modeIndex))
	assert.Equal(t, 4, testutil.CollectAndCount(r.recs))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.assessments.WithLabelValues("assessed")))
}

func TestRecord_Rejected(t *testing.T) {
	r := New()
	r.Record(runner.Result{Reading: model.EquipmentReading{EquipmentID: "BAD"}})

	assert.Equal(t, float64(1), testutil.ToFloat64(r.assessments.WithLabelValues("rejected")))
	assert.Equal(t, 0, testutil.CollectAndCount(r.health))
}

func TestRecord_SeparateEquipment(t *testing.T) {
	r := New()
	r.Record(assessed(t, "P-1", 1))
	r.Record(assessed(t, "P-2", 8))

	assert.Equal(t, 2, testutil.CollectAndCount(r.health))
	assert.Greater(t,
		testutil.ToFloat64(r.health.WithLabelValues("P-1")),
		testutil.ToFloat64(r.health.WithLabelValues("P-2")))
}

func TestRegistriesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.Record(assessed(t, "P-1", 1))
	assert.Equal(t, 0, testutil.CollectAndCount(b.health))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Record(assessed(t, "P-101", 1))

	path := filepath.Join(t.TempDir(), "eams.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `eams_health_score{equipment_id="P-101"}`)
	assert.Contains(t, out, `eams_failure_mode_index{equipment_id="P-101",mode="Unbalance"}`)
	assert.True(t, strings.Contains(out, "# HELP eams_rul_hours"))
}

func TestWriteTextfile_BadDir(t *testing.T) {
	r := New()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "eams.prom"))
	assert.ErrorContains(t, err, "metrics: write")
}
