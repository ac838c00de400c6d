package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/runner"
)

// Registry exposes assessment results as Prometheus gauges. It implements
// runner.Recorder and is safe for concurrent use.
type Registry struct {
	reg *prometheus.Registry

	health       *prometheus.GaugeVec
	mfi          *prometheus.GaugeVec
	mtbf         *prometheus.GaugeVec
	availability *prometheus.GaugeVec
	rul          *prometheus.GaugeVec
	probability  *prometheus.GaugeVec
	anomaly      *prometheus.GaugeVec
	modeIndex    *prometheus.GaugeVec
	modeSeverity *prometheus.GaugeVec
	rpn          *prometheus.GaugeVec
	recs         *prometheus.GaugeVec
	assessments  *prometheus.CounterVec
}

var _ runner.Recorder = (*Registry)(nil)

// New creates a Registry with its own prometheus.Registry so several
// instances never collide on the global default.
func New() *Registry {
	equipment := []string{"equipment_id"}
	gauge := func(name, help string, labels []string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "eams", Name: name, Help: help}, labels)
	}

	r := &Registry{
		reg:          prometheus.NewRegistry(),
		health:       gauge("health_score", "Overall machine health score (0-100).", equipment),
		mfi:          gauge("master_fault_index", "Weighted master fault index.", equipment),
		mtbf:         gauge("mtbf_hours", "Planning MTBF in hours.", equipment),
		availability: gauge("availability_percent", "Inherent availability in percent.", equipment),
		rul:          gauge("rul_hours", "Estimated remaining useful life in hours.", equipment),
		probability:  gauge("failure_probability", "Probability of failure within the operating horizon.", equipment),
		anomaly:      gauge("anomaly_score", "Anomaly projection score (0-1).", equipment),
		modeIndex:    gauge("failure_mode_index", "Failure mode index.", []string{"equipment_id", "mode"}),
		modeSeverity: gauge("failure_mode_severity", "Failure mode severity (0=Good .. 3=Critical).", []string{"equipment_id", "mode"}),
		rpn:          gauge("failure_mode_rpn", "Risk priority number per failure mode.", []string{"equipment_id", "mode"}),
		recs:         gauge("recommendations", "Recommendations by priority.", []string{"equipment_id", "priority"}),
		assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eams",
			Name:      "assessments_total",
			Help:      "Readings assessed, by outcome.",
		}, []string{"result"}),
	}

	r.reg.MustRegister(
		r.health, r.mfi, r.mtbf, r.availability, r.rul, r.probability, r.anomaly,
		r.modeIndex, r.modeSeverity, r.rpn, r.recs, r.assessments,
	)
	return r
}

// Gatherer returns the underlying registry for exposition.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Record updates every gauge for res.Reading.EquipmentID. Invalid readings only
// increment the rejected counter and leave the previous values in place.
func (r *Registry) Record(res runner.Result) {
	if !res.Valid() {
		r.assessments.WithLabelValues("rejected").Inc()
		return
	}
	r.assessments.WithLabelValues("assessed").Inc()

	id := res.Reading.EquipmentID
	a := res.Assessment
	r.health.WithLabelValues(id).Set(a.OverallHealthScore)
	r.mfi.WithLabelValues(id).Set(a.MasterFaultIndex)
	r.mtbf.WithLabelValues(id).Set(a.Reliability.MTBF)
	r.availability.WithLabelValues(id).Set(a.Reliability.Availability)
	r.rul.WithLabelValues(id).Set(a.Reliability.RUL.Hours)
	r.probability.WithLabelValues(id).Set(a.FailureProbability.Probability)
	r.anomaly.WithLabelValues(id).Set(res.Anomaly.Score)

	for _, m := range a.Analyses {
		mode := string(m.Type)
		r.modeIndex.WithLabelValues(id, mode).Set(m.Index)
		r.modeSeverity.WithLabelValues(id, mode).Set(float64(m.Severity))
	}
	for _, c := range a.FailureContributions {
		r.rpn.WithLabelValues(id, string(c.Type)).Set(c.Risk.RPN)
	}

	counts := make(map[model.Priority]int)
	for _, rec := range a.Recommendations.All() {
		counts[rec.Priority]++
	}
	for p := model.PriorityLow; p <= model.PriorityCritical; p++ {
		r.recs.WithLabelValues(id, p.String()).Set(float64(counts[p]))
	}
}

// WriteTextfile writes the current metrics in the text exposition format for
// the node_exporter textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
