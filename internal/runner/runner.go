package runner

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dm/eams-go/internal/engine"
	"github.com/dm/eams-go/internal/model"
	"github.com/dm/eams-go/internal/store"
)

// Result is the outcome of assessing one reading. Assessment is nil when the
// reading failed validation; Validation then carries the reasons.
type Result struct {
	Reading    model.EquipmentReading
	AssessedAt time.Time
	Assessment *model.MasterHealthAssessment
	Validation model.Validation
	Signals    *model.AnalyticsSignals
	Anomaly    engine.AnomalyProjection
	Twin       engine.DigitalTwinProjection
	HistoryID  string
}

// Valid reports whether the reading produced an assessment.
func (r Result) Valid() bool {
	return r.Assessment != nil
}

// HistoryWriter persists completed assessments.
type HistoryWriter interface {
	Save(ctx context.Context, equipmentID string, assessedAt time.Time, a *model.MasterHealthAssessment) (string, error)
}

// Recorder observes every result, valid or not. Implementations must be safe
// for concurrent use.
type Recorder interface {
	Record(r Result)
}

// Config holds the per-run assessment settings.
type Config struct {
	Workers           int
	Context           model.EquipmentContext
	ApplyDependencies bool
}

// Deps are the optional collaborators of a Runner. Nil fields are skipped.
type Deps struct {
	Cache    store.AnalyticsCache
	History  HistoryWriter
	Recorder Recorder
	Log      *zap.Logger
}

// Runner assesses batches of readings concurrently.
type Runner struct {
	mu   sync.RWMutex
	cfg  Config
	deps Deps
	now  func() time.Time
}

// New returns a Runner. Workers below one are raised to one.
func New(cfg Config, deps Deps) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	return &Runner{cfg: cfg, deps: deps, now: time.Now}
}

// SetContext replaces the equipment context used by later runs. It is safe
// to call while a run is in progress; that run keeps the old context.
func (r *Runner) SetContext(ctx model.EquipmentContext) {
	r.mu.Lock()
	r.cfg.Context = ctx
	r.mu.Unlock()
}

// Run assesses every reading and returns the results in input order.
// Readings of the same equipment are assessed one after another, oldest
// TakenAt first, so each sees the cached analytics of its predecessor.
// Different equipment runs concurrently with at most Workers in flight.
// Cache and history failures are logged and do not fail the run; only
// cancellation of ctx does.
func (r *Runner) Run(ctx context.Context, readings []model.EquipmentReading) ([]Result, error) {
	results := make([]Result, len(readings))
	r.mu.RLock()
	eqCtx := r.cfg.Context
	r.mu.RUnlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for _, idx := range groupByEquipment(readings) {
		g.Go(func() error {
			for _, i := range idx {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := r.assess(gctx, readings[i], &eqCtx)
				if err != nil {
					return err
				}
				results[i] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// groupByEquipment returns reading indices grouped by equipment ID in order
// of first appearance. Each group is ordered by TakenAt with ties kept in
// input order. A zero TakenAt is assessed at the current time, so it sorts
// last.
func groupByEquipment(readings []model.EquipmentReading) [][]int {
	pos := make(map[string]int)
	var groups [][]int
	for i, rd := range readings {
		k, ok := pos[rd.EquipmentID]
		if !ok {
			k = len(groups)
			pos[rd.EquipmentID] = k
			groups = append(groups, nil)
		}
		groups[k] = append(groups[k], i)
	}
	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			ta, tb := readings[idx[a]].TakenAt, readings[idx[b]].TakenAt
			if ta.IsZero() {
				return false
			}
			return tb.IsZero() || ta.Before(tb)
		})
	}
	return groups
}

func (r *Runner) assess(ctx context.Context, rd model.EquipmentReading, eqCtx *model.EquipmentContext) (Result, error) {
	log := r.deps.Log.With(zap.String("equipment_id", rd.EquipmentID))

	at := rd.TakenAt
	if at.IsZero() {
		at = r.now()
	}
	res := Result{Reading: rd, AssessedAt: at}

	if r.deps.Cache != nil {
		cached, err := r.deps.Cache.Get(ctx, rd.EquipmentID)
		switch {
		case err == nil:
			s := cached.Signals(at)
			res.Signals = &s
		case errors.Is(err, store.ErrNotFound):
		default:
			log.Warn("runner: cache read failed", zap.Error(err))
		}
	}

	res.Assessment, res.Validation = engine.Assess(rd.Snapshot, engine.Options{
		Context:           eqCtx,
		Signals:           res.Signals,
		ApplyDependencies: r.cfg.ApplyDependencies,
	})
	if res.Assessment == nil {
		log.Warn("runner: reading rejected", zap.Strings("reasons", res.Validation.Reasons))
		r.record(res)
		return res, ctx.Err()
	}
	res.Anomaly = engine.ProjectAnomaly(res.Assessment)
	res.Twin = engine.ProjectDigitalTwin(res.Assessment)

	if r.deps.Cache != nil {
		err := r.deps.Cache.Put(ctx, store.CachedAnalytics{
			EquipmentID:        rd.EquipmentID,
			AssessedAt:         at,
			HealthScore:        res.Assessment.OverallHealthScore,
			MasterFaultIndex:   res.Assessment.MasterFaultIndex,
			RULHours:           res.Assessment.Reliability.RUL.Hours,
			FailureProbability: res.Assessment.FailureProbability.Probability,
			AnomalyScore:       res.Anomaly.Score,
		})
		if err != nil {
			log.Warn("runner: cache write failed", zap.Error(err))
		}
	}

	if r.deps.History != nil {
		id, err := r.deps.History.Save(ctx, rd.EquipmentID, at, res.Assessment)
		if err != nil {
			log.Warn("runner: history write failed", zap.Error(err))
		}
		res.HistoryID = id
	}

	log.Debug("runner: assessed",
		zap.Float64("health_score", res.Assessment.OverallHealthScore),
		zap.String("grade", res.Assessment.HealthGrade),
		zap.Float64("mfi", res.Assessment.MasterFaultIndex))
	r.record(res)
	return res, ctx.Err()
}

func (r *Runner) record(res Result) {
	if r.deps.Recorder != nil {
		r.deps.Recorder.Record(res)
	}
}
