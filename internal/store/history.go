package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/dm/eams-go/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS eams_assessments (
	id                  UUID PRIMARY KEY,
	equipment_id        TEXT NOT NULL,
	assessed_at         TIMESTAMPTZ NOT NULL,
	health_score        DOUBLE PRECISION NOT NULL,
	health_grade        TEXT NOT NULL,
	master_fault_index  DOUBLE PRECISION NOT NULL,
	mtbf_hours          DOUBLE PRECISION NOT NULL,
	availability        DOUBLE PRECISION NOT NULL,
	rul_hours           DOUBLE PRECISION NOT NULL,
	failure_probability DOUBLE PRECISION NOT NULL,
	critical_failures   TEXT[] NOT NULL DEFAULT '{}',
	assessment          JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS eams_assessments_equipment_time
	ON eams_assessments (equipment_id, assessed_at DESC);`

// HistoryRecord is one persisted assessment summary.
type HistoryRecord struct {
	ID                 string
	EquipmentID        string
	AssessedAt         time.Time
	HealthScore        float64
	HealthGrade        string
	MasterFaultIndex   float64
	MTBFHours          float64
	Availability       float64
	RULHours           float64
	FailureProbability float64
	CriticalFailures   []string
}

// HistoryStore persists assessments to Postgres.
type HistoryStore struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// OpenHistory connects to Postgres using dsn and verifies the connection.
func OpenHistory(ctx context.Context, dsn string, log *zap.Logger) (*HistoryStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping postgres: %w", err)
	}
	return NewHistoryStore(db, log), nil
}

// NewHistoryStore wraps an open database handle.
func NewHistoryStore(db *sql.DB, log *zap.Logger) *HistoryStore {
	return &HistoryStore{db: db, log: log, now: time.Now}
}

// EnsureSchema creates the assessments table and index if they do not exist.
func (h *HistoryStore) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: ensure schema: %w", err)
	}
	return nil
}

// Save inserts a and returns the generated record ID. A zero assessedAt is
// replaced by the current time.
func (h *HistoryStore) Save(ctx context.Context, equipmentID string, assessedAt time.Time, a *model.MasterHealthAssessment) (string, error) {
	if a == nil {
		return "", fmt.Errorf("store: save %s: nil assessment", equipmentID)
	}
	if assessedAt.IsZero() {
		assessedAt = h.now()
	}

	body, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("store: encode assessment %s: %w", equipmentID, err)
	}

	critical := make([]string, len(a.CriticalFailures))
	for i, f := range a.CriticalFailures {
		critical[i] = string(f)
	}

	id := uuid.New().String()
	_, err = h.db.ExecContext(ctx, `
		INSERT INTO eams_assessments (
			id, equipment_id, assessed_at, health_score, health_grade,
			master_fault_index, mtbf_hours, availability, rul_hours,
			failure_probability, critical_failures, assessment
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, equipmentID, assessedAt, a.OverallHealthScore, a.HealthGrade,
		a.MasterFaultIndex, a.Reliability.MTBF, a.Reliability.Availability, a.Reliability.RUL.Hours,
		a.FailureProbability.Probability, pq.Array(critical), body,
	)
	if err != nil {
		return "", fmt.Errorf("store: insert assessment %s: %w", equipmentID, err)
	}

	h.log.Debug("store: saved assessment", zap.String("id", id), zap.String("equipment_id", equipmentID))
	return id, nil
}

// Recent returns up to limit records for equipmentID, newest first.
func (h *HistoryStore) Recent(ctx context.Context, equipmentID string, limit int) ([]HistoryRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, equipment_id, assessed_at, health_score, health_grade,
		       master_fault_index, mtbf_hours, availability, rul_hours,
		       failure_probability, critical_failures
		FROM eams_assessments
		WHERE equipment_id = $1
		ORDER BY assessed_at DESC
		LIMIT $2`, equipmentID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query history %s: %w", equipmentID, err)
	}
	defer rows.Close()

	var out []HistoryRecord
	for rows.Next() {
		var r HistoryRecord
		var critical pq.StringArray
		if err := rows.Scan(
			&r.ID, &r.EquipmentID, &r.AssessedAt, &r.HealthScore, &r.HealthGrade,
			&r.MasterFaultIndex, &r.MTBFHours, &r.Availability, &r.RULHours,
			&r.FailureProbability, &critical,
		); err != nil {
			return nil, fmt.Errorf("store: scan history %s: %w", equipmentID, err)
		}
		r.CriticalFailures = []string(critical)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate history %s: %w", equipmentID, err)
	}
	return out, nil
}

// HealthHistory loads up to limit records into a ring buffer, oldest first,
// so a dashboard can start with populated sparklines.
func (h *HistoryStore) HealthHistory(ctx context.Context, equipmentID string, limit int) (*model.HealthHistory, error) {
	records, err := h.Recent(ctx, equipmentID, limit)
	if err != nil {
		return nil, err
	}
	hist := model.NewHealthHistory(limit)
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		hist.Push(model.HealthPoint{
			Timestamp:          r.AssessedAt,
			HealthScore:        r.HealthScore,
			MasterFaultIndex:   r.MasterFaultIndex,
			RULHours:           r.RULHours,
			FailureProbability: r.FailureProbability,
		})
	}
	return hist, nil
}

// Close closes the database handle.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}
