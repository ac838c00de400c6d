package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dm/eams-go/internal/model"
)

func setupMockHistory(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *HistoryStore) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewHistoryStore(db, zap.NewNop())
}

func sampleAssessment() *model.MasterHealthAssessment {
	return &model.MasterHealthAssessment{
		MasterFaultIndex:   4.2,
		OverallHealthScore: 61.3,
		HealthGrade:        "C",
		CriticalFailures:   []model.FailureType{model.FailureUnbalance},
		Reliability: model.ReliabilityMetrics{
			MTBF:         2400,
			Availability: 98.9,
			RUL:          model.RULEstimate{Hours: 900},
		},
		FailureProbability: model.FailureProbability{Probability: 0.31},
	}
}

var historyColumns = []string{
	"id", "equipment_id", "assessed_at", "health_score", "health_grade",
	"master_fault_index", "mtbf_hours", "availability", "rul_hours",
	"failure_probability", "critical_failures",
}

func TestHistoryStore_EnsureSchema(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS eams_assessments`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, h.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_EnsureSchemaError(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("permission denied"))

	err := h.EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "permission denied")
}

func TestHistoryStore_Save(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	at := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO eams_assessments`).
		WithArgs(sqlmock.AnyArg(), "P-101", at, 61.3, "C", 4.2, 2400.0, 98.9, 900.0, 0.31,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := h.Save(context.Background(), "P-101", at, sampleAssessment())
	require.NoError(t, err)
	assert.Len(t, id, 36)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_SaveDefaultsTimestamp(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	now := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	mock.ExpectExec(`INSERT INTO eams_assessments`).
		WithArgs(sqlmock.AnyArg(), "P-101", now, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := h.Save(context.Background(), "P-101", time.Time{}, sampleAssessment())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_SaveErrors(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	_, err := h.Save(context.Background(), "P-101", time.Now(), nil)
	assert.ErrorContains(t, err, "nil assessment")

	mock.ExpectExec(`INSERT INTO eams_assessments`).WillReturnError(errors.New("connection reset"))
	_, err = h.Save(context.Background(), "P-101", time.Now(), sampleAssessment())
	assert.ErrorContains(t, err, "connection reset")
}

func TestHistoryStore_Recent(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	newer := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	rows := sqlmock.NewRows(historyColumns).
		AddRow("id-2", "P-101", newer, 61.3, "C", 4.2, 2400.0, 98.9, 900.0, 0.31, "{Unbalance}").
		AddRow("id-1", "P-101", older, 88.0, "B", 1.1, 9000.0, 99.7, 6000.0, 0.05, "{}")

	mock.ExpectQuery(`SELECT (.+) FROM eams_assessments`).
		WithArgs("P-101", 10).
		WillReturnRows(rows)

	records, err := h.Recent(context.Background(), "P-101", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "id-2", records[0].ID)
	assert.Equal(t, []string{"Unbalance"}, records[0].CriticalFailures)
	assert.Empty(t, records[1].CriticalFailures)
	assert.InDelta(t, 88.0, records[1].HealthScore, 1e-9)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_RecentZeroLimit(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	records, err := h.Recent(context.Background(), "P-101", 0)
	require.NoError(t, err)
	assert.Nil(t, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryStore_RecentQueryError(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrConnDone)

	_, err := h.Recent(context.Background(), "P-101", 5)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestHistoryStore_HealthHistory(t *testing.T) {
	db, mock, h := setupMockHistory(t)
	defer db.Close()

	newer := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(historyColumns).
		AddRow("id-2", "P-101", newer, 61.3, "C", 4.2, 2400.0, 98.9, 900.0, 0.31, "{}").
		AddRow("id-1", "P-101", newer.Add(-time.Hour), 88.0, "B", 1.1, 9000.0, 99.7, 6000.0, 0.05, "{}")
	mock.ExpectQuery(`SELECT`).WithArgs("P-101", 5).WillReturnRows(rows)

	hist, err := h.HealthHistory(context.Background(), "P-101", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, hist.Len())
	assert.Equal(t, []float64{88.0, 61.3}, hist.Values("healthScore"))

	latest, ok := hist.Latest()
	require.True(t, ok)
	assert.True(t, latest.Timestamp.Equal(newer))
}
