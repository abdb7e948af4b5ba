package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusline/internal/risk/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
)

var riskRowColumns = []string{
	"id", "project_id", "description", "impact", "mitigation", "severity", "status",
	"review_date", "resolved_at", "tags", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresCreateTranslatesForeignKey(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO risks")).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "risks_project_id_fkey"})

	now := time.Now().UTC()
	err := store.Create(context.Background(), &models.Risk{
		ID: "r1", ProjectID: "missing", Severity: domain.SeverityLow,
		Status: domain.RiskStatusOpen, Tags: []string{}, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, sentinel.ErrInvalidReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM risks WHERE id = $1")).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(riskRowColumns).AddRow(
			"r1", "c1", "Vendor delay", "2-week slip", nil, "HIGH", "OPEN",
			nil, nil, "{vendor,schedule}", created, created,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM risks WHERE id = $1")).
		WithArgs("r2").
		WillReturnRows(sqlmock.NewRows(riskRowColumns))

	risk, err := store.FindByID(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RiskStatusOpen, risk.Status)
	assert.Equal(t, []string{"vendor", "schedule"}, risk.Tags)
	assert.Nil(t, risk.Mitigation)
	assert.Nil(t, risk.ResolvedAt)

	_, err = store.FindByID(context.Background(), "r2")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateDistinguishesConflictFromMissing(t *testing.T) {
	risk := &models.Risk{
		ID: "r1", ProjectID: "c1", Severity: domain.SeverityLow,
		Status: domain.RiskStatusMonitoring, Tags: []string{}, UpdatedAt: time.Now().UTC(),
	}

	t.Run("applied", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE risks SET")).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, store.Update(context.Background(), risk, domain.RiskStatusOpen))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status moved underneath", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE risks SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WithArgs("r1").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		assert.ErrorIs(t, store.Update(context.Background(), risk, domain.RiskStatusOpen), sentinel.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deleted underneath", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE risks SET")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.ErrorIs(t, store.Update(context.Background(), risk, domain.RiskStatusOpen), sentinel.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresDelete(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM risks WHERE id = $1")).
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Delete(context.Background(), "r1"), sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresList(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM risks")).
		WithArgs("c1", sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC")).
		WithArgs("c1", sqlmock.AnyArg(), nil, 1, 2).
		WillReturnRows(sqlmock.NewRows(riskRowColumns).AddRow(
			"r1", "c1", "d", "i", "plan", "LOW", "OPEN",
			nil, nil, "{}", created, created,
		))

	items, total, err := store.List(context.Background(), &models.ListRisksQuery{
		ProjectID: "c1",
		Statuses:  []domain.RiskStatus{domain.RiskStatusOpen},
		Page:      validation.Page{Limit: 1, Offset: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Mitigation)
	assert.Equal(t, "plan", *items[0].Mitigation)
	assert.Equal(t, []string{}, items[0].Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}
