package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusline/internal/decision/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/validation"
)

var decisionRowColumns = []string{
	"id", "project_id", "description", "context", "decided_by", "outcome", "decided_at",
	"status", "tags", "created_at", "updated_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresFindByIDScansNullables(t *testing.T) {
	store, mock := newMockStore(t)
	created := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	decided := created.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("FROM decisions WHERE id = $1")).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows(decisionRowColumns).AddRow(
			"d1", "c1", "Adopt weekly cadence", nil, "u1", "weekly", decided,
			"DECIDED", "{ops,ops}", created, created,
		))

	d, err := store.FindByID(context.Background(), "d1")
	require.NoError(t, err)
	assert.Nil(t, d.Context)
	assert.Equal(t, "u1", *d.DecidedBy)
	assert.Equal(t, "weekly", *d.Outcome)
	assert.True(t, decided.Equal(*d.DecidedAt))
	assert.Equal(t, []string{"ops", "ops"}, d.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateConflict(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE decisions SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("d1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	d := &models.Decision{ID: "d1", ProjectID: "c1", Status: domain.DecisionStatusDecided, Tags: []string{}}
	assert.ErrorIs(t, store.Update(context.Background(), d, domain.DecisionStatusPending), sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListWithoutFilter(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM decisions")).
		WithArgs("c1", nil).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $3 OFFSET $4")).
		WithArgs("c1", nil, 50, 0).
		WillReturnRows(sqlmock.NewRows(decisionRowColumns))

	items, total, err := store.List(context.Background(), &models.ListDecisionsQuery{
		ProjectID: "c1",
		Page:      validation.Page{Limit: 50},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}
