package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"statusline/internal/decision/models"
	"statusline/internal/platform/postgres"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/tx"
)

const decisionColumns = `id, project_id, description, context, decided_by, outcome, decided_at,
	status, tags, created_at, updated_at`

// PostgresStore persists decisions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, d *models.Decision) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO decisions (`+decisionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID.String(),
		d.ProjectID.String(),
		d.Description,
		postgres.NullString(d.Context),
		postgres.NullString(d.DecidedBy),
		postgres.NullString(d.Outcome),
		postgres.NullTime(d.DecidedAt),
		string(d.Status),
		pq.Array(d.Tags),
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DecisionID) (*models.Decision, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+decisionColumns+` FROM decisions WHERE id = $1`, id.String())
	d, err := scanDecision(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find decision by id: %w", err)
	}
	return d, nil
}

// Update writes d only while the stored status still equals expected.
func (s *PostgresStore) Update(ctx context.Context, d *models.Decision, expected domain.DecisionStatus) error {
	exec := tx.ExecutorFrom(ctx, s.db)
	res, err := exec.ExecContext(ctx,
		`UPDATE decisions SET
			project_id = $3, description = $4, context = $5, decided_by = $6,
			outcome = $7, decided_at = $8, status = $9, tags = $10, updated_at = $11
		WHERE id = $1 AND status = $2`,
		d.ID.String(),
		string(expected),
		d.ProjectID.String(),
		d.Description,
		postgres.NullString(d.Context),
		postgres.NullString(d.DecidedBy),
		postgres.NullString(d.Outcome),
		postgres.NullTime(d.DecidedAt),
		string(d.Status),
		pq.Array(d.Tags),
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update decision: %w", postgres.TranslateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update decision: %w", err)
	}
	if n == 1 {
		return nil
	}
	var exists bool
	if err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM decisions WHERE id = $1)`, d.ID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check decision: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.DecisionID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM decisions WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete decision: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete decision: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByProject(ctx context.Context, projectID domain.ProjectID) error {
	if _, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM decisions WHERE project_id = $1`, projectID.String()); err != nil {
		return fmt.Errorf("delete decisions by project: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, q *models.ListDecisionsQuery) ([]*models.Decision, int, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	where := `WHERE project_id = $1 AND ($2::text[] IS NULL OR status = ANY($2))`
	args := []any{q.ProjectID.String(), postgres.TextArray(q.Statuses)}

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT count(*) FROM decisions `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count decisions: %w", err)
	}

	rows, err := exec.QueryContext(ctx,
		`SELECT `+decisionColumns+` FROM decisions `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	decisions := make([]*models.Decision, 0, q.Limit)
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list decisions: %w", err)
	}
	return decisions, total, nil
}

func scanDecision(row postgres.Scanner) (*models.Decision, error) {
	var (
		d                              models.Decision
		id, projectID, status          string
		background, decidedBy, outcome sql.NullString
		decidedAt                      sql.NullTime
		tags                           pq.StringArray
	)
	if err := row.Scan(&id, &projectID, &d.Description, &background, &decidedBy, &outcome, &decidedAt,
		&status, &tags, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ID = domain.DecisionID(id)
	d.ProjectID = domain.ProjectID(projectID)
	d.Status = domain.DecisionStatus(status)
	d.Context = postgres.StringPtr(background)
	d.DecidedBy = postgres.StringPtr(decidedBy)
	d.Outcome = postgres.StringPtr(outcome)
	d.DecidedAt = postgres.TimePtr(decidedAt)
	d.Tags = postgres.Strings(tags)
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}
