package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"statusline/internal/platform/postgres"
	"statusline/internal/risk/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/tx"
)

const riskColumns = `id, project_id, description, impact, mitigation, severity, status,
	review_date, resolved_at, tags, created_at, updated_at`

// PostgresStore persists risks in PostgreSQL. Queries join the transaction
// carried in the context, if any.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed risk store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, risk *models.Risk) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO risks (`+riskColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		risk.ID.String(),
		risk.ProjectID.String(),
		risk.Description,
		risk.Impact,
		postgres.NullString(risk.Mitigation),
		string(risk.Severity),
		string(risk.Status),
		postgres.NullTime(risk.ReviewDate),
		postgres.NullTime(risk.ResolvedAt),
		pq.Array(risk.Tags),
		risk.CreatedAt,
		risk.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert risk: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.RiskID) (*models.Risk, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+riskColumns+` FROM risks WHERE id = $1`, id.String())
	risk, err := scanRisk(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find risk by id: %w", err)
	}
	return risk, nil
}

// Update writes risk only while the stored status still equals expected.
// A miss is classified as not found or conflict with a follow-up lookup.
func (s *PostgresStore) Update(ctx context.Context, risk *models.Risk, expected domain.RiskStatus) error {
	exec := tx.ExecutorFrom(ctx, s.db)
	res, err := exec.ExecContext(ctx,
		`UPDATE risks SET
			project_id = $3, description = $4, impact = $5, mitigation = $6,
			severity = $7, status = $8, review_date = $9, resolved_at = $10,
			tags = $11, updated_at = $12
		WHERE id = $1 AND status = $2`,
		risk.ID.String(),
		string(expected),
		risk.ProjectID.String(),
		risk.Description,
		risk.Impact,
		postgres.NullString(risk.Mitigation),
		string(risk.Severity),
		string(risk.Status),
		postgres.NullTime(risk.ReviewDate),
		postgres.NullTime(risk.ResolvedAt),
		pq.Array(risk.Tags),
		risk.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update risk: %w", postgres.TranslateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update risk: %w", err)
	}
	if n == 1 {
		return nil
	}
	var exists bool
	if err := exec.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM risks WHERE id = $1)`, risk.ID.String()).Scan(&exists); err != nil {
		return fmt.Errorf("check risk: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.RiskID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM risks WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete risk: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete risk: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// DeleteByProject removes every risk owned by projectID.
func (s *PostgresStore) DeleteByProject(ctx context.Context, projectID domain.ProjectID) error {
	if _, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM risks WHERE project_id = $1`, projectID.String()); err != nil {
		return fmt.Errorf("delete risks by project: %w", err)
	}
	return nil
}

// List returns the requested page of matching risks, newest first, and the
// number of matches overall. Empty filters are passed as NULL arrays.
func (s *PostgresStore) List(ctx context.Context, q *models.ListRisksQuery) ([]*models.Risk, int, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	where := `WHERE project_id = $1
		AND ($2::text[] IS NULL OR status = ANY($2))
		AND ($3::text[] IS NULL OR severity = ANY($3))`
	args := []any{q.ProjectID.String(), postgres.TextArray(q.Statuses), postgres.TextArray(q.Severities)}

	var total int
	if err := exec.QueryRowContext(ctx, `SELECT count(*) FROM risks `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count risks: %w", err)
	}

	rows, err := exec.QueryContext(ctx,
		`SELECT `+riskColumns+` FROM risks `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`,
		append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list risks: %w", err)
	}
	defer rows.Close()

	risks := make([]*models.Risk, 0, q.Limit)
	for rows.Next() {
		risk, err := scanRisk(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan risk: %w", err)
		}
		risks = append(risks, risk)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list risks: %w", err)
	}
	return risks, total, nil
}

func scanRisk(row postgres.Scanner) (*models.Risk, error) {
	var (
		r                      models.Risk
		id, projectID          string
		severity, status       string
		mitigation             sql.NullString
		reviewDate, resolvedAt sql.NullTime
		tags                   pq.StringArray
	)
	if err := row.Scan(&id, &projectID, &r.Description, &r.Impact, &mitigation, &severity, &status,
		&reviewDate, &resolvedAt, &tags, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	r.ID = domain.RiskID(id)
	r.ProjectID = domain.ProjectID(projectID)
	r.Severity = domain.Severity(severity)
	r.Status = domain.RiskStatus(status)
	r.Mitigation = postgres.StringPtr(mitigation)
	r.ReviewDate = postgres.TimePtr(reviewDate)
	r.ResolvedAt = postgres.TimePtr(resolvedAt)
	r.Tags = postgres.Strings(tags)
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return &r, nil
}
