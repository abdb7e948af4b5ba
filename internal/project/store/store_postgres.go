package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"statusline/internal/platform/postgres"
	"statusline/internal/project/models"
	"statusline/pkg/domain"
	"statusline/pkg/platform/sentinel"
	"statusline/pkg/platform/tx"
)

const projectColumns = `id, name, description, master_profile_id, objectives,
	sponsor_name, sponsor_role, sponsor_email, created_at, updated_at`

// PostgresStore persists projects in PostgreSQL. Risks and decisions
// reference projects with ON DELETE CASCADE.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, project *models.Project) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		project.ID.String(),
		project.Name,
		postgres.NullString(project.Description),
		project.MasterProfileID.String(),
		pq.Array(project.Objectives),
		postgres.NullString(project.SponsorName),
		postgres.NullString(project.SponsorRole),
		postgres.NullString(project.SponsorEmail),
		project.CreatedAt,
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ProjectID) (*models.Project, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id.String())
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find project by id: %w", err)
	}
	return project, nil
}

func (s *PostgresStore) Update(ctx context.Context, project *models.Project) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`UPDATE projects SET
			name = $2, description = $3, master_profile_id = $4, objectives = $5,
			sponsor_name = $6, sponsor_role = $7, sponsor_email = $8, updated_at = $9
		WHERE id = $1`,
		project.ID.String(),
		project.Name,
		postgres.NullString(project.Description),
		project.MasterProfileID.String(),
		pq.Array(project.Objectives),
		postgres.NullString(project.SponsorName),
		postgres.NullString(project.SponsorRole),
		postgres.NullString(project.SponsorEmail),
		project.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", postgres.TranslateError(err))
	}
	return requireRow(res, "update project")
}

func (s *PostgresStore) Delete(ctx context.Context, id domain.ProjectID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireRow(res, "delete project")
}

func (s *PostgresStore) List(ctx context.Context, q *models.ListProjectsQuery) ([]*models.Project, int, error) {
	exec := tx.ExecutorFrom(ctx, s.db)

	var total int
	if err := exec.QueryRowContext(ctx,
		`SELECT count(*) FROM projects WHERE master_profile_id = $1`,
		q.MasterProfileID.String()).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	rows, err := exec.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE master_profile_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		q.MasterProfileID.String(), q.Limit, q.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*models.Project, 0, q.Limit)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	return projects, total, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanProject(row postgres.Scanner) (*models.Project, error) {
	var (
		p                               models.Project
		id, masterProfileID             string
		description                     sql.NullString
		sponsorName, sponsorRole, email sql.NullString
		objectives                      pq.StringArray
	)
	if err := row.Scan(&id, &p.Name, &description, &masterProfileID, &objectives,
		&sponsorName, &sponsorRole, &email, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.ID = domain.ProjectID(id)
	p.MasterProfileID = domain.ProfileID(masterProfileID)
	p.Description = postgres.StringPtr(description)
	p.Objectives = postgres.Strings(objectives)
	p.SponsorName = postgres.StringPtr(sponsorName)
	p.SponsorRole = postgres.StringPtr(sponsorRole)
	p.SponsorEmail = postgres.StringPtr(email)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
