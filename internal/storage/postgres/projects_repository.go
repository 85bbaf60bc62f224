package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinai-labs/server/internal/domain/projects"
)

var _ projects.Repository = (*ProjectRepository)(nil)

type ProjectRepository struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func (r *ProjectRepository) Create(ctx context.Context, params projects.CreateParams) (*projects.Project, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO projects (user_id, name, repository_url)
VALUES ($1, $2, $3)
RETURNING id, user_id, name, repository_url, created_at
`, params.UserID, params.Name, params.RepositoryURL)

	project, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (r *ProjectRepository) List(ctx context.Context, userID uuid.UUID) ([]projects.Project, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, name, repository_url, created_at
  FROM projects
 WHERE user_id = $1
 ORDER BY created_at DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := []projects.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, *project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return list, nil
}

// Get looks up a project by id and owner in one query; a foreign-owned
// project is reported exactly like a missing one.
func (r *ProjectRepository) Get(ctx context.Context, id, userID uuid.UUID) (*projects.Project, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, user_id, name, repository_url, created_at
  FROM projects
 WHERE id = $1 AND user_id = $2
`, id, userID)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, projects.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM projects
 WHERE id = $1 AND user_id = $2
`, id, userID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return projects.ErrNotFound
	}
	return nil
}

func scanProject(row pgx.Row) (*projects.Project, error) {
	var project projects.Project
	if err := row.Scan(&project.ID, &project.UserID, &project.Name, &project.RepositoryURL, &project.CreatedAt); err != nil {
		return nil, err
	}
	return &project, nil
}
