package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinai-labs/server/internal/domain/security"
)

var _ security.Repository = (*FindingRepository)(nil)

type FindingRepository struct {
	pool *pgxpool.Pool
}

func NewFindingRepository(pool *pgxpool.Pool) *FindingRepository {
	return &FindingRepository{pool: pool}
}

func (r *FindingRepository) Create(ctx context.Context, params security.CreateParams) (*security.Finding, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO security_findings (project_id, severity, description)
VALUES ($1, $2, $3)
RETURNING id, project_id, severity, description, resolved, created_at
`, params.ProjectID, params.Severity, params.Description)

	finding, err := scanFinding(row)
	if err != nil {
		return nil, fmt.Errorf("create finding: %w", err)
	}
	return finding, nil
}

func (r *FindingRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]security.Finding, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, project_id, severity, description, resolved, created_at
  FROM security_findings
 WHERE project_id = $1
 ORDER BY created_at DESC
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	defer rows.Close()

	list := []security.Finding{}
	for rows.Next() {
		finding, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		list = append(list, *finding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	return list, nil
}

func scanFinding(row pgx.Row) (*security.Finding, error) {
	var finding security.Finding
	if err := row.Scan(
		&finding.ID,
		&finding.ProjectID,
		&finding.Severity,
		&finding.Description,
		&finding.Resolved,
		&finding.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &finding, nil
}
