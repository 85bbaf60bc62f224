package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinai-labs/server/internal/domain/pipelines"
)

var _ pipelines.Repository = (*PipelineRepository)(nil)

type PipelineRepository struct {
	pool *pgxpool.Pool
}

func NewPipelineRepository(pool *pgxpool.Pool) *PipelineRepository {
	return &PipelineRepository{pool: pool}
}

func (r *PipelineRepository) Create(ctx context.Context, projectID uuid.UUID, yamlConfig string) (*pipelines.Pipeline, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO pipelines (project_id, yaml_config)
VALUES ($1, $2)
RETURNING id, project_id, yaml_config, created_at
`, projectID, yamlConfig)

	pipeline, err := scanPipeline(row)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	return pipeline, nil
}

func (r *PipelineRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]pipelines.Pipeline, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, project_id, yaml_config, created_at
  FROM pipelines
 WHERE project_id = $1
 ORDER BY created_at DESC
`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	defer rows.Close()

	list := []pipelines.Pipeline{}
	for rows.Next() {
		pipeline, err := scanPipeline(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pipeline: %w", err)
		}
		list = append(list, *pipeline)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	return list, nil
}

func scanPipeline(row pgx.Row) (*pipelines.Pipeline, error) {
	var pipeline pipelines.Pipeline
	if err := row.Scan(&pipeline.ID, &pipeline.ProjectID, &pipeline.YAMLConfig, &pipeline.CreatedAt); err != nil {
		return nil, err
	}
	return &pipeline, nil
}
