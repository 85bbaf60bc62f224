// Package pipelines generates and stores placeholder CI workflow
// configurations for registered projects.
package pipelines

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentinai-labs/server/internal/events"
)

// Pipeline is a generated CI configuration attached to a project.
type Pipeline struct {
	ID         uuid.UUID `json:"id"`
	ProjectID  uuid.UUID `json:"project_id"`
	YAMLConfig string    `json:"yaml_config"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, projectID uuid.UUID, yamlConfig string) (*Pipeline, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Pipeline, error)
}

type Service struct {
	repo   Repository
	bus    *events.Bus
	logger zerolog.Logger
}

func NewService(repo Repository, bus *events.Bus, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger.With().Str("component", "pipelines").Logger(),
	}
}

// Generate detects the project type, renders the matching workflow,
// stores the pipeline, and announces it on the event bus. The publish
// happens after the write has succeeded; delivery is best-effort.
func (s *Service) Generate(ctx context.Context, projectID uuid.UUID, repositoryURL string) (*Pipeline, error) {
	projectType := DetectProjectType(repositoryURL)

	yamlConfig, err := RenderWorkflow(projectType)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.repo.Create(ctx, projectID, yamlConfig)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}

	s.bus.Publish(events.PipelineCreated{
		ProjectID:  projectID,
		PipelineID: pipeline.ID,
	})

	s.logger.Info().
		Str("project_id", projectID.String()).
		Str("pipeline_id", pipeline.ID.String()).
		Str("project_type", string(projectType)).
		Int("config_bytes", len(yamlConfig)).
		Msg("generated ci pipeline")
	return pipeline, nil
}

// List returns the project's pipelines, newest first.
func (s *Service) List(ctx context.Context, projectID uuid.UUID) ([]Pipeline, error) {
	list, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list pipelines: %w", err)
	}
	return list, nil
}
