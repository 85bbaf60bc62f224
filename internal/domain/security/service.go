// Package security records scan findings for registered projects. The
// scan itself is a placeholder: it stores a fixed finding set rather
// than running any real analysis.
package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentinai-labs/server/internal/events"
)

// Finding is one recorded security issue on a project.
type Finding struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Severity    string    `json:"severity"`
	Description string    `json:"description"`
	Resolved    bool      `json:"resolved"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateParams contains the fields needed to record a finding.
type CreateParams struct {
	ProjectID   uuid.UUID
	Severity    string
	Description string
}

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Finding, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]Finding, error)
}

// mockFindings is the fixed set a scan records until real analysis
// exists.
var mockFindings = []struct {
	severity    string
	description string
}{
	{"high", "Detected outdated dependency with known vulnerabilities"},
	{"medium", "Missing security headers in API response"},
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
		logger: logger.With().Str("component", "security").Logger(),
	}
}

// Scan records the mock finding set for the project and announces each
// stored finding on the event bus. Findings are written one at a time;
// a failure partway leaves the earlier findings stored.
func (s *Service) Scan(ctx context.Context, projectID uuid.UUID) ([]Finding, error) {
	results := make([]Finding, 0, len(mockFindings))

	for _, mock := range mockFindings {
		s.logger.Warn().
			Str("project_id", projectID.String()).
			Str("severity", mock.severity).
			Str("finding", mock.description).
			Msg("vulnerability found")

		finding, err := s.repo.Create(ctx, CreateParams{
			ProjectID:   projectID,
			Severity:    mock.severity,
			Description: mock.description,
		})
		if err != nil {
			return nil, fmt.Errorf("create finding: %w", err)
		}

		s.bus.Publish(events.SecurityFindingCreated{
			ProjectID:   projectID,
			FindingID:   finding.ID,
			Severity:    finding.Severity,
			Description: finding.Description,
		})

		results = append(results, *finding)
	}

	return results, nil
}

// List returns the project's findings, newest first.
func (s *Service) List(ctx context.Context, projectID uuid.UUID) ([]Finding, error) {
	list, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	return list, nil
}
