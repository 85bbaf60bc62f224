// Package projects manages repositories registered for CI generation
// and security scanning. Every operation is scoped to the owning user;
// a project owned by someone else is indistinguishable from a missing
// one so that existence never leaks across accounts.
package projects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a project does not exist or is not owned
// by the requesting user.
var ErrNotFound = errors.New("project not found")

// ValidationError reports an invalid field in a create request.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type Project struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	Name          string    `json:"name"`
	RepositoryURL string    `json:"repository_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateParams contains the fields needed to register a project.
type CreateParams struct {
	UserID        uuid.UUID
	Name          string
	RepositoryURL string
}

// Repository is the persistence surface the service needs.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Project, error)
	List(ctx context.Context, userID uuid.UUID) ([]Project, error)
	Get(ctx context.Context, id, userID uuid.UUID) (*Project, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, name, repositoryURL string) (*Project, error) {
	name = strings.TrimSpace(name)
	repositoryURL = strings.TrimSpace(repositoryURL)
	if name == "" {
		return nil, ValidationError{Field: "name", Message: "must not be empty"}
	}
	if repositoryURL == "" {
		return nil, ValidationError{Field: "repository_url", Message: "must not be empty"}
	}

	project, err := s.repo.Create(ctx, CreateParams{
		UserID:        userID,
		Name:          name,
		RepositoryURL: repositoryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// List returns the user's projects, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Project, error) {
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return list, nil
}

// Get returns the project only if it is owned by the given user.
func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*Project, error) {
	project, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// Delete removes the project only if it is owned by the given user.
func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
