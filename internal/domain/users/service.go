// Package users manages the accounts provisioned from the external
// identity provider.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sentinai-labs/server/internal/github"
)

// ErrNotFound is returned when no user matches the lookup.
var ErrNotFound = errors.New("user not found")

// User is an account provisioned from a GitHub identity.
type User struct {
	ID        uuid.UUID `json:"id"`
	GitHubID  int64     `json:"github_id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateParams contains the fields needed to provision a new user.
type CreateParams struct {
	GitHubID int64
	Username string
	Email    *string
}

// Repository is the persistence surface the service needs.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByGitHubID(ctx context.Context, githubID int64) (*User, error)
	Create(ctx context.Context, params CreateParams) (*User, error)
}

// Service handles user lookup and first-login provisioning.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

// FindByID resolves a session token subject to its stored user.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// FindOrCreate returns the user matching a GitHub profile, provisioning
// the account on first login.
func (s *Service) FindOrCreate(ctx context.Context, profile github.Profile) (*User, error) {
	user, err := s.repo.FindByGitHubID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("find user by github id: %w", err)
	}

	user, err = s.repo.Create(ctx, CreateParams{
		GitHubID: profile.ID,
		Username: profile.Login,
		Email:    profile.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("provisioned user from github profile")
	return user, nil
}
