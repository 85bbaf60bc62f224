package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sentinai-labs/server/internal/github"
)

type stubRepo struct {
	findByIDFn       func(id uuid.UUID) (*User, error)
	findByGitHubIDFn func(githubID int64) (*User, error)
	createFn         func(params CreateParams) (*User, error)
}

func (s stubRepo) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	return s.findByIDFn(id)
}

func (s stubRepo) FindByGitHubID(_ context.Context, githubID int64) (*User, error) {
	return s.findByGitHubIDFn(githubID)
}

func (s stubRepo) Create(_ context.Context, params CreateParams) (*User, error) {
	return s.createFn(params)
}

func TestFindOrCreateReturnsExistingUser(t *testing.T) {
	existing := &User{ID: uuid.New(), GitHubID: 42, Username: "octocat"}
	repo := stubRepo{
		findByGitHubIDFn: func(githubID int64) (*User, error) {
			require.Equal(t, int64(42), githubID)
			return existing, nil
		},
		createFn: func(CreateParams) (*User, error) {
			t.Fatal("create should not be called for an existing user")
			return nil, nil
		},
	}

	svc := NewService(repo, zerolog.Nop())
	user, err := svc.FindOrCreate(context.Background(), github.Profile{ID: 42, Login: "octocat"})
	require.NoError(t, err)
	require.Equal(t, existing, user)
}

func TestFindOrCreateProvisionsNewUser(t *testing.T) {
	email := "octocat@example.com"
	repo := stubRepo{
		findByGitHubIDFn: func(int64) (*User, error) {
			return nil, ErrNotFound
		},
		createFn: func(params CreateParams) (*User, error) {
			require.Equal(t, int64(42), params.GitHubID)
			require.Equal(t, "octocat", params.Username)
			require.NotNil(t, params.Email)
			return &User{ID: uuid.New(), GitHubID: params.GitHubID, Username: params.Username, Email: params.Email}, nil
		},
	}

	svc := NewService(repo, zerolog.Nop())
	user, err := svc.FindOrCreate(context.Background(), github.Profile{ID: 42, Login: "octocat", Email: &email})
	require.NoError(t, err)
	require.Equal(t, "octocat", user.Username)
}

func TestFindOrCreatePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	repo := stubRepo{
		findByGitHubIDFn: func(int64) (*User, error) {
			return nil, storeErr
		},
	}

	svc := NewService(repo, zerolog.Nop())
	_, err := svc.FindOrCreate(context.Background(), github.Profile{ID: 1, Login: "x"})
	require.ErrorIs(t, err, storeErr)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := stubRepo{
		findByIDFn: func(uuid.UUID) (*User, error) {
			return nil, ErrNotFound
		},
	}

	svc := NewService(repo, zerolog.Nop())
	_, err := svc.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
