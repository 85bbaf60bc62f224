package handlers

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/domain/pipelines"
	"github.com/sentinai-labs/server/internal/domain/projects"
	"github.com/sentinai-labs/server/internal/domain/security"
	"github.com/sentinai-labs/server/internal/domain/users"
	"github.com/sentinai-labs/server/internal/github"
)

// In-memory repositories shared by the handler tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*users.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*users.User)}
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, users.ErrNotFound
}

func (r *memUserRepo) FindByGitHubID(_ context.Context, githubID int64) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.GitHubID == githubID {
			return user, nil
		}
	}
	return nil, users.ErrNotFound
}

func (r *memUserRepo) Create(_ context.Context, params users.CreateParams) (*users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user := &users.User{
		ID:       uuid.New(),
		GitHubID: params.GitHubID,
		Username: params.Username,
		Email:    params.Email,
	}
	r.users[user.ID] = user
	return user, nil
}

type memProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*projects.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{projects: make(map[uuid.UUID]*projects.Project)}
}

func (r *memProjectRepo) Create(_ context.Context, params projects.CreateParams) (*projects.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project := &projects.Project{
		ID:            uuid.New(),
		UserID:        params.UserID,
		Name:          params.Name,
		RepositoryURL: params.RepositoryURL,
	}
	r.projects[project.ID] = project
	return project, nil
}

func (r *memProjectRepo) List(_ context.Context, userID uuid.UUID) ([]projects.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := []projects.Project{}
	for _, project := range r.projects {
		if project.UserID == userID {
			list = append(list, *project)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *memProjectRepo) Get(_ context.Context, id, userID uuid.UUID) (*projects.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok || project.UserID != userID {
		return nil, projects.ErrNotFound
	}
	return project, nil
}

func (r *memProjectRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.projects[id]
	if !ok || project.UserID != userID {
		return projects.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type memPipelineRepo struct {
	mu        sync.Mutex
	pipelines []pipelines.Pipeline
}

func (r *memPipelineRepo) Create(_ context.Context, projectID uuid.UUID, yamlConfig string) (*pipelines.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pipeline := pipelines.Pipeline{ID: uuid.New(), ProjectID: projectID, YAMLConfig: yamlConfig}
	r.pipelines = append(r.pipelines, pipeline)
	return &pipeline, nil
}

func (r *memPipelineRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]pipelines.Pipeline, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := []pipelines.Pipeline{}
	for i := len(r.pipelines) - 1; i >= 0; i-- {
		if r.pipelines[i].ProjectID == projectID {
			list = append(list, r.pipelines[i])
		}
	}
	return list, nil
}

type memFindingRepo struct {
	mu       sync.Mutex
	findings []security.Finding
}

func (r *memFindingRepo) Create(_ context.Context, params security.CreateParams) (*security.Finding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	finding := security.Finding{
		ID:          uuid.New(),
		ProjectID:   params.ProjectID,
		Severity:    params.Severity,
		Description: params.Description,
	}
	r.findings = append(r.findings, finding)
	return &finding, nil
}

func (r *memFindingRepo) ListByProject(_ context.Context, projectID uuid.UUID) ([]security.Finding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := []security.Finding{}
	for i := len(r.findings) - 1; i >= 0; i-- {
		if r.findings[i].ProjectID == projectID {
			list = append(list, r.findings[i])
		}
	}
	return list, nil
}

type stubProvider struct {
	fetchFn func(accessToken string) (github.Profile, error)
}

func (s stubProvider) FetchProfile(_ context.Context, accessToken string) (github.Profile, error) {
	return s.fetchFn(accessToken)
}

// asUser injects the user the way the auth guard would, so handlers can
// be exercised without a token.
func asUser(user *users.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.ContextWithUser(r.Context(), user)))
	})
}
