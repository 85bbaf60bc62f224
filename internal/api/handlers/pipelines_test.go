package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sentinai-labs/server/internal/domain/pipelines"
	"github.com/sentinai-labs/server/internal/domain/projects"
	"github.com/sentinai-labs/server/internal/domain/security"
	"github.com/sentinai-labs/server/internal/domain/users"
	"github.com/sentinai-labs/server/internal/events"
)

type fixture struct {
	bus       *events.Bus
	projects  *projects.Service
	pipelines *PipelinesHandler
	security  *SecurityHandler
	stream    *StreamHandler
	owner     *users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	bus := events.NewBus(events.DefaultCapacity)
	t.Cleanup(bus.Close)

	projectService := projects.NewService(newMemProjectRepo())
	pipelineService := pipelines.NewService(&memPipelineRepo{}, bus, zerolog.Nop())
	securityService := security.NewService(&memFindingRepo{}, bus, zerolog.Nop())

	return &fixture{
		bus:       bus,
		projects:  projectService,
		pipelines: NewPipelinesHandler(pipelineService, projectService, "test"),
		security:  NewSecurityHandler(securityService, projectService, "test"),
		stream:    NewStreamHandler(bus, projectService, "test"),
		owner:     &users.User{ID: uuid.New(), Username: "octocat"},
	}
}

func (f *fixture) createProject(t *testing.T, name, repositoryURL string) *projects.Project {
	t.Helper()

	project, err := f.projects.Create(context.Background(), f.owner.ID, name, repositoryURL)
	require.NoError(t, err)
	return project
}

func postWithID(handler http.HandlerFunc, user *users.User, path, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	asUser(user, handler).ServeHTTP(rec, req)
	return rec
}

func getWithID(handler http.HandlerFunc, user *users.User, path, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	asUser(user, handler).ServeHTTP(rec, req)
	return rec
}

func TestGeneratePipeline(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "api", "https://github.com/acme/api-go")

	sub := f.bus.Subscribe()
	defer sub.Close()

	rec := postWithID(f.pipelines.Generate, f.owner, "/api/v1/projects/x/generate-ci", project.ID.String())
	require.Equal(t, http.StatusCreated, rec.Code)

	var pipeline pipelines.Pipeline
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pipeline))
	require.Equal(t, project.ID, pipeline.ProjectID)
	require.Contains(t, pipeline.YAMLConfig, "Sentinai Go CI")

	evt := <-sub.Events()
	require.Equal(t, events.PipelineCreated{ProjectID: project.ID, PipelineID: pipeline.ID}, evt)
}

func TestGenerateForeignProjectLooksMissing(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "api", "https://github.com/acme/api")
	intruder := &users.User{ID: uuid.New(), Username: "intruder"}

	rec := postWithID(f.pipelines.Generate, intruder, "/api/v1/projects/x/generate-ci", project.ID.String())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPipelines(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "api", "https://github.com/acme/api-go")

	rec := postWithID(f.pipelines.Generate, f.owner, "/api/v1/projects/x/generate-ci", project.ID.String())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = getWithID(f.pipelines.List, f.owner, "/api/v1/projects/x/pipelines", project.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var list []pipelines.Pipeline
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
}

func TestScanRecordsFindings(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "api", "https://github.com/acme/api")

	rec := postWithID(f.security.Scan, f.owner, "/api/v1/projects/x/security/scan", project.ID.String())
	require.Equal(t, http.StatusCreated, rec.Code)

	var findings []security.Finding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &findings))
	require.Len(t, findings, 2)
	require.Equal(t, "high", findings[0].Severity)
	require.Equal(t, "medium", findings[1].Severity)

	rec = getWithID(f.security.List, f.owner, "/api/v1/projects/x/security", project.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []security.Finding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
}

func TestScanForeignProjectLooksMissing(t *testing.T) {
	f := newFixture(t)
	project := f.createProject(t, "api", "https://github.com/acme/api")
	intruder := &users.User{ID: uuid.New(), Username: "intruder"}

	rec := postWithID(f.security.Scan, intruder, "/api/v1/projects/x/security/scan", project.ID.String())
	require.Equal(t, http.StatusNotFound, rec.Code)
}
