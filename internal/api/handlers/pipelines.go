package handlers

import (
	"errors"
	"net/http"

	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/api/problem"
	"github.com/sentinai-labs/server/internal/domain/pipelines"
	"github.com/sentinai-labs/server/internal/domain/projects"
)

type PipelinesHandler struct {
	pipelines *pipelines.Service
	projects  *projects.Service
	env       string
}

func NewPipelinesHandler(pipelineService *pipelines.Service, projectService *projects.Service, env string) *PipelinesHandler {
	return &PipelinesHandler{
		pipelines: pipelineService,
		projects:  projectService,
		env:       env,
	}
}

// Generate renders and stores a CI pipeline for the project. The
// ownership check runs first so foreign projects look missing.
func (h *PipelinesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, ok := projectIDFromPath(r)
	if !ok {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Project not found", nil, h.env)
		return
	}

	project, err := h.projects.Get(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Project not found", nil, h.env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to get project", err, h.env)
		return
	}

	pipeline, err := h.pipelines.Generate(r.Context(), project.ID, project.RepositoryURL)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to generate pipeline", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusCreated, pipeline)
}

func (h *PipelinesHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, ok := projectIDFromPath(r)
	if !ok {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Project not found", nil, h.env)
		return
	}

	if _, err := h.projects.Get(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Project not found", nil, h.env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to get project", err, h.env)
		return
	}

	list, err := h.pipelines.List(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to list pipelines", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}
