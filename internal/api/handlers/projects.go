package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/api/problem"
	"github.com/sentinai-labs/server/internal/domain/projects"
)

type ProjectsHandler struct {
	projects *projects.Service
	env      string
}

func NewProjectsHandler(service *projects.Service, env string) *ProjectsHandler {
	return &ProjectsHandler{projects: service, env: env}
}

type createProjectRequest struct {
	Name          string `json:"name"`
	RepositoryURL string `json:"repository_url"`
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request body", err, h.env)
		return
	}

	project, err := h.projects.Create(r.Context(), user.ID, req.Name, req.RepositoryURL)
	if err != nil {
		var validationErr projects.ValidationError
		if errors.As(err, &validationErr) {
			problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, validationErr.Error(), nil, h.env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to create project", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusCreated, project)
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	list, err := h.projects.List(r.Context(), user.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to list projects", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusOK, list)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, r, http.StatusOK, project)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	id, ok := projectIDFromPath(r)
	if !ok {
		problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Project not found", nil, h.env)
		return
	}

	if err := h.projects.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			problem.Write(w, r, http.StatusNotFound, problem.TypeNotFound, "Project not found", nil, h.env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to delete project", err, h.env)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
