package handlers

import (
	"errors"
	"net/http"

	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/api/problem"
	"github.com/sentinai-labs/server/internal/domain/projects"
	"github.com/sentinai-labs/server/internal/domain/security"
)

type SecurityHandler struct {
	security *security.Service
	projects *projects.Service
	env      string
}

func NewSecurityHandler(securityService *security.Service, projectService *projects.Service, env string) *SecurityHandler {
	return &SecurityHandler{
		security: securityService,
		projects: projectService,
		env:      env,
	}
}

// Scan records the scan findings for the project and returns them.
func (h *SecurityHandler) Scan(w http.ResponseWriter, r *http.Request) {
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

	findings, err := h.security.Scan(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to run scan", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusCreated, findings)
}

func (h *SecurityHandler) List(w http.ResponseWriter, r *http.Request) {
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

	findings, err := h.security.List(r.Context(), id)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to list findings", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusOK, findings)
}
