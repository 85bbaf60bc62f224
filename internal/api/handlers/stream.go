package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/api/problem"
	"github.com/sentinai-labs/server/internal/domain/projects"
	"github.com/sentinai-labs/server/internal/events"
)

// keepAliveInterval is how often an idle stream emits a comment frame
// so proxies do not drop the connection.
const keepAliveInterval = 15 * time.Second

type StreamHandler struct {
	bus      *events.Bus
	projects *projects.Service
	env      string
}

func NewStreamHandler(bus *events.Bus, projectService *projects.Service, env string) *StreamHandler {
	return &StreamHandler{
		bus:      bus,
		projects: projectService,
		env:      env,
	}
}

// Stream serves a live SSE feed of the project's events. The binding to
// one project is fixed at open after an ownership check; events for any
// other project are silently discarded. The stream ends on client
// disconnect, bus shutdown, or when this subscriber lags past its
// backlog capacity.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
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

	flusher, ok := w.(http.Flusher)
	if !ok {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Streaming unsupported", nil, h.env)
		return
	}

	// Subscribe before writing headers so no event published after the
	// response starts can be missed.
	sub := h.bus.Subscribe()
	defer sub.Close()

	logger := zerolog.Ctx(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case evt, open := <-sub.Events():
			if !open {
				if sub.Overflowed() {
					logger.Warn().
						Str("project_id", id.String()).
						Msg("event stream dropped: subscriber lagged")
				}
				return
			}
			if evt.Project() != id {
				continue
			}

			payload, err := events.Marshal(evt)
			if err != nil {
				logger.Error().Err(err).Str("event_type", evt.Type()).Msg("marshal event")
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
			keepAlive.Reset(keepAliveInterval)

		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
