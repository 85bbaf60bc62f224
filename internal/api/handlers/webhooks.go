package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sentinai-labs/server/internal/api/problem"
)

type WebhooksHandler struct {
	env string
}

func NewWebhooksHandler(env string) *WebhooksHandler {
	return &WebhooksHandler{env: env}
}

// GitHub accepts webhook deliveries and acknowledges them. Payloads are
// logged but not acted on yet.
// TODO: trigger a pipeline run on push events once CI execution exists.
func (h *WebhooksHandler) GitHub(w http.ResponseWriter, r *http.Request) {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid webhook payload", err, h.env)
		return
	}

	logger := zerolog.Ctx(r.Context())
	if _, ok := payload["action"]; !ok {
		logger.Warn().Msg("webhook payload missing action field")
	}
	logger.Info().
		Str("event", r.Header.Get("X-GitHub-Event")).
		Int("fields", len(payload)).
		Msg("received github webhook")

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "received"})
}
