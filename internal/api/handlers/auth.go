package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/api/problem"
	"github.com/sentinai-labs/server/internal/auth"
	"github.com/sentinai-labs/server/internal/domain/users"
	"github.com/sentinai-labs/server/internal/github"
)

// Provider fetches the identity behind a GitHub access token.
type Provider interface {
	FetchProfile(ctx context.Context, accessToken string) (github.Profile, error)
}

type AuthHandler struct {
	users    *users.Service
	provider Provider
	tokens   *auth.JWTManager
	env      string
}

func NewAuthHandler(userService *users.Service, provider Provider, tokens *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{
		users:    userService,
		provider: provider,
		tokens:   tokens,
		env:      env,
	}
}

type exchangeRequest struct {
	AccessToken string `json:"access_token"`
}

type exchangeResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Exchange trades a GitHub access token for a session token, creating
// the user on first login. Any provider failure is reported as an
// authentication failure rather than a server error, so an attacker
// cannot distinguish a bad token from an unreachable provider.
func (h *AuthHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req exchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "Invalid request body", err, h.env)
		return
	}
	if req.AccessToken == "" {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidationError, "access_token is required", nil, h.env)
		return
	}

	profile, err := h.provider.FetchProfile(r.Context(), req.AccessToken)
	if err != nil {
		problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "GitHub authentication failed", err, h.env)
		return
	}

	user, err := h.users.FindOrCreate(r.Context(), profile)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to resolve user", err, h.env)
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to issue token", err, h.env)
		return
	}

	writeJSON(w, r, http.StatusOK, exchangeResponse{Token: token, User: user})
}

// Me returns the authenticated user resolved by the guard.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, middleware.UserFromContext(r.Context()))
}
