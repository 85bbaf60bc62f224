package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/sentinai-labs/server/internal/api/problem"
	"github.com/sentinai-labs/server/internal/auth"
	"github.com/sentinai-labs/server/internal/domain/users"
)

const userKey contextKey = "user"

// UserResolver maps a validated token subject to its stored user.
type UserResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*users.User, error)
}

// RequireUser guards a route behind bearer-token authentication. The
// token is validated before any store access; a valid token whose
// subject no longer exists is treated the same as an invalid one. Each
// request does exactly one user lookup, with no caching between
// requests. The resolved user is attached to the request context.
func RequireUser(tokens *auth.JWTManager, resolver UserResolver, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Authentication required", err, env)
				return
			}

			subject, err := tokens.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid or expired token", err, env)
				return
			}

			user, err := resolver.FindByID(r.Context(), subject)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid or expired token", err, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Failed to resolve user", err, env)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// ContextWithUser attaches the authenticated user to the context.
func ContextWithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user attached by
// RequireUser, or nil on an unguarded route.
func UserFromContext(ctx context.Context) *users.User {
	user, _ := ctx.Value(userKey).(*users.User)
	return user
}
