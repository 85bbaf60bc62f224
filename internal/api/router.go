// Package api wires the HTTP surface: routes, middleware chain, and
// handler construction.
package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sentinai-labs/server/internal/api/handlers"
	"github.com/sentinai-labs/server/internal/api/middleware"
	"github.com/sentinai-labs/server/internal/auth"
	"github.com/sentinai-labs/server/internal/config"
	"github.com/sentinai-labs/server/internal/domain/pipelines"
	"github.com/sentinai-labs/server/internal/domain/projects"
	"github.com/sentinai-labs/server/internal/domain/security"
	"github.com/sentinai-labs/server/internal/domain/users"
	"github.com/sentinai-labs/server/internal/events"
	"github.com/sentinai-labs/server/internal/github"
	"github.com/sentinai-labs/server/internal/metrics"
	"github.com/sentinai-labs/server/internal/storage/postgres"
)

// NewRouter builds the full handler tree. The pool and the bus are
// created by the caller so their lifetimes outlive individual requests
// and shut down with the process.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool, bus *events.Bus, version string) http.Handler {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	githubClient := github.NewClient(
		github.WithBaseURL(cfg.GitHub.APIBaseURL),
		github.WithTimeout(cfg.GitHub.Timeout),
	)

	userService := users.NewService(postgres.NewUserRepository(pool), logger)
	projectService := projects.NewService(postgres.NewProjectRepository(pool))
	pipelineService := pipelines.NewService(postgres.NewPipelineRepository(pool), bus, logger)
	securityService := security.NewService(postgres.NewFindingRepository(pool), bus, logger)

	env := cfg.Environment
	authHandler := handlers.NewAuthHandler(userService, githubClient, tokens, env)
	projectsHandler := handlers.NewProjectsHandler(projectService, env)
	pipelinesHandler := handlers.NewPipelinesHandler(pipelineService, projectService, env)
	securityHandler := handlers.NewSecurityHandler(securityService, projectService, env)
	streamHandler := handlers.NewStreamHandler(bus, projectService, env)
	webhooksHandler := handlers.NewWebhooksHandler(env)
	healthChecker := handlers.NewHealthChecker(pool, version)

	guard := middleware.RequireUser(tokens, userService, env)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz())
	mux.Handle("/health", healthChecker.Health())
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/v1/auth/github", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Exchange),
	}))
	mux.Handle("/api/v1/auth/me", methodMux(map[string]http.Handler{
		http.MethodGet: guard(http.HandlerFunc(authHandler.Me)),
	}))

	mux.Handle("/api/v1/projects", methodMux(map[string]http.Handler{
		http.MethodGet:  guard(http.HandlerFunc(projectsHandler.List)),
		http.MethodPost: guard(http.HandlerFunc(projectsHandler.Create)),
	}))
	mux.Handle("/api/v1/projects/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:    guard(http.HandlerFunc(projectsHandler.Get)),
		http.MethodDelete: guard(http.HandlerFunc(projectsHandler.Delete)),
	}))

	mux.Handle("/api/v1/projects/{id}/generate-ci", methodMux(map[string]http.Handler{
		http.MethodPost: guard(http.HandlerFunc(pipelinesHandler.Generate)),
	}))
	mux.Handle("/api/v1/projects/{id}/pipelines", methodMux(map[string]http.Handler{
		http.MethodGet: guard(http.HandlerFunc(pipelinesHandler.List)),
	}))

	mux.Handle("/api/v1/projects/{id}/security/scan", methodMux(map[string]http.Handler{
		http.MethodPost: guard(http.HandlerFunc(securityHandler.Scan)),
	}))
	mux.Handle("/api/v1/projects/{id}/security", methodMux(map[string]http.Handler{
		http.MethodGet: guard(http.HandlerFunc(securityHandler.List)),
	}))

	mux.Handle("/api/v1/projects/{id}/events", methodMux(map[string]http.Handler{
		http.MethodGet: guard(http.HandlerFunc(streamHandler.Stream)),
	}))

	mux.Handle("/api/v1/webhooks/github", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(webhooksHandler.GitHub),
	}))

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

func methodMux(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := routes[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(routes))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(routes map[string]http.Handler) string {
	methods := make([]string, 0, len(routes))
	for method := range routes {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
