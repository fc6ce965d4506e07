package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/teamnest/teamnest/internal/api/handler"
	customMiddleware "github.com/teamnest/teamnest/internal/api/middleware"
	"github.com/teamnest/teamnest/internal/config"
	"github.com/teamnest/teamnest/internal/repository/mongo"
	"github.com/teamnest/teamnest/internal/repository/redis"
	"github.com/teamnest/teamnest/internal/security"
	"github.com/teamnest/teamnest/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
		cfg.Auth.InviteTokenTTL,
	)

	// Initialize repositories
	userRepo := mongo.NewUserRepository(db)
	workspaceRepo := mongo.NewWorkspaceRepository(db)
	projectRepo := mongo.NewProjectRepository(db)

	// Initialize Redis-backed components
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	inviteCodes := redis.NewInviteCodeStore(redisClient, cfg.Auth.InviteCodeTTL)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	workspaceService := service.NewWorkspaceService(workspaceRepo, userRepo, inviteCodes, jwtManager)
	projectService := service.NewProjectService(projectRepo, workspaceRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, projectService)
	memberHandler := handler.NewMemberHandler(workspaceService)
	projectHandler := handler.NewProjectHandler(projectService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/auth/me", authHandler.Me)

			// Workspace routes
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				// Invite redemption is not scoped to a workspace path:
				// the token carries the workspace.
				r.Post("/accept-invite-token", memberHandler.AcceptInvite)
				r.Post("/join/{inviteCode}", memberHandler.JoinByCode)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(customMiddleware.WorkspaceContext)

					r.Get("/", workspaceHandler.Get)
					r.Get("/projects", workspaceHandler.ListProjects)

					// Membership
					r.Post("/invite-member", memberHandler.Invite)
					r.Post("/invite-code", memberHandler.CreateInviteCode)
					r.Delete("/members/{memberID}", memberHandler.Remove)
					r.Put("/members/{memberID}/role", memberHandler.UpdateRole)

					// Projects
					r.Post("/projects", projectHandler.Create)
				})
			})

			// Project routes addressed by project ID
			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/", projectHandler.Get)
				r.Patch("/", projectHandler.Update)
				r.Post("/archive", projectHandler.Archive)
			})
		})
	})

	return r
}
