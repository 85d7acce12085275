package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ideaforge/dashboard/app"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS middleware. The allow-list is exact-match origins from
	// configuration; the dashboard's own origin is always included.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(deps),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoints
	r.Get("/health", deps.HealthHandler.HandleHealth)
	r.Get("/health/ready", deps.HealthHandler.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.AuthHandler.HandleRegister)
			r.Post("/verify", deps.AuthHandler.HandleVerifyEmail)
			r.Post("/login", deps.AuthHandler.HandleLogin)
			r.Post("/logout", deps.AuthHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuth)
				r.Get("/me", deps.AuthHandler.HandleMe)
			})
		})

		// Agent endpoints
		r.Route("/agent", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/ideas", deps.AgentHandler.HandleGenerateIdeas)
			r.Post("/roadmap", deps.AgentHandler.HandleCreateRoadmap)
			r.Post("/feasibility", deps.AgentHandler.HandleAssessFeasibility)
			r.Post("/chat", deps.AgentHandler.HandleChat)
			r.Get("/history", deps.AgentHandler.HandleHistoryRecent)
			r.Get("/history/summary", deps.AgentHandler.HandleHistorySummary)
		})

		// Direct tool endpoints (no model round trip)
		r.Route("/tools", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/budget", deps.AgentHandler.HandleBudgetTool)
			r.Post("/skills", deps.AgentHandler.HandleSkillTool)
			r.Post("/github", deps.AgentHandler.HandleGitHubTool)
		})

		// Project management
		r.Route("/projects", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Get("/", deps.ProjectHandler.HandleList)
			r.Post("/", deps.ProjectHandler.HandleCreate)
			r.Get("/{id}", deps.ProjectHandler.HandleGet)
			r.Put("/{id}", deps.ProjectHandler.HandleUpdate)
			r.Delete("/{id}", deps.ProjectHandler.HandleDelete)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}

// allowedOrigins builds the CORS allow-list from configuration, always
// including the dashboard's own origin exactly once.
func allowedOrigins(deps *app.Dependencies) []string {
	cfg := deps.Config.Server
	origins := make([]string, 0, len(cfg.AllowedOrigins)+1)
	seen := make(map[string]bool)

	for _, origin := range append([]string{cfg.PublicOrigin}, cfg.AllowedOrigins...) {
		if origin == "" || seen[origin] {
			continue
		}
		seen[origin] = true
		origins = append(origins, origin)
	}

	return origins
}
