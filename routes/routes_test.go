package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ideaforge/dashboard/app"
	"github.com/ideaforge/dashboard/auth"
	"github.com/ideaforge/dashboard/config"
	"github.com/ideaforge/dashboard/handlers"
	"github.com/ideaforge/dashboard/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDependencies(t *testing.T) *app.Dependencies {
	t.Helper()
	logger := zap.NewNop()
	issuer, err := auth.NewIssuer(auth.Config{Secret: "test-secret"})
	require.NoError(t, err)

	return &app.Dependencies{
		Config: &config.Config{
			Server: config.ServerConfig{
				PublicOrigin:   "http://localhost:5000",
				AllowedOrigins: []string{"http://localhost:3000"},
			},
		},
		Logger:         logger,
		Issuer:         issuer,
		AuthMiddleware: middleware.NewAuthMiddleware(issuer, logger),
		AuthHandler:    handlers.NewAuthHandler(nil, nil, nil, nil, issuer, logger),
		AgentHandler:   handlers.NewAgentHandler(nil, nil, nil, logger),
		ProjectHandler: handlers.NewProjectHandler(nil, logger),
		HealthHandler:  handlers.NewHealthHandler(nil, logger),
	}
}

func TestSetupRoutes(t *testing.T) {
	router := SetupRoutes(testDependencies(t))

	t.Run("health endpoint is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("agent endpoints require authentication", func(t *testing.T) {
		for _, path := range []string{"/api/agent/chat", "/api/agent/ideas", "/api/tools/budget", "/api/tools/github"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown route returns JSON 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"endpoint not found"}`, w.Body.String())
	})

	t.Run("preflight allows configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight rejects unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestAllowedOrigins(t *testing.T) {
	deps := testDependencies(t)
	deps.Config.Server.AllowedOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5000", // duplicate of the public origin
		"",
	}

	origins := allowedOrigins(deps)
	assert.Equal(t, []string{"http://localhost:5000", "http://localhost:3000"}, origins)
}
