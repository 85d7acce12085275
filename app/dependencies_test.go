package app

import (
	"context"
	"testing"
	"time"

	"github.com/ideaforge/dashboard/config"
	"github.com/ideaforge/dashboard/repositories/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         5000,
			PublicOrigin: "http://localhost:5000",
		},
		Auth: config.AuthConfig{
			TokenSecret: "test-secret",
			TokenIssuer: "test",
			TokenTTL:    time.Hour,
		},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "dev",
			Password:        "dev",
			Database:        "ideaforge_test",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Minute,
		},
		Gemini: config.GeminiConfig{
			APIKey: "test-key",
		},
	}
}

// isDatabaseAvailable reports whether a test database is reachable
func isDatabaseAvailable(t *testing.T, cfg *config.Config) bool {
	t.Helper()
	db, err := postgres.NewDB(cfg.Database, zaptest.NewLogger(t))
	if err != nil {
		return false
	}
	_ = db.Close()
	return true
}

func TestNewDependencies(t *testing.T) {
	t.Run("successful initialization with all components", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		logger := zaptest.NewLogger(t)

		if !isDatabaseAvailable(t, cfg) {
			t.Skip("database not available")
		}

		deps, err := NewDependencies(ctx, cfg, logger)
		require.NoError(t, err)
		require.NotNil(t, deps)

		// Infrastructure
		assert.NotNil(t, deps.Config)
		assert.NotNil(t, deps.DB)
		assert.NotNil(t, deps.Logger)

		// Repositories
		assert.NotNil(t, deps.Users)
		assert.NotNil(t, deps.Verifications)
		assert.NotNil(t, deps.Projects)
		assert.NotNil(t, deps.Conversations)
		assert.NotNil(t, deps.TxManager)

		// Services
		assert.NotNil(t, deps.Issuer)
		assert.NotNil(t, deps.Mailer)
		assert.NotNil(t, deps.AgentService)
		assert.NotNil(t, deps.Searcher)
		assert.NotNil(t, deps.History)

		// HTTP layer
		assert.NotNil(t, deps.AuthMiddleware)
		assert.NotNil(t, deps.AuthHandler)
		assert.NotNil(t, deps.AgentHandler)
		assert.NotNil(t, deps.ProjectHandler)
		assert.NotNil(t, deps.HealthHandler)

		err = deps.Close(ctx)
		assert.NoError(t, err)
	})

	t.Run("database connection failure", func(t *testing.T) {
		ctx := context.Background()
		cfg := testConfig(t)
		cfg.Database.Host = "invalid-host-that-does-not-exist"
		logger := zaptest.NewLogger(t)

		deps, err := NewDependencies(ctx, cfg, logger)
		assert.Error(t, err)
		assert.Nil(t, deps)
	})
}
