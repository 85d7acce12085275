package app

import (
	"context"
	"fmt"

	"github.com/ideaforge/dashboard/auth"
	"github.com/ideaforge/dashboard/config"
	"github.com/ideaforge/dashboard/handlers"
	"github.com/ideaforge/dashboard/middleware"
	"github.com/ideaforge/dashboard/repositories"
	"github.com/ideaforge/dashboard/repositories/postgres"
	"github.com/ideaforge/dashboard/services/agent"
	"github.com/ideaforge/dashboard/services/email"
	"github.com/ideaforge/dashboard/services/history"
	"github.com/ideaforge/dashboard/services/tools"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users         repositories.UserRepository
	Verifications repositories.VerificationRepository
	Projects      repositories.ProjectRepository
	Conversations repositories.ConversationRepository
	TxManager     repositories.TransactionManager

	// Services
	Issuer       *auth.Issuer
	Mailer       *email.Service
	AgentService *agent.Service
	Searcher     *tools.GitHubSearcher
	History      *history.Service

	// HTTP layer
	AuthMiddleware *middleware.AuthMiddleware
	AuthHandler    *handlers.AuthHandler
	AgentHandler   *handlers.AgentHandler
	ProjectHandler *handlers.ProjectHandler
	HealthHandler  *handlers.HealthHandler
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and repository factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("database", cfg.Database.Database))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Verifications = repos.Verifications
	d.Projects = repos.Projects
	d.Conversations = repos.Conversations
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initServices initializes token issuance, mail, and the agent service
func (d *Dependencies) initServices(cfg *config.Config) error {
	issuer, err := auth.NewIssuer(auth.Config{
		Secret: cfg.Auth.TokenSecret,
		Issuer: cfg.Auth.TokenIssuer,
		TTL:    cfg.Auth.TokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	d.Issuer = issuer

	d.Mailer = email.NewService(cfg.Email, d.Logger)

	if cfg.Gemini.APIKey == "" {
		d.Logger.Warn("GEMINI_API_KEY not set, agent requests will fail")
	}
	generator := agent.NewGeminiClient(cfg.Gemini)
	d.Searcher = tools.NewGitHubSearcher()
	d.AgentService = agent.NewService(generator, d.Searcher, d.Conversations, d.Logger)
	d.History = history.NewService(d.Conversations, d.Logger)

	d.Logger.Info("services initialized",
		zap.String("model", cfg.Gemini.Model))
	return nil
}

// initHandlers initializes the HTTP handlers and auth middleware
func (d *Dependencies) initHandlers() {
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Issuer, d.Logger)
	d.AuthHandler = handlers.NewAuthHandler(d.Users, d.Verifications, d.TxManager, d.Mailer, d.Issuer, d.Logger)
	d.AgentHandler = handlers.NewAgentHandler(d.AgentService, d.History, d.Searcher, d.Logger)
	d.ProjectHandler = handlers.NewProjectHandler(d.Projects, d.Logger)
	d.HealthHandler = handlers.NewHealthHandler(d.DB.DB, d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
