// Package repositories defines the persistence interfaces for the dashboard.
package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// InTransaction executes a function within a transaction, committing
	// when it succeeds and rolling back on error. The context handed to fn
	// carries the transaction; repository calls must use it to participate.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles account data operations
type UserRepository interface {
	// Create creates a new user account
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// MarkVerified flags the account as email-verified
	MarkVerified(ctx context.Context, email string) error
}

// VerificationRepository handles email verification codes
type VerificationRepository interface {
	// Create stores a new verification code
	Create(ctx context.Context, code *models.VerificationCode) error

	// GetLatest retrieves the most recent unused code for the email/code pair
	GetLatest(ctx context.Context, email, code string) (*models.VerificationCode, error)

	// MarkUsed consumes a code so it cannot be redeemed again
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// ProjectRepository handles project data operations
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// ListByUser retrieves all projects owned by the user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project
	Delete(ctx context.Context, id uuid.UUID) error
}

// ConversationRepository handles agent conversation history
type ConversationRepository interface {
	// Create creates a new conversation
	Create(ctx context.Context, conversation *models.Conversation) error

	// GetByID retrieves a conversation by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)

	// GetLatestForUser retrieves the user's most recently accessed
	// conversation, or nil when the user has none
	GetLatestForUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)

	// Touch updates the conversation's last-accessed timestamp
	Touch(ctx context.Context, id uuid.UUID, accessedAt time.Time) error

	// AddMessage appends a history entry to a conversation
	AddMessage(ctx context.Context, message *models.Message) error

	// ListMessages retrieves a conversation's history in chronological order
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Users         UserRepository
	Verifications VerificationRepository
	Projects      ProjectRepository
	Conversations ConversationRepository
}
