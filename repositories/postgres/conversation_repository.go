package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"go.uber.org/zap"
)

// ConversationRepository implements the repositories.ConversationRepository interface
type ConversationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *DB, logger *zap.Logger) repositories.ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new conversation
func (r *ConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_id, created_at, last_accessed)
		VALUES ($1, $2, $3, $4)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		conversation.ID,
		conversation.UserID,
		conversation.CreatedAt,
		conversation.LastAccessed,
	)

	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	r.logger.Debug("conversation created",
		zap.String("id", conversation.ID.String()),
		zap.String("user_id", conversation.UserID.String()))
	return nil
}

// GetByID retrieves a conversation by ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, created_at, last_accessed
		FROM conversations
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	conversation := &models.Conversation{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&conversation.ID,
		&conversation.UserID,
		&conversation.CreatedAt,
		&conversation.LastAccessed,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conversation, nil
}

// GetLatestForUser retrieves the user's most recently accessed conversation.
// Returns nil without error when the user has no conversations yet.
func (r *ConversationRepository) GetLatestForUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	query := `
		SELECT id, user_id, created_at, last_accessed
		FROM conversations
		WHERE user_id = $1
		ORDER BY last_accessed DESC
		LIMIT 1
	`

	executor := GetExecutor(ctx, r.db)
	conversation := &models.Conversation{}

	err := executor.QueryRowContext(ctx, query, userID).Scan(
		&conversation.ID,
		&conversation.UserID,
		&conversation.CreatedAt,
		&conversation.LastAccessed,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest conversation: %w", err)
	}

	return conversation, nil
}

// Touch updates the conversation's last-accessed timestamp
func (r *ConversationRepository) Touch(ctx context.Context, id uuid.UUID, accessedAt time.Time) error {
	query := `
		UPDATE conversations
		SET last_accessed = $2
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, accessedAt)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("conversation not found: %s", id)
	}

	return nil
}

// AddMessage appends a history entry to a conversation
func (r *ConversationRepository) AddMessage(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, action, prompt, response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		message.ID,
		message.ConversationID,
		message.Action,
		message.Prompt,
		message.Response,
		message.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}

	r.logger.Debug("message added",
		zap.String("conversation_id", message.ConversationID.String()),
		zap.String("action", string(message.Action)))
	return nil
}

// ListMessages retrieves a conversation's history in chronological order
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	query := `
		SELECT id, conversation_id, action, prompt, response, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		message := &models.Message{}
		err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Action,
			&message.Prompt,
			&message.Response,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
