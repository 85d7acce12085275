// Package history summarizes a user's stored agent interactions.
package history

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"go.uber.org/zap"
)

// DefaultRecentLimit is how many trailing interactions Recent returns by default.
const DefaultRecentLimit = 10

// Service reads conversation history.
type Service struct {
	conversations repositories.ConversationRepository
	logger        *zap.Logger
}

// NewService creates the history service.
func NewService(conversations repositories.ConversationRepository, logger *zap.Logger) *Service {
	return &Service{
		conversations: conversations,
		logger:        logger,
	}
}

// Summarize returns per-action counts for the user's most recent
// conversation. Users with no history get a zero summary.
func (s *Service) Summarize(ctx context.Context, userID uuid.UUID) (*models.ConversationSummary, error) {
	conv, err := s.conversations.GetLatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return &models.ConversationSummary{
			ActionCounts: map[models.AgentAction]int{},
		}, nil
	}

	messages, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	counts := make(map[models.AgentAction]int)
	for _, msg := range messages {
		counts[msg.Action]++
	}

	return &models.ConversationSummary{
		ConversationID: conv.ID,
		TotalMessages:  len(messages),
		ActionCounts:   counts,
		LastAccessed:   conv.LastAccessed,
	}, nil
}

// Recent returns the user's trailing interactions, newest last. A limit of
// zero or less falls back to DefaultRecentLimit.
func (s *Service) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	conv, err := s.conversations.GetLatestForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, nil
	}

	messages, err := s.conversations.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}
