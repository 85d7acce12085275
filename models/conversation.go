package models

import (
	"time"

	"github.com/google/uuid"
)

// AgentAction identifies which agent operation produced a history entry
type AgentAction string

const (
	ActionGenerateIdeas     AgentAction = "generate_ideas"
	ActionCreateRoadmap     AgentAction = "create_roadmap"
	ActionAssessFeasibility AgentAction = "assess_feasibility"
	ActionChat              AgentAction = "chat"
)

// Conversation groups a user's agent interactions
type Conversation struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	LastAccessed time.Time `json:"last_accessed" db:"last_accessed"`
}

// TableName returns the table name for the Conversation model
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation creates a new Conversation for the given user
func NewConversation(userID uuid.UUID) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:           uuid.New(),
		UserID:       userID,
		CreatedAt:    now,
		LastAccessed: now,
	}
}

// Message is one agent interaction within a conversation
type Message struct {
	ID             uuid.UUID   `json:"id" db:"id"`
	ConversationID uuid.UUID   `json:"conversation_id" db:"conversation_id"`
	Action         AgentAction `json:"action" db:"action"`
	Prompt         string      `json:"prompt" db:"prompt"`
	Response       string      `json:"response" db:"response"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// NewMessage creates a history entry for an agent interaction
func NewMessage(conversationID uuid.UUID, action AgentAction, prompt, response string) *Message {
	return &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Action:         action,
		Prompt:         prompt,
		Response:       response,
		CreatedAt:      time.Now(),
	}
}

// ConversationSummary carries per-action counts for a conversation
type ConversationSummary struct {
	ConversationID uuid.UUID           `json:"conversation_id"`
	TotalMessages  int                 `json:"total_messages"`
	ActionCounts   map[AgentAction]int `json:"action_counts"`
	LastAccessed   time.Time           `json:"last_accessed"`
}
