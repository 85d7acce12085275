package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockVerificationRepository is a mock implementation of repositories.VerificationRepository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockVerificationRepository) GetLatest(ctx context.Context, email, code string) (*models.VerificationCode, error) {
	args := m.Called(ctx, email, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *MockVerificationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProjectRepository is a mock implementation of repositories.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *MockProjectRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockConversationRepository is a mock implementation of repositories.ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

func (m *MockConversationRepository) Create(ctx context.Context, conversation *models.Conversation) error {
	args := m.Called(ctx, conversation)
	return args.Error(0)
}

func (m *MockConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationRepository) GetLatestForUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockConversationRepository) Touch(ctx context.Context, id uuid.UUID, accessedAt time.Time) error {
	args := m.Called(ctx, id, accessedAt)
	return args.Error(0)
}

func (m *MockConversationRepository) AddMessage(ctx context.Context, message *models.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Message), args.Error(1)
}

// fakeTxManager runs transaction bodies directly, without a database
type fakeTxManager struct{}

func (fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, fakeTx{ctx: ctx})
}

type fakeTx struct{ ctx context.Context }

func (t fakeTx) Commit() error            { return nil }
func (t fakeTx) Rollback() error          { return nil }
func (t fakeTx) Context() context.Context { return t.ctx }

// fakeMailer records sent mail instead of delivering it
type fakeMailer struct {
	verificationCodes []string
	welcomeRecipients []string
	err               error
}

func (f *fakeMailer) SendVerificationEmail(recipient, userName, code string) error {
	if f.err != nil {
		return f.err
	}
	f.verificationCodes = append(f.verificationCodes, code)
	return nil
}

func (f *fakeMailer) SendWelcomeEmail(recipient, userName string) error {
	if f.err != nil {
		return f.err
	}
	f.welcomeRecipients = append(f.welcomeRecipients, recipient)
	return nil
}
