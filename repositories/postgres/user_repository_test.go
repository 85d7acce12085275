package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return &DB{DB: sqlDB, logger: zap.NewNop()}, mock
}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, zap.NewNop())

	user := models.NewUser("alice@example.com", "Alice", "hashed-password")

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.Verified, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	t.Run("returns the user when found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		id := uuid.New()
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "verified", "created_at", "updated_at"}).
			AddRow(id, "alice@example.com", "Alice", "hashed-password", true, now, now)

		mock.ExpectQuery("SELECT id, email, name, password_hash, verified, created_at, updated_at").
			WithArgs("alice@example.com").
			WillReturnRows(rows)

		user, err := repo.GetByEmail(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.True(t, user.Verified)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns an error when missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT id, email, name, password_hash, verified, created_at, updated_at").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Contains(t, err.Error(), "user not found")
	})
}

func TestUserRepositoryMarkVerified(t *testing.T) {
	t.Run("updates the account", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE users").
			WithArgs("alice@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkVerified(context.Background(), "alice@example.com")
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("errors when no account matches", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE users").
			WithArgs("nobody@example.com", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkVerified(context.Background(), "nobody@example.com")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "user not found")
	})
}
