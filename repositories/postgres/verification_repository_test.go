package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerificationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	defer db.Close()

	repo := NewVerificationRepository(db, zap.NewNop())
	vc := models.NewVerificationCode("user@example.com", "123456", time.Now().Add(10*time.Minute))

	mock.ExpectExec("INSERT INTO email_verifications").
		WithArgs(vc.ID, vc.Email, vc.Code, vc.Used, vc.ExpiresAt, vc.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), vc)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationRepository_GetLatest(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()

		repo := NewVerificationRepository(db, zap.NewNop())
		id := uuid.New()
		now := time.Now()

		rows := sqlmock.NewRows([]string{"id", "email", "code", "used", "expires_at", "created_at"}).
			AddRow(id, "user@example.com", "123456", false, now.Add(10*time.Minute), now)
		mock.ExpectQuery("SELECT (.+) FROM email_verifications").
			WithArgs("user@example.com", "123456").
			WillReturnRows(rows)

		vc, err := repo.GetLatest(context.Background(), "user@example.com", "123456")
		require.NoError(t, err)
		assert.Equal(t, id, vc.ID)
		assert.False(t, vc.Used)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()

		repo := NewVerificationRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM email_verifications").
			WithArgs("user@example.com", "000000").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "code", "used", "expires_at", "created_at"}))

		vc, err := repo.GetLatest(context.Background(), "user@example.com", "000000")
		assert.Error(t, err)
		assert.Nil(t, vc)
	})
}

func TestVerificationRepository_MarkUsed(t *testing.T) {
	t.Run("consumes the code", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()

		repo := NewVerificationRepository(db, zap.NewNop())
		id := uuid.New()

		mock.ExpectExec("UPDATE email_verifications").WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkUsed(context.Background(), id)
		require.NoError(t, err)
	})

	t.Run("missing code", func(t *testing.T) {
		db, mock := newMockDB(t)
		defer db.Close()

		repo := NewVerificationRepository(db, zap.NewNop())
		id := uuid.New()

		mock.ExpectExec("UPDATE email_verifications").WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkUsed(context.Background(), id)
		assert.Error(t, err)
	})
}
