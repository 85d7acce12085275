package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ideaforge/dashboard/models"
	"github.com/ideaforge/dashboard/repositories"
	"go.uber.org/zap"
)

// VerificationRepository implements the repositories.VerificationRepository interface
type VerificationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewVerificationRepository creates a new verification code repository
func NewVerificationRepository(db *DB, logger *zap.Logger) repositories.VerificationRepository {
	return &VerificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new verification code
func (r *VerificationRepository) Create(ctx context.Context, code *models.VerificationCode) error {
	query := `
		INSERT INTO email_verifications (id, email, code, used, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		code.ID,
		code.Email,
		code.Code,
		code.Used,
		code.ExpiresAt,
		code.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create verification code: %w", err)
	}

	r.logger.Debug("verification code created", zap.String("email", code.Email))
	return nil
}

// GetLatest retrieves the most recent unused code for the email/code pair
func (r *VerificationRepository) GetLatest(ctx context.Context, email, code string) (*models.VerificationCode, error) {
	query := `
		SELECT id, email, code, used, expires_at, created_at
		FROM email_verifications
		WHERE email = $1 AND code = $2 AND used = false
		ORDER BY created_at DESC
		LIMIT 1
	`

	executor := GetExecutor(ctx, r.db)
	vc := &models.VerificationCode{}

	err := executor.QueryRowContext(ctx, query, email, code).Scan(
		&vc.ID,
		&vc.Email,
		&vc.Code,
		&vc.Used,
		&vc.ExpiresAt,
		&vc.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("verification code not found for email: %s", email)
		}
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}

	return vc, nil
}

// MarkUsed consumes a code so it cannot be redeemed again
func (r *VerificationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE email_verifications
		SET used = true
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark verification code used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("verification code not found: %s", id)
	}

	r.logger.Debug("verification code consumed", zap.String("id", id.String()))
	return nil
}
