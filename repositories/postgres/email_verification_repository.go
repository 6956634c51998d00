package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// EmailVerificationRepository implements repositories.EmailVerificationRepository
type EmailVerificationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEmailVerificationRepository creates a new email verification repository
func NewEmailVerificationRepository(db *DB, logger *zap.Logger) repositories.EmailVerificationRepository {
	return &EmailVerificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a pending verification code
func (r *EmailVerificationRepository) Create(ctx context.Context, verification *models.EmailVerification) error {
	query := `
		INSERT INTO email_verifications (email, code, expires_at, verified)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		verification.Email, verification.Code, verification.ExpiresAt, verification.Verified,
	).Scan(&verification.ID, &verification.CreatedAt)
	if err != nil {
		return translateError(err, "email verification")
	}
	return nil
}

// GetLatestByEmail retrieves the most recent verification record for an email
func (r *EmailVerificationRepository) GetLatestByEmail(ctx context.Context, email string) (*models.EmailVerification, error) {
	query := `
		SELECT id, email, code, expires_at, verified, created_at
		FROM email_verifications
		WHERE email = $1
		ORDER BY expires_at DESC
		LIMIT 1
	`

	executor := GetExecutor(ctx, r.db)
	verification := &models.EmailVerification{}
	err := executor.QueryRowContext(ctx, query, email).Scan(
		&verification.ID,
		&verification.Email,
		&verification.Code,
		&verification.ExpiresAt,
		&verification.Verified,
		&verification.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err, "email verification")
	}
	return verification, nil
}

// MarkVerified flags a verification record as completed
func (r *EmailVerificationRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE email_verifications SET verified = true WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "email verification")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: email verification %d", repositories.ErrNotFound, id)
	}
	return nil
}
