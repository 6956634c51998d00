package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// RefreshTokenRepository implements repositories.RefreshTokenRepository over
// two collections: refresh_tokens for users and contributors, and
// admin_refresh_tokens for admins.
type RefreshTokenRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *DB, logger *zap.Logger) repositories.RefreshTokenRepository {
	return &RefreshTokenRepository{
		db:     db,
		logger: logger,
	}
}

func refreshTable(kind auth.PrincipalKind) string {
	if kind == auth.KindAdmin {
		return "admin_refresh_tokens"
	}
	return "refresh_tokens"
}

// Create persists a refresh row, picking the collection from the set principal column
func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	executor := GetExecutor(ctx, r.db)

	if token.AdminID != nil {
		query := `
			INSERT INTO admin_refresh_tokens (admin_id, token_hash, expires_at, is_active)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at
		`
		err := executor.QueryRowContext(ctx, query,
			token.AdminID, token.TokenHash, token.ExpiresAt, token.IsActive,
		).Scan(&token.ID, &token.CreatedAt)
		if err != nil {
			return translateError(err, "admin refresh token")
		}
		return nil
	}

	if (token.UserID == nil) == (token.ContributorID == nil) {
		return fmt.Errorf("refresh token must reference exactly one principal")
	}

	query := `
		INSERT INTO refresh_tokens (user_id, contributor_id, token_hash, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := executor.QueryRowContext(ctx, query,
		token.UserID, token.ContributorID, token.TokenHash, token.ExpiresAt, token.IsActive,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		return translateError(err, "refresh token")
	}
	return nil
}

// FindActive looks up an active, unexpired row by secret hash
func (r *RefreshTokenRepository) FindActive(ctx context.Context, kind auth.PrincipalKind, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	executor := GetExecutor(ctx, r.db)
	token := &models.RefreshToken{}

	if kind == auth.KindAdmin {
		query := `
			SELECT id, admin_id, token_hash, expires_at, is_active, created_at
			FROM admin_refresh_tokens
			WHERE token_hash = $1 AND is_active = true AND expires_at > $2
		`
		err := executor.QueryRowContext(ctx, query, tokenHash, now).Scan(
			&token.ID, &token.AdminID, &token.TokenHash, &token.ExpiresAt, &token.IsActive, &token.CreatedAt,
		)
		if err != nil {
			return nil, translateError(err, "admin refresh token")
		}
		return token, nil
	}

	query := `
		SELECT id, user_id, contributor_id, token_hash, expires_at, is_active, created_at
		FROM refresh_tokens
		WHERE token_hash = $1 AND is_active = true AND expires_at > $2
	`
	err := executor.QueryRowContext(ctx, query, tokenHash, now).Scan(
		&token.ID, &token.UserID, &token.ContributorID, &token.TokenHash,
		&token.ExpiresAt, &token.IsActive, &token.CreatedAt,
	)
	if err != nil {
		return nil, translateError(err, "refresh token")
	}
	return token, nil
}

// Deactivate tombstones the row with the given hash. Zero rows affected is a
// no-op, not an error: revocation is idempotent.
func (r *RefreshTokenRepository) Deactivate(ctx context.Context, kind auth.PrincipalKind, tokenHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET is_active = false WHERE token_hash = $1`, refreshTable(kind))

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, tokenHash); err != nil {
		return translateError(err, "refresh token")
	}
	return nil
}

// DeactivateAllFor tombstones every row belonging to the principal
func (r *RefreshTokenRepository) DeactivateAllFor(ctx context.Context, ref auth.PrincipalRef) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	var query string
	switch ref.Kind {
	case auth.KindAdmin:
		query = `UPDATE admin_refresh_tokens SET is_active = false WHERE admin_id = $1`
	case auth.KindContributor:
		query = `UPDATE refresh_tokens SET is_active = false WHERE contributor_id = $1`
	default:
		query = `UPDATE refresh_tokens SET is_active = false WHERE user_id = $1`
	}

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, ref.ID); err != nil {
		return translateError(err, "refresh tokens")
	}

	r.logger.Debug("refresh tokens revoked for principal",
		zap.String("kind", string(ref.Kind)),
		zap.Int64("id", ref.ID))
	return nil
}

// WithTx returns a repository bound to the transaction
func (r *RefreshTokenRepository) WithTx(tx repositories.Transaction) repositories.RefreshTokenRepository {
	return r
}
