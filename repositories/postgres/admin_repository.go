package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const adminColumns = `id, email, name, password_hash, is_active, last_login, created_at`

// AdminRepository implements repositories.AdminRepository
type AdminRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *DB, logger *zap.Logger) repositories.AdminRepository {
	return &AdminRepository{
		db:     db,
		logger: logger,
	}
}

func scanAdmin(row interface{ Scan(...interface{}) error }) (*models.Admin, error) {
	admin := &models.Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.Name,
		&admin.PasswordHash,
		&admin.IsActive,
		&admin.LastLogin,
		&admin.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

// GetActiveByEmail retrieves an active admin by email
func (r *AdminRepository) GetActiveByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE email = $1 AND is_active = true`, adminColumns)

	executor := GetExecutor(ctx, r.db)
	admin, err := scanAdmin(executor.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "admin")
	}
	return admin, nil
}

// GetActiveByID retrieves an admin by id, requiring is_active=true
func (r *AdminRepository) GetActiveByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1 AND is_active = true`, adminColumns)

	executor := GetExecutor(ctx, r.db)
	admin, err := scanAdmin(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "admin")
	}
	return admin, nil
}

// GetByID retrieves an admin regardless of active flag
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	query := fmt.Sprintf(`SELECT %s FROM admins WHERE id = $1`, adminColumns)

	executor := GetExecutor(ctx, r.db)
	admin, err := scanAdmin(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "admin")
	}
	return admin, nil
}

// UpdateLastLogin stamps the last successful login time
func (r *AdminRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE admins SET last_login = $2 WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, query, id, at); err != nil {
		return translateError(err, "admin")
	}
	return nil
}

// UpdatePasswordHash replaces the stored credential digest
func (r *AdminRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := `UPDATE admins SET password_hash = $2 WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, hash)
	if err != nil {
		return translateError(err, "admin")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: admin %d", repositories.ErrNotFound, id)
	}

	r.logger.Debug("admin password updated", zap.Int64("id", id))
	return nil
}

// WithTx returns a repository bound to the transaction
func (r *AdminRepository) WithTx(tx repositories.Transaction) repositories.AdminRepository {
	return r
}
