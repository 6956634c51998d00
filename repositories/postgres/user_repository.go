package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const userColumns = `id, email, COALESCE(password_hash, ''), user_type, first_name, last_name,
	phone_number, preferred_language, is_email_verified, created_at, updated_at`

// userUpdatable lists the columns a generic update may touch. password_hash is
// deliberately absent: credential changes go through UpdatePasswordHash only.
var userUpdatable = map[string]bool{
	"email":              true,
	"user_type":          true,
	"first_name":         true,
	"last_name":          true,
	"phone_number":       true,
	"preferred_language": true,
	"is_email_verified":  true,
}

// UserRepository implements repositories.UserRepository
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.UserType,
		&user.FirstName,
		&user.LastName,
		&user.PhoneNumber,
		&user.PreferredLanguage,
		&user.IsEmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Create inserts a new user and fills in the store-assigned id
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, user_type, first_name, last_name, phone_number, preferred_language)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)
		RETURNING id, is_email_verified, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.UserType,
		user.FirstName,
		user.LastName,
		user.PhoneNumber,
		user.PreferredLanguage,
	).Scan(&user.ID, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return translateError(err, "user")
	}

	r.logger.Debug("user created", zap.Int64("id", user.ID), zap.String("email", user.Email))
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)

	executor := GetExecutor(ctx, r.db)
	user, err := scanUser(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return user, nil
}

// GetByEmail retrieves a user by exact email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)

	executor := GetExecutor(ctx, r.db)
	user, err := scanUser(executor.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return user, nil
}

// ExistsByEmail reports whether any user row carries the email
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	executor := GetExecutor(ctx, r.db)
	var exists bool
	if err := executor.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, translateError(err, "user")
	}
	return exists, nil
}

// List retrieves all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err, "users")
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

// Update applies a column patch and returns the updated row
func (r *UserRepository) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.User, error) {
	clause, args, err := buildPatch(patch, userUpdatable, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = $1 RETURNING %s`,
		clause, userColumns,
	)

	executor := GetExecutor(ctx, r.db)
	user, err := scanUser(executor.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...))
	if err != nil {
		return nil, translateError(err, "user")
	}

	r.logger.Debug("user updated", zap.Int64("id", id))
	return user, nil
}

// UpdatePasswordHash replaces the stored credential digest
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, hash)
	if err != nil {
		return translateError(err, "user")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: user %d", repositories.ErrNotFound, id)
	}

	return nil
}

// MarkEmailVerified flips the verified flag and promotes the account to registered
func (r *UserRepository) MarkEmailVerified(ctx context.Context, email string) (*models.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET is_email_verified = true, user_type = 'registered', updated_at = CURRENT_TIMESTAMP
		WHERE email = $1
		RETURNING %s`, userColumns)

	executor := GetExecutor(ctx, r.db)
	user, err := scanUser(executor.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "user")
	}
	return user, nil
}

// Delete removes a user row
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "user")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: user %d", repositories.ErrNotFound, id)
	}

	r.logger.Debug("user deleted", zap.Int64("id", id))
	return nil
}

// WithTx returns a repository bound to the transaction
func (r *UserRepository) WithTx(tx repositories.Transaction) repositories.UserRepository {
	return r
}
