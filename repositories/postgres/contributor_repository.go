package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const contributorColumns = `id, user_id, contributor_type, verification_status, verified,
	motivation, COALESCE(password_hash, ''), created_at, updated_at`

var contributorUpdatable = map[string]bool{
	"contributor_type":    true,
	"verification_status": true,
	"verified":            true,
	"motivation":          true,
}

// ContributorRepository implements repositories.ContributorRepository
type ContributorRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewContributorRepository creates a new contributor repository
func NewContributorRepository(db *DB, logger *zap.Logger) repositories.ContributorRepository {
	return &ContributorRepository{
		db:     db,
		logger: logger,
	}
}

func scanContributor(row interface{ Scan(...interface{}) error }) (*models.Contributor, error) {
	contributor := &models.Contributor{}
	err := row.Scan(
		&contributor.ID,
		&contributor.UserID,
		&contributor.ContributorType,
		&contributor.VerificationStatus,
		&contributor.Verified,
		&contributor.Motivation,
		&contributor.PasswordHash,
		&contributor.CreatedAt,
		&contributor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return contributor, nil
}

// Create inserts a new contributor profile and fills in the store-assigned id
func (r *ContributorRepository) Create(ctx context.Context, contributor *models.Contributor) error {
	query := `
		INSERT INTO contributor_data (user_id, contributor_type, verification_status, verified, motivation, password_hash)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		contributor.UserID,
		contributor.ContributorType,
		contributor.VerificationStatus,
		contributor.Verified,
		contributor.Motivation,
		contributor.PasswordHash,
	).Scan(&contributor.ID, &contributor.CreatedAt, &contributor.UpdatedAt)

	if err != nil {
		return translateError(err, "contributor")
	}

	r.logger.Debug("contributor created",
		zap.Int64("id", contributor.ID),
		zap.Int64("user_id", contributor.UserID))
	return nil
}

// GetByID retrieves a contributor by id
func (r *ContributorRepository) GetByID(ctx context.Context, id int64) (*models.Contributor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contributor_data WHERE id = $1`, contributorColumns)

	executor := GetExecutor(ctx, r.db)
	contributor, err := scanContributor(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "contributor")
	}
	return contributor, nil
}

// GetByUserID retrieves the contributor profile owned by a user
func (r *ContributorRepository) GetByUserID(ctx context.Context, userID int64) (*models.Contributor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contributor_data WHERE user_id = $1`, contributorColumns)

	executor := GetExecutor(ctx, r.db)
	contributor, err := scanContributor(executor.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, translateError(err, "contributor")
	}
	return contributor, nil
}

// List retrieves all contributors
func (r *ContributorRepository) List(ctx context.Context) ([]*models.Contributor, error) {
	query := fmt.Sprintf(`SELECT %s FROM contributor_data ORDER BY id`, contributorColumns)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err, "contributors")
	}
	defer rows.Close()

	var contributors []*models.Contributor
	for rows.Next() {
		contributor, err := scanContributor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contributor: %w", err)
		}
		contributors = append(contributors, contributor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributor rows: %w", err)
	}

	return contributors, nil
}

// Update applies a column patch and returns the updated row
func (r *ContributorRepository) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Contributor, error) {
	clause, args, err := buildPatch(patch, contributorUpdatable, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE contributor_data SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = $1 RETURNING %s`,
		clause, contributorColumns,
	)

	executor := GetExecutor(ctx, r.db)
	contributor, err := scanContributor(executor.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...))
	if err != nil {
		return nil, translateError(err, "contributor")
	}

	r.logger.Debug("contributor updated", zap.Int64("id", id))
	return contributor, nil
}

// UpdatePasswordHash replaces the stored credential digest
func (r *ContributorRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	query := `UPDATE contributor_data SET password_hash = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, hash)
	if err != nil {
		return translateError(err, "contributor")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: contributor %d", repositories.ErrNotFound, id)
	}

	return nil
}

// Delete removes a contributor row
func (r *ContributorRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM contributor_data WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "contributor")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: contributor %d", repositories.ErrNotFound, id)
	}

	r.logger.Debug("contributor deleted", zap.Int64("id", id))
	return nil
}

// WithTx returns a repository bound to the transaction
func (r *ContributorRepository) WithTx(tx repositories.Transaction) repositories.ContributorRepository {
	return r
}
