package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const locationColumns = `id, name, description, latitude, longitude, category, created_by, created_at, updated_at`

var locationUpdatable = map[string]bool{
	"name":        true,
	"description": true,
	"latitude":    true,
	"longitude":   true,
	"category":    true,
}

// LocationRepository implements repositories.LocationRepository
type LocationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(db *DB, logger *zap.Logger) repositories.LocationRepository {
	return &LocationRepository{
		db:     db,
		logger: logger,
	}
}

func scanLocation(row interface{ Scan(...interface{}) error }) (*models.Location, error) {
	location := &models.Location{}
	err := row.Scan(
		&location.ID,
		&location.Name,
		&location.Description,
		&location.Latitude,
		&location.Longitude,
		&location.Category,
		&location.CreatedBy,
		&location.CreatedAt,
		&location.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return location, nil
}

// Create inserts a new location and fills in the store-assigned id
func (r *LocationRepository) Create(ctx context.Context, location *models.Location) error {
	query := `
		INSERT INTO locations (name, description, latitude, longitude, category, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		location.Name,
		location.Description,
		location.Latitude,
		location.Longitude,
		location.Category,
		location.CreatedBy,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)

	if err != nil {
		return translateError(err, "location")
	}

	r.logger.Debug("location created", zap.Int64("id", location.ID), zap.String("name", location.Name))
	return nil
}

// GetByID retrieves a location by id
func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*models.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1`, locationColumns)

	executor := GetExecutor(ctx, r.db)
	location, err := scanLocation(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "location")
	}
	return location, nil
}

// List retrieves all locations
func (r *LocationRepository) List(ctx context.Context) ([]*models.Location, error) {
	query := fmt.Sprintf(`SELECT %s FROM locations ORDER BY id`, locationColumns)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err, "locations")
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		location, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating location rows: %w", err)
	}

	return locations, nil
}

// Update applies a column patch and returns the updated row
func (r *LocationRepository) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Location, error) {
	clause, args, err := buildPatch(patch, locationUpdatable, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE locations SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = $1 RETURNING %s`,
		clause, locationColumns,
	)

	executor := GetExecutor(ctx, r.db)
	location, err := scanLocation(executor.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...))
	if err != nil {
		return nil, translateError(err, "location")
	}

	r.logger.Debug("location updated", zap.Int64("id", id))
	return location, nil
}

// Delete removes a location row
func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM locations WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "location")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: location %d", repositories.ErrNotFound, id)
	}

	r.logger.Debug("location deleted", zap.Int64("id", id))
	return nil
}

// CreateVerification inserts the initial review record for a location
func (r *LocationRepository) CreateVerification(ctx context.Context, verification *models.LocationVerification) error {
	query := `
		INSERT INTO location_verifications (location_id, status, verified_by)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		verification.LocationID,
		verification.Status,
		verification.VerifiedBy,
	).Scan(&verification.ID, &verification.CreatedAt, &verification.UpdatedAt)

	if err != nil {
		return translateError(err, "location verification")
	}
	return nil
}

// UpdateVerification sets the review status and the reviewing admin
func (r *LocationRepository) UpdateVerification(ctx context.Context, locationID int64, status models.LocationStatus, adminID int64) (*models.LocationVerification, error) {
	query := `
		UPDATE location_verifications
		SET status = $2, verified_by = $3, updated_at = CURRENT_TIMESTAMP
		WHERE location_id = $1
		RETURNING id, location_id, status, verified_by, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.db)
	verification := &models.LocationVerification{}
	err := executor.QueryRowContext(ctx, query, locationID, status, adminID).Scan(
		&verification.ID,
		&verification.LocationID,
		&verification.Status,
		&verification.VerifiedBy,
		&verification.CreatedAt,
		&verification.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, "location verification")
	}

	r.logger.Debug("location verification updated",
		zap.Int64("location_id", locationID),
		zap.String("status", string(status)))
	return verification, nil
}

// WithTx returns a repository bound to the transaction
func (r *LocationRepository) WithTx(tx repositories.Transaction) repositories.LocationRepository {
	return r
}
