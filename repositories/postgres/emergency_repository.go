package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const emergencyColumns = `id, title, description, latitude, longitude, severity, status, reported_by, created_at, updated_at`

var emergencyUpdatable = map[string]bool{
	"title":       true,
	"description": true,
	"latitude":    true,
	"longitude":   true,
	"severity":    true,
	"status":      true,
}

// EmergencyRepository implements repositories.EmergencyRepository
type EmergencyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewEmergencyRepository creates a new emergency repository
func NewEmergencyRepository(db *DB, logger *zap.Logger) repositories.EmergencyRepository {
	return &EmergencyRepository{
		db:     db,
		logger: logger,
	}
}

func scanEmergency(row interface{ Scan(...interface{}) error }) (*models.Emergency, error) {
	emergency := &models.Emergency{}
	err := row.Scan(
		&emergency.ID,
		&emergency.Title,
		&emergency.Description,
		&emergency.Latitude,
		&emergency.Longitude,
		&emergency.Severity,
		&emergency.Status,
		&emergency.ReportedBy,
		&emergency.CreatedAt,
		&emergency.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return emergency, nil
}

// Create inserts a new emergency report and fills in the store-assigned id
func (r *EmergencyRepository) Create(ctx context.Context, emergency *models.Emergency) error {
	query := `
		INSERT INTO emergencies (title, description, latitude, longitude, severity, status, reported_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	executor := GetExecutor(ctx, r.db)
	err := executor.QueryRowContext(ctx, query,
		emergency.Title,
		emergency.Description,
		emergency.Latitude,
		emergency.Longitude,
		emergency.Severity,
		emergency.Status,
		emergency.ReportedBy,
	).Scan(&emergency.ID, &emergency.CreatedAt, &emergency.UpdatedAt)

	if err != nil {
		return translateError(err, "emergency")
	}

	r.logger.Debug("emergency created", zap.Int64("id", emergency.ID))
	return nil
}

// GetByID retrieves an emergency by id
func (r *EmergencyRepository) GetByID(ctx context.Context, id int64) (*models.Emergency, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergencies WHERE id = $1`, emergencyColumns)

	executor := GetExecutor(ctx, r.db)
	emergency, err := scanEmergency(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "emergency")
	}
	return emergency, nil
}

// List retrieves all emergencies, newest first
func (r *EmergencyRepository) List(ctx context.Context) ([]*models.Emergency, error) {
	query := fmt.Sprintf(`SELECT %s FROM emergencies ORDER BY created_at DESC`, emergencyColumns)

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, translateError(err, "emergencies")
	}
	defer rows.Close()

	var emergencies []*models.Emergency
	for rows.Next() {
		emergency, err := scanEmergency(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan emergency: %w", err)
		}
		emergencies = append(emergencies, emergency)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emergency rows: %w", err)
	}

	return emergencies, nil
}

// Update applies a column patch and returns the updated row
func (r *EmergencyRepository) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Emergency, error) {
	clause, args, err := buildPatch(patch, emergencyUpdatable, 2)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		`UPDATE emergencies SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = $1 RETURNING %s`,
		clause, emergencyColumns,
	)

	executor := GetExecutor(ctx, r.db)
	emergency, err := scanEmergency(executor.QueryRowContext(ctx, query, append([]interface{}{id}, args...)...))
	if err != nil {
		return nil, translateError(err, "emergency")
	}

	r.logger.Debug("emergency updated", zap.Int64("id", id))
	return emergency, nil
}

// Delete removes an emergency row
func (r *EmergencyRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM emergencies WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(err, "emergency")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: emergency %d", repositories.ErrNotFound, id)
	}

	r.logger.Debug("emergency deleted", zap.Int64("id", id))
	return nil
}
