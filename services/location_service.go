package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// CreateLocationInput carries the fields accepted when submitting a location
type CreateLocationInput struct {
	Name        string
	Description *string
	Latitude    float64
	Longitude   float64
	Category    *string
	CreatedBy   *int64
}

// LocationService handles mapped locations and their admin review
type LocationService struct {
	locations repositories.LocationRepository
	txMgr     repositories.TransactionManager
	logger    *zap.Logger
}

// NewLocationService creates a new LocationService instance
func NewLocationService(locations repositories.LocationRepository, txMgr repositories.TransactionManager, logger *zap.Logger) *LocationService {
	return &LocationService{
		locations: locations,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// List returns all locations
func (s *LocationService) List(ctx context.Context) ([]*models.Location, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list locations", err)
	}
	return locations, nil
}

// Get returns one location by id
func (s *LocationService) Get(ctx context.Context, id int64) (*models.Location, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, WrapInternal("failed to load location", err)
	}
	return location, nil
}

// Create inserts a location together with its initial unverified review row
func (s *LocationService) Create(ctx context.Context, in CreateLocationInput) (*models.Location, error) {
	if !validCoordinates(in.Latitude, in.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	location := &models.Location{
		Name:        in.Name,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Category:    in.Category,
		CreatedBy:   in.CreatedBy,
	}

	err := WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		repo := s.locations.WithTx(tx)
		if err := repo.Create(txCtx, location); err != nil {
			return err
		}
		verification := &models.LocationVerification{
			LocationID: location.ID,
			Status:     models.LocationUnverified,
		}
		return repo.CreateVerification(txCtx, verification)
	})
	if err != nil {
		return nil, WrapInternal("failed to create location", err)
	}

	s.logger.Info("location created", zap.Int64("location_id", location.ID))
	return location, nil
}

// Verify marks a location's review record with the given status on behalf of
// an admin. The route gates on the admin role before calling this.
func (s *LocationService) Verify(ctx context.Context, locationID int64, status models.LocationStatus, adminID int64) (*models.LocationVerification, error) {
	if status != models.LocationVerified && status != models.LocationUnverified {
		return nil, NewDomainError(ErrorTypeValidation, "status must be verified or unverified", nil)
	}

	verification, err := s.locations.UpdateVerification(ctx, locationID, status, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, WrapInternal("failed to update location verification", err)
	}

	s.logger.Info("location reviewed",
		zap.Int64("location_id", locationID),
		zap.String("status", string(status)),
		zap.Int64("admin_id", adminID))
	return verification, nil
}

// Update applies a field patch to a location
func (s *LocationService) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Location, error) {
	if len(patch) == 0 {
		return nil, ErrInvalidInput
	}

	location, err := s.locations.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, WrapInternal("failed to update location", err)
	}
	return location, nil
}

// Delete removes a location
func (s *LocationService) Delete(ctx context.Context, id int64) error {
	if err := s.locations.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrLocationNotFound
		}
		return WrapInternal("failed to delete location", err)
	}
	return nil
}
