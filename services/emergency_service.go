package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// CreateEmergencyInput carries the fields accepted when reporting an emergency
type CreateEmergencyInput struct {
	Title       string
	Description *string
	Latitude    *float64
	Longitude   *float64
	Severity    *string
	ReportedBy  *int64
}

// EmergencyService handles reported emergencies
type EmergencyService struct {
	emergencies repositories.EmergencyRepository
	logger      *zap.Logger
}

// NewEmergencyService creates a new EmergencyService instance
func NewEmergencyService(emergencies repositories.EmergencyRepository, logger *zap.Logger) *EmergencyService {
	return &EmergencyService{
		emergencies: emergencies,
		logger:      logger,
	}
}

// List returns all emergencies, newest first
func (s *EmergencyService) List(ctx context.Context) ([]*models.Emergency, error) {
	emergencies, err := s.emergencies.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list emergencies", err)
	}
	return emergencies, nil
}

// Get returns one emergency by id
func (s *EmergencyService) Get(ctx context.Context, id int64) (*models.Emergency, error) {
	emergency, err := s.emergencies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmergencyNotFound
		}
		return nil, WrapInternal("failed to load emergency", err)
	}
	return emergency, nil
}

// Create records a new emergency report
func (s *EmergencyService) Create(ctx context.Context, in CreateEmergencyInput) (*models.Emergency, error) {
	if in.Latitude != nil && in.Longitude != nil && !validCoordinates(*in.Latitude, *in.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	emergency := &models.Emergency{
		Title:       in.Title,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Severity:    in.Severity,
		Status:      "open",
		ReportedBy:  in.ReportedBy,
	}
	if err := s.emergencies.Create(ctx, emergency); err != nil {
		return nil, WrapInternal("failed to create emergency", err)
	}

	s.logger.Info("emergency reported", zap.Int64("emergency_id", emergency.ID))
	return emergency, nil
}

// Update applies a field patch to an emergency
func (s *EmergencyService) Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Emergency, error) {
	if len(patch) == 0 {
		return nil, ErrInvalidInput
	}

	emergency, err := s.emergencies.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmergencyNotFound
		}
		return nil, WrapInternal("failed to update emergency", err)
	}
	return emergency, nil
}

// Delete removes an emergency report
func (s *EmergencyService) Delete(ctx context.Context, id int64) error {
	if err := s.emergencies.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEmergencyNotFound
		}
		return WrapInternal("failed to delete emergency", err)
	}
	return nil
}
