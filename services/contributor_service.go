package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

// ContributorService handles contributor profile records
type ContributorService struct {
	contributors repositories.ContributorRepository
	logger       *zap.Logger
}

// NewContributorService creates a new ContributorService instance
func NewContributorService(contributors repositories.ContributorRepository, logger *zap.Logger) *ContributorService {
	return &ContributorService{
		contributors: contributors,
		logger:       logger,
	}
}

// List returns all contributors
func (s *ContributorService) List(ctx context.Context) ([]*models.Contributor, error) {
	contributors, err := s.contributors.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list contributors", err)
	}
	return contributors, nil
}

// Get returns one contributor by id
func (s *ContributorService) Get(ctx context.Context, id int64) (*models.Contributor, error) {
	contributor, err := s.contributors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContributorNotFound
		}
		return nil, WrapInternal("failed to load contributor", err)
	}
	return contributor, nil
}

// Create attaches a contributor profile to an existing user
func (s *ContributorService) Create(ctx context.Context, userID int64, contributorType string, motivation *string) (*models.Contributor, error) {
	if !models.ValidContributorType(models.ContributorType(contributorType)) {
		return nil, ErrInvalidContributorType
	}

	contributor := &models.Contributor{
		UserID:             userID,
		ContributorType:    models.ContributorType(contributorType),
		VerificationStatus: models.VerificationPending,
		Motivation:         motivation,
	}
	if err := s.contributors.Create(ctx, contributor); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, NewDomainError(ErrorTypeConflict, "contributor profile already exists", err)
		}
		return nil, WrapInternal("failed to create contributor", err)
	}

	return contributor, nil
}

// Update applies a field patch to a contributor. Owner-or-admin only;
// verification fields are stripped for non-admins.
func (s *ContributorService) Update(ctx context.Context, actor auth.Identity, id int64, patch map[string]interface{}) (*models.Contributor, error) {
	if !auth.CanModifyContributor(actor, id) {
		return nil, ErrNotResourceOwner
	}

	filtered := auth.FilterContributorUpdate(patch, actor.IsAdmin())
	if len(filtered) == 0 {
		return nil, ErrInvalidInput
	}

	if rawType, ok := filtered["contributor_type"]; ok {
		t, _ := rawType.(string)
		if !models.ValidContributorType(models.ContributorType(t)) {
			return nil, ErrInvalidContributorType
		}
	}

	contributor, err := s.contributors.Update(ctx, id, filtered)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContributorNotFound
		}
		return nil, WrapInternal("failed to update contributor", err)
	}
	return contributor, nil
}

// Delete removes a contributor profile. Owner-or-admin only.
func (s *ContributorService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if !auth.CanModifyContributor(actor, id) {
		return ErrNotResourceOwner
	}

	if err := s.contributors.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContributorNotFound
		}
		return WrapInternal("failed to delete contributor", err)
	}

	s.logger.Info("contributor deleted", zap.Int64("contributor_id", id))
	return nil
}
