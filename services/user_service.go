package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
	"github.com/A-Malek-CH/Code4Pal-final-submission/services/mail"
)

const verificationCodeTTL = 10 * time.Minute

// UserService handles user records and the email confirmation flow
type UserService struct {
	users         repositories.UserRepository
	verifications repositories.EmailVerificationRepository
	mailer        mail.Mailer
	logger        *zap.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(
	users repositories.UserRepository,
	verifications repositories.EmailVerificationRepository,
	mailer mail.Mailer,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:         users,
		verifications: verifications,
		mailer:        mailer,
		logger:        logger,
	}
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list users", err)
	}
	return users, nil
}

// Get returns one user by id
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, WrapInternal("failed to load user", err)
	}
	return user, nil
}

// Add creates an unverified anonymous account and emails a confirmation code.
// The account is promoted to registered once the code is confirmed.
func (s *UserService) Add(ctx context.Context, email string, preferredLanguage string) (*models.User, error) {
	if preferredLanguage == "" {
		preferredLanguage = "en"
	}

	user := &models.User{
		Email:             email,
		UserType:          models.UserTypeAnonymous,
		PreferredLanguage: preferredLanguage,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, WrapInternal("failed to create user", err)
	}

	if err := s.sendCode(ctx, email); err != nil {
		return nil, err
	}

	s.logger.Info("user added pending verification", zap.Int64("user_id", user.ID))
	return user, nil
}

func (s *UserService) sendCode(ctx context.Context, email string) error {
	code, err := mail.GenerateCode()
	if err != nil {
		return WrapInternal("failed to generate verification code", err)
	}

	verification := &models.EmailVerification{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(verificationCodeTTL),
	}
	if err := s.verifications.Create(ctx, verification); err != nil {
		return WrapInternal("failed to persist verification code", err)
	}

	if err := s.mailer.SendVerificationCode(email, code); err != nil {
		return ErrMailDeliveryFailed
	}
	return nil
}

// VerifyEmail confirms a code against the most recent one issued for the
// email. Success flips is_email_verified and promotes the account.
func (s *UserService) VerifyEmail(ctx context.Context, email, code string) (*models.User, error) {
	verification, err := s.verifications.GetLatestByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, WrapInternal("failed to load verification code", err)
	}

	if verification.Verified {
		return nil, ErrAlreadyVerified
	}
	if verification.Expired(time.Now()) {
		return nil, ErrCodeExpired
	}
	if verification.Code != code {
		return nil, ErrCodeMismatch
	}

	if err := s.verifications.MarkVerified(ctx, verification.ID); err != nil {
		return nil, WrapInternal("failed to mark code verified", err)
	}

	user, err := s.users.MarkEmailVerified(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, WrapInternal("failed to mark email verified", err)
	}

	s.logger.Info("email verified", zap.Int64("user_id", user.ID))
	return user, nil
}

// ResendCode issues a fresh confirmation code for a known, unverified email
func (s *UserService) ResendCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return WrapInternal("failed to load user", err)
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	return s.sendCode(ctx, email)
}

// Update applies a field patch to a user. Callers must already hold the right
// to modify this user; the patch is filtered for role-restricted fields here.
func (s *UserService) Update(ctx context.Context, actor auth.Identity, id int64, patch map[string]interface{}) (*models.User, error) {
	if !auth.CanModifyUser(actor, id) {
		return nil, ErrNotResourceOwner
	}

	filtered := auth.FilterUserUpdate(patch, actor.IsAdmin())
	if len(filtered) == 0 {
		return nil, ErrInvalidInput
	}

	if rawType, ok := filtered["user_type"]; ok {
		t, _ := rawType.(string)
		if !models.ValidUserType(models.UserType(t)) {
			return nil, ErrInvalidUserType
		}
	}

	user, err := s.users.Update(ctx, id, filtered)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, WrapInternal("failed to update user", err)
	}
	return user, nil
}

// Delete removes a user. Owner-or-admin only.
func (s *UserService) Delete(ctx context.Context, actor auth.Identity, id int64) error {
	if !auth.CanModifyUser(actor, id) {
		return ErrNotResourceOwner
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return WrapInternal("failed to delete user", err)
	}
	return nil
}
