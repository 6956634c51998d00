package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const minPasswordLength = 8

// TokenPair is what login and registration hand back to the client
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RegisterUserInput carries the fields accepted at user registration
type RegisterUserInput struct {
	Email             string
	Password          string
	FirstName         *string
	LastName          *string
	PhoneNumber       *string
	PreferredLanguage string
}

// RegisterContributorInput carries the fields accepted at contributor
// registration. The user account and contributor profile are created together.
type RegisterContributorInput struct {
	RegisterUserInput
	ContributorType string
	Motivation      *string
}

// AuthService orchestrates registration, login, token refresh, logout, and
// password changes for all three principal kinds.
type AuthService struct {
	users        repositories.UserRepository
	contributors repositories.ContributorRepository
	admins       repositories.AdminRepository
	refresh      *RefreshService
	hasher       *auth.PasswordHasher
	codec        *auth.TokenCodec
	txMgr        repositories.TransactionManager
	logger       *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(
	users repositories.UserRepository,
	contributors repositories.ContributorRepository,
	admins repositories.AdminRepository,
	refresh *RefreshService,
	hasher *auth.PasswordHasher,
	codec *auth.TokenCodec,
	txMgr repositories.TransactionManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		contributors: contributors,
		admins:       admins,
		refresh:      refresh,
		hasher:       hasher,
		codec:        codec,
		txMgr:        txMgr,
		logger:       logger,
	}
}

func (s *AuthService) issueTokens(ctx context.Context, id auth.Identity, ref auth.PrincipalRef) (*TokenPair, error) {
	access, err := s.codec.EncodeAccess(id)
	if err != nil {
		return nil, WrapInternal("failed to mint access token", err)
	}

	secret, err := s.refresh.Issue(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: secret,
		TokenType:    "Bearer",
	}, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// RegisterUser creates a user account and signs it in
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterUserInput) (*models.User, *TokenPair, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, WrapInternal("failed to hash password", err)
	}

	if in.PreferredLanguage == "" {
		in.PreferredLanguage = "en"
	}
	user := &models.User{
		Email:             in.Email,
		PasswordHash:      hash,
		UserType:          models.UserTypeRegistered,
		FirstName:         in.FirstName,
		LastName:          in.LastName,
		PhoneNumber:       in.PhoneNumber,
		PreferredLanguage: in.PreferredLanguage,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, nil, ErrDuplicateEmail
		}
		return nil, nil, WrapInternal("failed to create user", err)
	}

	tokens, err := s.issueTokens(ctx,
		auth.Identity{Kind: auth.KindUser, UserID: user.ID},
		auth.PrincipalRef{Kind: auth.KindUser, ID: user.ID})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, tokens, nil
}

// RegisterContributor creates the user account and contributor profile in one
// transaction. A rejected contributor_type leaves no rows behind.
func (s *AuthService) RegisterContributor(ctx context.Context, in RegisterContributorInput) (*models.Contributor, *TokenPair, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, nil, err
	}
	if !models.ValidContributorType(models.ContributorType(in.ContributorType)) {
		return nil, nil, ErrInvalidContributorType
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, WrapInternal("failed to hash password", err)
	}

	var user *models.User
	var contributor *models.Contributor

	if in.PreferredLanguage == "" {
		in.PreferredLanguage = "en"
	}

	err = WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		user = &models.User{
			Email:             in.Email,
			PasswordHash:      hash,
			UserType:          models.UserTypeContributor,
			FirstName:         in.FirstName,
			LastName:          in.LastName,
			PhoneNumber:       in.PhoneNumber,
			PreferredLanguage: in.PreferredLanguage,
		}
		if err := s.users.WithTx(tx).Create(txCtx, user); err != nil {
			return err
		}

		contributor = &models.Contributor{
			UserID:             user.ID,
			ContributorType:    models.ContributorType(in.ContributorType),
			VerificationStatus: models.VerificationPending,
			Verified:           false,
			Motivation:         in.Motivation,
			PasswordHash:       hash,
		}
		return s.contributors.WithTx(tx).Create(txCtx, contributor)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, nil, ErrDuplicateEmail
		}
		return nil, nil, WrapInternal("failed to register contributor", err)
	}

	tokens, err := s.issueTokens(ctx,
		auth.Identity{Kind: auth.KindContributor, UserID: user.ID, ContributorID: contributor.ID},
		auth.PrincipalRef{Kind: auth.KindContributor, ID: contributor.ID})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("contributor registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("contributor_id", contributor.ID))
	return contributor, tokens, nil
}

// LoginUser authenticates a user by email and password
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, WrapInternal("failed to load user", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx,
		auth.Identity{Kind: auth.KindUser, UserID: user.ID},
		auth.PrincipalRef{Kind: auth.KindUser, ID: user.ID})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID))
	return user, tokens, nil
}

// LoginContributor authenticates a contributor. The contributor's own password
// hash is tried first; when absent the owning user's hash is the fallback.
// Unverified contributors authenticate but are refused.
func (s *AuthService) LoginContributor(ctx context.Context, email, password string) (*models.Contributor, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, WrapInternal("failed to load user", err)
	}

	contributor, err := s.contributors.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, WrapInternal("failed to load contributor", err)
	}

	digest := contributor.PasswordHash
	if digest == "" {
		digest = user.PasswordHash
	}
	if !s.hasher.Verify(password, digest) {
		return nil, nil, ErrInvalidCredentials
	}

	if !contributor.Verified {
		return nil, nil, ErrContributorNotVerified
	}

	tokens, err := s.issueTokens(ctx,
		auth.Identity{Kind: auth.KindContributor, UserID: user.ID, ContributorID: contributor.ID},
		auth.PrincipalRef{Kind: auth.KindContributor, ID: contributor.ID})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("contributor logged in", zap.Int64("contributor_id", contributor.ID))
	return contributor, tokens, nil
}

// AdminLogin authenticates an administrator. Only active admins may log in;
// the last_login stamp is updated on success.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*models.Admin, *TokenPair, error) {
	admin, err := s.admins.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, WrapInternal("failed to load admin", err)
	}

	if !s.hasher.Verify(password, admin.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.admins.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warn("failed to stamp admin last_login",
			zap.Int64("admin_id", admin.ID), zap.Error(err))
	} else {
		admin.LastLogin = &now
	}

	tokens, err := s.issueTokens(ctx,
		auth.Identity{Kind: auth.KindAdmin, AdminID: admin.ID},
		auth.PrincipalRef{Kind: auth.KindAdmin, ID: admin.ID})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("admin logged in", zap.Int64("admin_id", admin.ID))
	return admin, tokens, nil
}

// Refresh redeems a user or contributor refresh secret for a fresh access
// token. The owning principal must still exist; a dangling row fails closed.
func (s *AuthService) Refresh(ctx context.Context, secret string) (string, error) {
	var kind auth.PrincipalKind
	var id auth.Identity

	row, err := s.refresh.Redeem(ctx, auth.KindUser, secret)
	if err != nil {
		return "", err
	}

	switch {
	case row.ContributorID != nil:
		kind = auth.KindContributor
		contributor, err := s.contributors.GetByID(ctx, *row.ContributorID)
		if err != nil {
			return "", ErrInvalidRefreshToken
		}
		id = auth.Identity{Kind: kind, UserID: contributor.UserID, ContributorID: contributor.ID}
	case row.UserID != nil:
		kind = auth.KindUser
		user, err := s.users.GetByID(ctx, *row.UserID)
		if err != nil {
			return "", ErrInvalidRefreshToken
		}
		id = auth.Identity{Kind: kind, UserID: user.ID}
	default:
		return "", ErrInvalidRefreshToken
	}

	access, err := s.codec.EncodeAccess(id)
	if err != nil {
		return "", WrapInternal("failed to mint access token", err)
	}
	return access, nil
}

// AdminRefresh redeems an admin refresh secret. The admin must still be
// active; deactivation kills outstanding refresh secrets immediately.
func (s *AuthService) AdminRefresh(ctx context.Context, secret string) (string, error) {
	row, err := s.refresh.Redeem(ctx, auth.KindAdmin, secret)
	if err != nil {
		return "", err
	}
	if row.AdminID == nil {
		return "", ErrInvalidRefreshToken
	}

	admin, err := s.admins.GetActiveByID(ctx, *row.AdminID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	access, err := s.codec.EncodeAccess(auth.Identity{Kind: auth.KindAdmin, AdminID: admin.ID})
	if err != nil {
		return "", WrapInternal("failed to mint access token", err)
	}
	return access, nil
}

// Logout revokes the supplied user or contributor refresh secret
func (s *AuthService) Logout(ctx context.Context, secret string) error {
	return s.refresh.Revoke(ctx, auth.KindUser, secret)
}

// AdminLogout revokes the supplied admin refresh secret
func (s *AuthService) AdminLogout(ctx context.Context, secret string) error {
	return s.refresh.Revoke(ctx, auth.KindAdmin, secret)
}

// ChangePassword verifies the current password, persists a new hash, and
// revokes every outstanding refresh secret for the principal.
func (s *AuthService) ChangePassword(ctx context.Context, id auth.Identity, current, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	switch id.Kind {
	case auth.KindUser:
		return s.changeUserPassword(ctx, id.UserID, current, newPassword)
	case auth.KindContributor:
		return s.changeContributorPassword(ctx, id.ContributorID, current, newPassword)
	default:
		return ErrForbidden
	}
}

func (s *AuthService) changeUserPassword(ctx context.Context, userID int64, current, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return WrapInternal("failed to load user", err)
	}

	if !s.hasher.Verify(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	return WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.users.WithTx(tx).UpdatePasswordHash(txCtx, userID, hash); err != nil {
			return err
		}
		return s.refresh.WithTokens(s.refresh.tokens.WithTx(tx)).
			RevokeAll(txCtx, auth.PrincipalRef{Kind: auth.KindUser, ID: userID})
	})
}

func (s *AuthService) changeContributorPassword(ctx context.Context, contributorID int64, current, newPassword string) error {
	contributor, err := s.contributors.GetByID(ctx, contributorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrContributorNotFound
		}
		return WrapInternal("failed to load contributor", err)
	}

	digest := contributor.PasswordHash
	if digest == "" {
		user, err := s.users.GetByID(ctx, contributor.UserID)
		if err != nil {
			return WrapInternal("failed to load owning user", err)
		}
		digest = user.PasswordHash
	}
	if !s.hasher.Verify(current, digest) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	return WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.contributors.WithTx(tx).UpdatePasswordHash(txCtx, contributorID, hash); err != nil {
			return err
		}
		return s.refresh.WithTokens(s.refresh.tokens.WithTx(tx)).
			RevokeAll(txCtx, auth.PrincipalRef{Kind: auth.KindContributor, ID: contributorID})
	})
}

// AdminChangePassword verifies the current admin password, persists a new
// hash, and revokes every outstanding admin refresh secret.
func (s *AuthService) AdminChangePassword(ctx context.Context, adminID int64, current, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	admin, err := s.admins.GetActiveByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAdminNotFound
		}
		return WrapInternal("failed to load admin", err)
	}

	if !s.hasher.Verify(current, admin.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return WrapInternal("failed to hash password", err)
	}

	return WithTransaction(ctx, s.txMgr, func(txCtx context.Context, tx repositories.Transaction) error {
		if err := s.admins.WithTx(tx).UpdatePasswordHash(txCtx, adminID, hash); err != nil {
			return err
		}
		return s.refresh.WithTokens(s.refresh.tokens.WithTx(tx)).
			RevokeAll(txCtx, auth.PrincipalRef{Kind: auth.KindAdmin, ID: adminID})
	})
}

// CurrentPrincipal loads the record behind an authenticated identity
func (s *AuthService) CurrentPrincipal(ctx context.Context, id auth.Identity) (interface{}, error) {
	switch id.Kind {
	case auth.KindAdmin:
		admin, err := s.admins.GetActiveByID(ctx, id.AdminID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrAdminNotFound
			}
			return nil, WrapInternal("failed to load admin", err)
		}
		return admin, nil
	case auth.KindContributor:
		contributor, err := s.contributors.GetByID(ctx, id.ContributorID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrContributorNotFound
			}
			return nil, WrapInternal("failed to load contributor", err)
		}
		return contributor, nil
	default:
		user, err := s.users.GetByID(ctx, id.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, WrapInternal("failed to load user", err)
		}
		return user, nil
	}
}
