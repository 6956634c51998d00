package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

const refreshSecretBytes = 64

// RefreshService manages the rotating refresh-token lifecycle. Clients hold an
// opaque urlsafe secret; only its sha256 hex digest is persisted, so a leaked
// database cannot mint refresh calls.
type RefreshService struct {
	tokens repositories.RefreshTokenRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewRefreshService creates a new refresh service
func NewRefreshService(tokens repositories.RefreshTokenRepository, ttl time.Duration, logger *zap.Logger) *RefreshService {
	return &RefreshService{
		tokens: tokens,
		ttl:    ttl,
		logger: logger,
	}
}

// hashSecret is the persistence form of a refresh secret
func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// newSecret draws a fresh opaque refresh secret
func newSecret() (string, error) {
	raw := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to draw refresh secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Issue mints a refresh secret for the principal, persists its digest, and
// returns the plaintext secret. The plaintext is never stored.
func (s *RefreshService) Issue(ctx context.Context, ref auth.PrincipalRef) (string, error) {
	if err := ref.Validate(); err != nil {
		return "", NewDomainError(ErrorTypeInternal, "invalid refresh principal", err)
	}

	secret, err := newSecret()
	if err != nil {
		return "", WrapInternal("failed to issue refresh token", err)
	}

	row := &models.RefreshToken{
		TokenHash: hashSecret(secret),
		ExpiresAt: time.Now().Add(s.ttl),
		IsActive:  true,
	}
	id := ref.ID
	switch ref.Kind {
	case auth.KindAdmin:
		row.AdminID = &id
	case auth.KindContributor:
		row.ContributorID = &id
	default:
		row.UserID = &id
	}

	if err := s.tokens.Create(ctx, row); err != nil {
		return "", WrapInternal("failed to persist refresh token", err)
	}

	s.logger.Debug("refresh token issued",
		zap.String("kind", string(ref.Kind)),
		zap.Int64("id", ref.ID))
	return secret, nil
}

// Redeem exchanges a live refresh secret for its owning row. Never-issued,
// expired, and revoked secrets all fail with the same opaque error; store
// failures fail closed rather than leak whether the secret exists.
func (s *RefreshService) Redeem(ctx context.Context, kind auth.PrincipalKind, secret string) (*models.RefreshToken, error) {
	if secret == "" {
		return nil, ErrInvalidRefreshToken
	}

	row, err := s.tokens.FindActive(ctx, kind, hashSecret(secret), time.Now())
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			s.logger.Error("refresh token lookup failed", zap.Error(err))
		}
		return nil, ErrInvalidRefreshToken
	}
	return row, nil
}

// Revoke tombstones the secret's row. Revoking an unknown or already revoked
// secret succeeds; logout is idempotent.
func (s *RefreshService) Revoke(ctx context.Context, kind auth.PrincipalKind, secret string) error {
	if secret == "" {
		return nil
	}
	if err := s.tokens.Deactivate(ctx, kind, hashSecret(secret)); err != nil {
		return WrapInternal("failed to revoke refresh token", err)
	}
	return nil
}

// RevokeAll tombstones every refresh row the principal holds. Used after
// password changes so stolen refresh secrets die with the old credential.
func (s *RefreshService) RevokeAll(ctx context.Context, ref auth.PrincipalRef) error {
	if err := s.tokens.DeactivateAllFor(ctx, ref); err != nil {
		return WrapInternal("failed to revoke refresh tokens", err)
	}
	return nil
}

// WithTokens returns a copy of the service bound to a different token
// repository, used to run revocations inside a transaction.
func (s *RefreshService) WithTokens(tokens repositories.RefreshTokenRepository) *RefreshService {
	return &RefreshService{tokens: tokens, ttl: s.ttl, logger: s.logger}
}
