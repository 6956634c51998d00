package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
)

func newTestRefreshService(repo *fakeRefreshRepo, ttl time.Duration) *RefreshService {
	return NewRefreshService(repo, ttl, zap.NewNop())
}

func TestRefreshService_IssueAndRedeem(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRefreshRepo()
	svc := newTestRefreshService(repo, time.Hour)

	secret, err := svc.Issue(ctx, auth.PrincipalRef{Kind: auth.KindUser, ID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	t.Run("plaintext secret is never persisted", func(t *testing.T) {
		require.Len(t, repo.rows, 1)
		assert.NotEqual(t, secret, repo.rows[0].TokenHash)
		assert.Equal(t, hashSecret(secret), repo.rows[0].TokenHash)
	})

	t.Run("redeem returns the owning row", func(t *testing.T) {
		row, err := svc.Redeem(ctx, auth.KindUser, secret)
		require.NoError(t, err)
		require.NotNil(t, row.UserID)
		assert.Equal(t, int64(42), *row.UserID)
	})

	t.Run("redeem is repeatable until revoked", func(t *testing.T) {
		_, err := svc.Redeem(ctx, auth.KindUser, secret)
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(ctx, auth.KindUser, secret))

		_, err = svc.Redeem(ctx, auth.KindUser, secret)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestRefreshService_Issue_InvalidRef(t *testing.T) {
	svc := newTestRefreshService(newFakeRefreshRepo(), time.Hour)

	_, err := svc.Issue(context.Background(), auth.PrincipalRef{Kind: "robot", ID: 1})
	assert.True(t, IsInternalError(err))

	_, err = svc.Issue(context.Background(), auth.PrincipalRef{Kind: auth.KindUser, ID: 0})
	assert.True(t, IsInternalError(err))
}

func TestRefreshService_Redeem_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("empty secret", func(t *testing.T) {
		svc := newTestRefreshService(newFakeRefreshRepo(), time.Hour)
		_, err := svc.Redeem(ctx, auth.KindUser, "")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("never issued secret", func(t *testing.T) {
		svc := newTestRefreshService(newFakeRefreshRepo(), time.Hour)
		_, err := svc.Redeem(ctx, auth.KindUser, "made-up-secret")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("expired secret", func(t *testing.T) {
		repo := newFakeRefreshRepo()
		svc := newTestRefreshService(repo, -time.Minute)
		secret, err := svc.Issue(ctx, auth.PrincipalRef{Kind: auth.KindUser, ID: 1})
		require.NoError(t, err)

		_, err = svc.Redeem(ctx, auth.KindUser, secret)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("store failure fails closed with the same opaque error", func(t *testing.T) {
		repo := newFakeRefreshRepo()
		repo.forcedErr = errors.New("connection refused")
		svc := newTestRefreshService(repo, time.Hour)

		_, err := svc.Redeem(ctx, auth.KindUser, "any-secret")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("admin secret is invisible to the user collection", func(t *testing.T) {
		repo := newFakeRefreshRepo()
		svc := newTestRefreshService(repo, time.Hour)
		secret, err := svc.Issue(ctx, auth.PrincipalRef{Kind: auth.KindAdmin, ID: 5})
		require.NoError(t, err)

		_, err = svc.Redeem(ctx, auth.KindUser, secret)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)

		_, err = svc.Redeem(ctx, auth.KindAdmin, secret)
		assert.NoError(t, err)
	})
}

func TestRefreshService_Revoke_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRefreshRepo()
	svc := newTestRefreshService(repo, time.Hour)

	assert.NoError(t, svc.Revoke(ctx, auth.KindUser, ""))
	assert.NoError(t, svc.Revoke(ctx, auth.KindUser, "unknown-secret"))

	secret, err := svc.Issue(ctx, auth.PrincipalRef{Kind: auth.KindUser, ID: 1})
	require.NoError(t, err)

	assert.NoError(t, svc.Revoke(ctx, auth.KindUser, secret))
	assert.NoError(t, svc.Revoke(ctx, auth.KindUser, secret))
}

func TestRefreshService_RevokeAll(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRefreshRepo()
	svc := newTestRefreshService(repo, time.Hour)

	for i := 0; i < 3; i++ {
		_, err := svc.Issue(ctx, auth.PrincipalRef{Kind: auth.KindUser, ID: 7})
		require.NoError(t, err)
	}
	otherSecret, err := svc.Issue(ctx, auth.PrincipalRef{Kind: auth.KindUser, ID: 8})
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, auth.PrincipalRef{Kind: auth.KindUser, ID: 7}))

	assert.Equal(t, 1, repo.activeCount())
	_, err = svc.Redeem(ctx, auth.KindUser, otherSecret)
	assert.NoError(t, err, "other principals keep their sessions")
}

func TestHashSecret_Deterministic(t *testing.T) {
	assert.Equal(t, hashSecret("abc"), hashSecret("abc"))
	assert.NotEqual(t, hashSecret("abc"), hashSecret("abd"))
	assert.Len(t, hashSecret("abc"), 64)
}
