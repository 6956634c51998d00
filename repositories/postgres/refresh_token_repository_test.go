package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
)

func int64ptr(v int64) *int64 { return &v }

func TestRefreshTokenRepository_Create(t *testing.T) {
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	t.Run("user row goes to refresh_tokens", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectQuery("INSERT INTO refresh_tokens").
			WithArgs(int64(42), nil, "hash", expires, true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

		token := &models.RefreshToken{
			UserID:    int64ptr(42),
			TokenHash: "hash",
			ExpiresAt: expires,
			IsActive:  true,
		}
		require.NoError(t, repo.Create(ctx, token))
		assert.Equal(t, int64(1), token.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin row goes to admin_refresh_tokens", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectQuery("INSERT INTO admin_refresh_tokens").
			WithArgs(int64(5), "hash", expires, true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

		token := &models.RefreshToken{
			AdminID:   int64ptr(5),
			TokenHash: "hash",
			ExpiresAt: expires,
			IsActive:  true,
		}
		require.NoError(t, repo.Create(ctx, token))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no principal set is rejected before the store", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		err := repo.Create(ctx, &models.RefreshToken{TokenHash: "hash", ExpiresAt: expires})
		assert.Error(t, err)
	})

	t.Run("two principals set is rejected before the store", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		err := repo.Create(ctx, &models.RefreshToken{
			UserID:        int64ptr(1),
			ContributorID: int64ptr(2),
			TokenHash:     "hash",
			ExpiresAt:     expires,
		})
		assert.Error(t, err)
	})
}

func TestRefreshTokenRepository_FindActive(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("user collection", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
			WithArgs("hash", now).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "contributor_id", "token_hash", "expires_at", "is_active", "created_at",
			}).AddRow(int64(1), int64(42), nil, "hash", now.Add(time.Hour), true, now))

		row, err := repo.FindActive(ctx, auth.KindUser, "hash", now)
		require.NoError(t, err)
		require.NotNil(t, row.UserID)
		assert.Equal(t, int64(42), *row.UserID)
		assert.Nil(t, row.ContributorID)
	})

	t.Run("admin collection", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM admin_refresh_tokens").
			WithArgs("hash", now).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "admin_id", "token_hash", "expires_at", "is_active", "created_at",
			}).AddRow(int64(1), int64(5), "hash", now.Add(time.Hour), true, now))

		row, err := repo.FindActive(ctx, auth.KindAdmin, "hash", now)
		require.NoError(t, err)
		require.NotNil(t, row.AdminID)
		assert.Equal(t, int64(5), *row.AdminID)
	})

	t.Run("unknown hash is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectQuery("SELECT (.+) FROM refresh_tokens").
			WithArgs("missing", now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.FindActive(ctx, auth.KindUser, "missing", now)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})
}

func TestRefreshTokenRepository_Deactivate(t *testing.T) {
	ctx := context.Background()

	t.Run("targets the collection for the kind", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE admin_refresh_tokens SET is_active = false").
			WithArgs("hash").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Deactivate(ctx, auth.KindAdmin, "hash"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		mock.ExpectExec("UPDATE refresh_tokens SET is_active = false").
			WithArgs("unknown").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.NoError(t, repo.Deactivate(ctx, auth.KindUser, "unknown"))
	})
}

func TestRefreshTokenRepository_DeactivateAllFor(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		ref   auth.PrincipalRef
		query string
	}{
		{"user", auth.PrincipalRef{Kind: auth.KindUser, ID: 42},
			`UPDATE refresh_tokens SET is_active = false WHERE user_id`},
		{"contributor", auth.PrincipalRef{Kind: auth.KindContributor, ID: 7},
			`UPDATE refresh_tokens SET is_active = false WHERE contributor_id`},
		{"admin", auth.PrincipalRef{Kind: auth.KindAdmin, ID: 5},
			`UPDATE admin_refresh_tokens SET is_active = false WHERE admin_id`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewRefreshTokenRepository(db, zap.NewNop())

			mock.ExpectExec(tt.query).
				WithArgs(tt.ref.ID).
				WillReturnResult(sqlmock.NewResult(0, 3))

			require.NoError(t, repo.DeactivateAllFor(ctx, tt.ref))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("invalid ref is rejected", func(t *testing.T) {
		db, _ := newMockDB(t)
		repo := NewRefreshTokenRepository(db, zap.NewNop())

		assert.Error(t, repo.DeactivateAllFor(ctx, auth.PrincipalRef{Kind: "robot", ID: 1}))
	})
}
