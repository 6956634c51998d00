package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/A-Malek-CH/Code4Pal-final-submission/config"
)

func newTestCodec(ttl time.Duration) *TokenCodec {
	return NewTokenCodec(config.AuthConfig{
		JWTSecret:      "unit-test-secret",
		AccessTokenTTL: ttl,
	})
}

func TestTokenCodec_EncodeDecode(t *testing.T) {
	codec := newTestCodec(time.Hour)

	tests := []struct {
		name     string
		identity Identity
	}{
		{"user", Identity{Kind: KindUser, UserID: 42}},
		{"contributor", Identity{Kind: KindContributor, UserID: 42, ContributorID: 7}},
		{"admin", Identity{Kind: KindAdmin, AdminID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.EncodeAccess(tt.identity)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := codec.DecodeAccess(token)
			require.NoError(t, err)
			assert.Equal(t, tt.identity, claims.Identity())
			assert.NotEmpty(t, claims.ID, "each token carries a unique jti")
		})
	}
}

func TestTokenCodec_EncodeAccess_UnknownKind(t *testing.T) {
	codec := newTestCodec(time.Hour)

	_, err := codec.EncodeAccess(Identity{Kind: "robot", UserID: 1})
	assert.Error(t, err)
}

func TestTokenCodec_DecodeAccess_Failures(t *testing.T) {
	codec := newTestCodec(time.Hour)

	t.Run("expired token", func(t *testing.T) {
		expired := newTestCodec(-time.Minute)
		token, err := expired.EncodeAccess(Identity{Kind: KindUser, UserID: 1})
		require.NoError(t, err)

		_, err = codec.DecodeAccess(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenCodec(config.AuthConfig{
			JWTSecret:      "a-different-secret",
			AccessTokenTTL: time.Hour,
		})
		token, err := other.EncodeAccess(Identity{Kind: KindUser, UserID: 1})
		require.NoError(t, err)

		_, err = codec.DecodeAccess(token)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := codec.DecodeAccess("not.a.jwt")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := codec.DecodeAccess("")
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("wrong token type discriminator", func(t *testing.T) {
		claims := &AccessClaims{
			UserID:    1,
			Kind:      KindUser,
			TokenType: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		require.NoError(t, err)

		_, err = codec.DecodeAccess(signed)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("unknown principal kind in claims", func(t *testing.T) {
		claims := &AccessClaims{
			UserID:    1,
			Kind:      "robot",
			TokenType: accessTokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("unit-test-secret"))
		require.NoError(t, err)

		_, err = codec.DecodeAccess(signed)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		claims := &AccessClaims{
			UserID:    1,
			Kind:      KindUser,
			TokenType: accessTokenType,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = codec.DecodeAccess(unsigned)
		assert.ErrorIs(t, err, ErrTokenMalformed)
	})
}
