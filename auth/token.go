package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/A-Malek-CH/Code4Pal-final-submission/config"
)

// Typed decode failures. The resolver maps each to a 401 without distinguishing
// them in the response body.
var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
	ErrWrongTokenType = errors.New("token is not an access token")
)

const accessTokenType = "access"

// AccessClaims is the signed payload of an access token. Access tokens are
// self-contained: decoding requires no store lookup.
type AccessClaims struct {
	UserID        int64         `json:"user_id,omitempty"`
	ContributorID int64         `json:"contributor_id,omitempty"`
	AdminID       int64         `json:"admin_id,omitempty"`
	Kind          PrincipalKind `json:"user_type"`
	TokenType     string        `json:"type"`
	jwt.RegisteredClaims
}

// Identity returns the normalized principal asserted by the claims
func (c *AccessClaims) Identity() Identity {
	return Identity{
		Kind:          c.Kind,
		UserID:        c.UserID,
		ContributorID: c.ContributorID,
		AdminID:       c.AdminID,
	}
}

// TokenCodec encodes and decodes signed access tokens (HS256). The secret and
// TTL are fixed at construction from the startup config snapshot.
type TokenCodec struct {
	secret    []byte
	accessTTL time.Duration
}

// NewTokenCodec creates a codec from the auth config
func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: cfg.AccessTokenTTL,
	}
}

// EncodeAccess mints a signed access token for the identity, stamping
// issued-at now and expires-at now plus the configured TTL.
func (c *TokenCodec) EncodeAccess(id Identity) (string, error) {
	if !ValidKind(id.Kind) {
		return "", fmt.Errorf("cannot encode token for unknown principal kind %q", id.Kind)
	}
	now := time.Now()
	claims := &AccessClaims{
		UserID:        id.UserID,
		ContributorID: id.ContributorID,
		AdminID:       id.AdminID,
		Kind:          id.Kind,
		TokenType:     accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// DecodeAccess verifies a token string and returns the asserted claims.
// Fails with ErrTokenExpired past expires-at, ErrWrongTokenType when the type
// discriminator is not "access", and ErrTokenMalformed for everything else.
func (c *TokenCodec) DecodeAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if claims.TokenType != accessTokenType {
		return nil, ErrWrongTokenType
	}
	if !ValidKind(claims.Kind) {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
