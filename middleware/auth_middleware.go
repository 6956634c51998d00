package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/repositories"
	"github.com/A-Malek-CH/Code4Pal-final-submission/utils"
)

// TokenDecoder verifies an access token string and returns its claims
type TokenDecoder interface {
	DecodeAccess(tokenString string) (*auth.AccessClaims, error)
}

// AuthMiddleware resolves the authenticated principal behind each request.
// Admin tokens are re-validated against the admins table on every use; user
// and contributor tokens are trusted from the signature for their full TTL.
type AuthMiddleware struct {
	decoder TokenDecoder
	admins  repositories.AdminRepository
	logger  *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(decoder TokenDecoder, admins repositories.AdminRepository, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		decoder: decoder,
		admins:  admins,
		logger:  logger,
	}
}

// RequireAuth gates a route on a valid access token. With no kinds listed any
// principal passes; otherwise the resolved kind must be one of them. Decode
// failures are a 401 with one generic message; a wrong role is a 403.
func (m *AuthMiddleware) RequireAuth(kinds ...auth.PrincipalKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			token := extractBearerToken(r)
			if token == "" {
				m.logger.Warn("missing bearer token",
					zap.String("request_id", requestID))
				_ = utils.WriteUnauthorized(w, "Missing or invalid authorization")
				return
			}

			claims, err := m.decoder.DecodeAccess(token)
			if err != nil {
				m.logger.Warn("token validation failed",
					zap.String("request_id", requestID),
					zap.Error(err))
				_ = utils.WriteUnauthorized(w, "Invalid or expired token")
				return
			}

			identity := claims.Identity()

			if len(kinds) > 0 && !kindAllowed(identity.Kind, kinds) {
				m.logger.Warn("principal kind not allowed",
					zap.String("request_id", requestID),
					zap.String("kind", string(identity.Kind)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}

			if identity.Kind == auth.KindAdmin {
				ctx, err = m.resolveAdmin(ctx, identity)
				if err != nil {
					m.logger.Warn("admin liveness check failed",
						zap.String("request_id", requestID),
						zap.Int64("admin_id", identity.AdminID),
						zap.Error(err))
					_ = utils.WriteUnauthorized(w, "Invalid or expired token")
					return
				}
			}

			ctx = WithIdentity(ctx, identity)

			m.logger.Debug("authentication successful",
				zap.String("request_id", requestID),
				zap.String("kind", string(identity.Kind)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveAdmin re-fetches the admin row. A missing or deactivated admin fails
// resolution even when the token signature is valid.
func (m *AuthMiddleware) resolveAdmin(ctx context.Context, identity auth.Identity) (context.Context, error) {
	admin, err := m.admins.GetActiveByID(ctx, identity.AdminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ctx, errors.New("admin missing or inactive")
		}
		// store failure is an authentication failure, never fail open
		return ctx, err
	}
	return WithAdmin(ctx, admin), nil
}

func kindAllowed(kind auth.PrincipalKind, kinds []auth.PrincipalKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
