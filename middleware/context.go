package middleware

import (
	"context"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// IdentityKey is the context key for the resolved principal identity
	IdentityKey contextKey = "identity"

	// AdminKey is the context key for the full admin record attached after the
	// liveness re-check
	AdminKey contextKey = "admin"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetIdentityFromContext retrieves the resolved identity from context.
// The second return is false on routes that never passed through RequireAuth.
func GetIdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	if val := ctx.Value(IdentityKey); val != nil {
		if id, ok := val.(auth.Identity); ok {
			return id, true
		}
	}
	return auth.Identity{}, false
}

// WithIdentity adds a resolved identity to the context
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// GetAdminFromContext retrieves the re-validated admin record from context
func GetAdminFromContext(ctx context.Context) *models.Admin {
	if val := ctx.Value(AdminKey); val != nil {
		if admin, ok := val.(*models.Admin); ok {
			return admin
		}
	}
	return nil
}

// WithAdmin adds the re-validated admin record to the context
func WithAdmin(ctx context.Context, admin *models.Admin) context.Context {
	return context.WithValue(ctx, AdminKey, admin)
}
