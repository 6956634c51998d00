package models

import "time"

// RefreshToken is a persisted refresh secret row. Only the SHA-256 hash of the
// raw secret is stored; the raw value is returned to the caller exactly once at
// issuance. Exactly one of UserID, ContributorID, AdminID is set. Revocation
// tombstones the row (IsActive=false); rows are never deleted in normal
// operation and expiry is filtered at read time.
type RefreshToken struct {
	ID            int64     `json:"id" db:"id"`
	UserID        *int64    `json:"user_id,omitempty" db:"user_id"`
	ContributorID *int64    `json:"contributor_id,omitempty" db:"contributor_id"`
	AdminID       *int64    `json:"admin_id,omitempty" db:"admin_id"`
	TokenHash     string    `json:"-" db:"token_hash"`
	ExpiresAt     time.Time `json:"expires_at" db:"expires_at"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
