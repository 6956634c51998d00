package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/A-Malek-CH/Code4Pal-final-submission/auth"
	"github.com/A-Malek-CH/Code4Pal-final-submission/models"
)

// Sentinel errors surfaced by all repositories. Services translate these to
// domain errors; raw driver errors never cross the service boundary.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserRepository handles user account rows
type UserRepository interface {
	// Create inserts a new user and fills in the store-assigned id
	Create(ctx context.Context, user *models.User) error

	// GetByID retrieves a user by id
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByEmail retrieves a user by exact email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsByEmail reports whether any user row carries the email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List retrieves all users
	List(ctx context.Context) ([]*models.User, error)

	// Update applies a column patch and returns the updated row.
	// Unknown columns in the patch are rejected.
	Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.User, error)

	// UpdatePasswordHash replaces the stored credential digest
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// MarkEmailVerified flips the verified flag and promotes the account to registered
	MarkEmailVerified(ctx context.Context, email string) (*models.User, error)

	// Delete removes a user row
	Delete(ctx context.Context, id int64) error

	// WithTx returns a repository bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// ContributorRepository handles contributor profile rows
type ContributorRepository interface {
	Create(ctx context.Context, contributor *models.Contributor) error
	GetByID(ctx context.Context, id int64) (*models.Contributor, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Contributor, error)
	List(ctx context.Context) ([]*models.Contributor, error)
	Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Contributor, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	WithTx(tx Transaction) ContributorRepository
}

// AdminRepository handles administrator rows
type AdminRepository interface {
	// GetActiveByEmail retrieves an active admin by email
	GetActiveByEmail(ctx context.Context, email string) (*models.Admin, error)

	// GetActiveByID retrieves an admin by id, requiring is_active=true
	GetActiveByID(ctx context.Context, id int64) (*models.Admin, error)

	// GetByID retrieves an admin regardless of active flag
	GetByID(ctx context.Context, id int64) (*models.Admin, error)

	// UpdateLastLogin stamps the last successful login time
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// UpdatePasswordHash replaces the stored credential digest
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	WithTx(tx Transaction) AdminRepository
}

// RefreshTokenRepository handles persisted refresh secret hashes. Admin rows
// live in a separate collection (admin_refresh_tokens); the kind argument
// selects it. Rows are tombstoned, never deleted.
type RefreshTokenRepository interface {
	// Create persists a refresh row, picking the collection from the set principal column
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindActive looks up an active, unexpired row by secret hash
	FindActive(ctx context.Context, kind auth.PrincipalKind, tokenHash string, now time.Time) (*models.RefreshToken, error)

	// Deactivate tombstones the row with the given hash. Unknown or already
	// inactive hashes are a no-op, not an error.
	Deactivate(ctx context.Context, kind auth.PrincipalKind, tokenHash string) error

	// DeactivateAllFor tombstones every row belonging to the principal
	DeactivateAllFor(ctx context.Context, ref auth.PrincipalRef) error

	WithTx(tx Transaction) RefreshTokenRepository
}

// EmailVerificationRepository handles pending email confirmation codes
type EmailVerificationRepository interface {
	Create(ctx context.Context, verification *models.EmailVerification) error
	GetLatestByEmail(ctx context.Context, email string) (*models.EmailVerification, error)
	MarkVerified(ctx context.Context, id int64) error
}

// LocationRepository handles mapped locations and their verification records
type LocationRepository interface {
	Create(ctx context.Context, location *models.Location) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context) ([]*models.Location, error)
	Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Location, error)
	Delete(ctx context.Context, id int64) error

	CreateVerification(ctx context.Context, verification *models.LocationVerification) error
	UpdateVerification(ctx context.Context, locationID int64, status models.LocationStatus, adminID int64) (*models.LocationVerification, error)

	WithTx(tx Transaction) LocationRepository
}

// EmergencyRepository handles reported emergencies
type EmergencyRepository interface {
	Create(ctx context.Context, emergency *models.Emergency) error
	GetByID(ctx context.Context, id int64) (*models.Emergency, error)
	List(ctx context.Context) ([]*models.Emergency, error)
	Update(ctx context.Context, id int64, patch map[string]interface{}) (*models.Emergency, error)
	Delete(ctx context.Context, id int64) error
}

// Repositories bundles every repository the service layer needs
type Repositories struct {
	Users              UserRepository
	Contributors       ContributorRepository
	Admins             AdminRepository
	RefreshTokens      RefreshTokenRepository
	EmailVerifications EmailVerificationRepository
	Locations          LocationRepository
	Emergencies        EmergencyRepository
}
