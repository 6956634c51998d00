package models

import "time"

// UserType describes the lifecycle state of a user account. It is descriptive
// only: admin authority never derives from this tag, only from an Admin record.
type UserType string

const (
	UserTypeAnonymous    UserType = "anonymous"
	UserTypeRegistered   UserType = "registered"
	UserTypeContributor  UserType = "contributor"
	UserTypeOrganization UserType = "organization"
	UserTypeAdmin        UserType = "admin"
)

// ValidUserType reports whether t is one of the known user type tags
func ValidUserType(t UserType) bool {
	switch t {
	case UserTypeAnonymous, UserTypeRegistered, UserTypeContributor, UserTypeOrganization, UserTypeAdmin:
		return true
	}
	return false
}

// User represents an end-user account. PasswordHash is never serialized.
type User struct {
	ID                int64     `json:"id" db:"id"`
	Email             string    `json:"email" db:"email"`
	PasswordHash      string    `json:"-" db:"password_hash"`
	UserType          UserType  `json:"user_type" db:"user_type"`
	FirstName         *string   `json:"first_name,omitempty" db:"first_name"`
	LastName          *string   `json:"last_name,omitempty" db:"last_name"`
	PhoneNumber       *string   `json:"phone_number,omitempty" db:"phone_number"`
	PreferredLanguage string    `json:"preferred_language" db:"preferred_language"`
	IsEmailVerified   bool      `json:"is_email_verified" db:"is_email_verified"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}
