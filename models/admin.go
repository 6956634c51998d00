package models

import "time"

// Admin represents an administrator record. Admin authority derives solely
// from this record; inactive admins must never authenticate, even with an
// otherwise valid token.
type Admin struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// TableName returns the table name for the Admin model
func (Admin) TableName() string {
	return "admins"
}
