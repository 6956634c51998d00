package models

import "time"

// ContributorType is the kind of contributing entity
type ContributorType string

const (
	ContributorIndividual   ContributorType = "individual"
	ContributorOrganization ContributorType = "organization"
)

// ValidContributorType reports whether t is an accepted contributor type
func ValidContributorType(t ContributorType) bool {
	return t == ContributorIndividual || t == ContributorOrganization
}

// VerificationStatus is the review state of a contributor application
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// Contributor represents a contributor profile attached to an owning user.
// A contributor may carry its own password hash; when empty, login falls back
// to the owning user's credential.
type Contributor struct {
	ID                 int64              `json:"id" db:"id"`
	UserID             int64              `json:"user_id" db:"user_id"`
	ContributorType    ContributorType    `json:"contributor_type" db:"contributor_type"`
	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status"`
	Verified           bool               `json:"verified" db:"verified"`
	Motivation         *string            `json:"motivation,omitempty" db:"motivation"`
	PasswordHash       string             `json:"-" db:"password_hash"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Contributor model
func (Contributor) TableName() string {
	return "contributor_data"
}
