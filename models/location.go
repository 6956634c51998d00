package models

import "time"

// Location is a mapped point of interest (shelter, aid station, hazard)
type Location struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	Category    *string   `json:"category,omitempty" db:"category"`
	CreatedBy   *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// LocationStatus is the admin review state of a location
type LocationStatus string

const (
	LocationVerified   LocationStatus = "verified"
	LocationUnverified LocationStatus = "unverified"
)

// LocationVerification tracks admin review of a submitted location
type LocationVerification struct {
	ID         int64          `json:"id" db:"id"`
	LocationID int64          `json:"location_id" db:"location_id"`
	Status     LocationStatus `json:"status" db:"status"`
	VerifiedBy *int64         `json:"verified_by,omitempty" db:"verified_by"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}
