package models

import "time"

// Emergency is a reported emergency event
type Emergency struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	Severity    *string   `json:"severity,omitempty" db:"severity"`
	Status      string    `json:"status" db:"status"`
	ReportedBy  *int64    `json:"reported_by,omitempty" db:"reported_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
