package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is an administrator account able to manage the schedule and export
// registrations.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}
