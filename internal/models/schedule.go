package models

import (
	"time"

	"github.com/google/uuid"
)

// RegisterDate is a calendar day on which registration is offered.
// Deleting a date cascades to its times, slots, and selections.
type RegisterDate struct {
	ID        uuid.UUID `json:"id"`
	EventDate time.Time `json:"event_date"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterTime is a time window within a date during which slots are offered.
type RegisterTime struct {
	ID        uuid.UUID `json:"id"`
	DateID    uuid.UUID `json:"date_id"`
	StartTime string    `json:"start_time"` // zero-padded HH:MM
	EndTime   string    `json:"end_time,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterSlot is a named capacity bucket within a time window.
type RegisterSlot struct {
	ID             uuid.UUID `json:"id"`
	TimeID         uuid.UUID `json:"time_id"`
	Title          string    `json:"title"`
	AvailableSlots int       `json:"available_slots"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
}
