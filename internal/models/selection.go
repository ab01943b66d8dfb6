package models

import (
	"time"

	"github.com/google/uuid"
)

// RegisterType distinguishes directory-verified staff from self-declared
// outsourced workers.
type RegisterType string

const (
	RegisterTypeRegular   RegisterType = "regular"
	RegisterTypeOutsource RegisterType = "outsource"
)

// Valid reports whether t is one of the known register types.
func (t RegisterType) Valid() bool {
	return t == RegisterTypeRegular || t == RegisterTypeOutsource
}

// SlotSelection is one user's reservation against exactly one slot.
// IsDelete marks a cancelled selection; cancelled selections never count
// against capacity and never block re-registration.
type SlotSelection struct {
	ID           uuid.UUID    `json:"id"`
	SlotID       uuid.UUID    `json:"slot_id"`
	UserID       string       `json:"userid"`
	Name         string       `json:"name"`
	Department   string       `json:"department,omitempty"`
	Position     string       `json:"position,omitempty"`
	RegisterType RegisterType `json:"register_type"`
	IsDelete     bool         `json:"is_delete"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// SelectionDetail is a selection joined with its slot, time window, and date
// for display, search results, and export rows.
type SelectionDetail struct {
	SlotSelection
	SlotTitle string    `json:"slot_title"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time,omitempty"`
	EventDate time.Time `json:"event_date"`
}

// TimeLabel renders the joined time window for display.
func (d SelectionDetail) TimeLabel() string {
	if d.EndTime == "" {
		return d.StartTime
	}
	return d.StartTime + " - " + d.EndTime
}
