package models

import "time"

// SettingsID is the fixed primary key of the single settings row.
const SettingsID = 1

// Settings is the event-wide configuration singleton: display title and the
// registration window. A missing row behaves like DefaultSettings.
type Settings struct {
	ID                int        `json:"-"`
	Title             string     `json:"title"`
	RegisterStartDate *time.Time `json:"register_start_date,omitempty"`
	RegisterEndDate   *time.Time `json:"register_end_date,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DefaultSettings returns the closed-registration default used when no
// settings row exists yet.
func DefaultSettings() *Settings {
	return &Settings{ID: SettingsID, Title: "Event Registration"}
}

// IsRegistrationOpen reports whether now falls inside the registration
// window. An unset start or end keeps registration closed.
func (s *Settings) IsRegistrationOpen(now time.Time) bool {
	if s.RegisterStartDate == nil || s.RegisterEndDate == nil {
		return false
	}
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := *s.RegisterStartDate
	end := *s.RegisterEndDate
	return !day.Before(time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())) &&
		!day.After(time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, now.Location()))
}
