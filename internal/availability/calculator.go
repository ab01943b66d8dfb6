// Package availability derives remaining per-time-window capacity from the
// slot schedule and the active selection counts.
package availability

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aura-events/backend/internal/models"
)

// Snapshot is a point-in-time read of the schedule plus per-slot active
// selection counts, as loaded by the Repository.
type Snapshot struct {
	Dates      []models.RegisterDate
	Times      []models.RegisterTime
	Slots      []models.RegisterSlot
	// ActiveSelections maps slot ID to the number of non-cancelled
	// selections, including slots that have since been deactivated.
	ActiveSelections map[uuid.UUID]int
}

// TimeAvailability is one time window with its derived remaining capacity.
type TimeAvailability struct {
	ID        uuid.UUID `json:"id"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time,omitempty"`
	Remaining int       `json:"remaining"`
}

// DateAvailability is one date with its open time windows.
type DateAvailability struct {
	ID        uuid.UUID          `json:"id"`
	EventDate time.Time          `json:"event_date"`
	Times     []TimeAvailability `json:"times"`
}

// Compute derives the public availability view from a snapshot.
//
// Only active dates, times, and slots are listed. Capacity of a time window
// sums available_slots over its active slots; the selection count subtracts
// active selections across ALL slots of that window, so registrants of a
// deactivated slot still hold their places. Remaining is clamped at zero.
// Output is ordered by date ascending, then start time ascending.
func Compute(snap Snapshot) []DateAvailability {
	timesByDate := make(map[uuid.UUID][]models.RegisterTime)
	for _, t := range snap.Times {
		timesByDate[t.DateID] = append(timesByDate[t.DateID], t)
	}
	slotsByTime := make(map[uuid.UUID][]models.RegisterSlot)
	for _, s := range snap.Slots {
		slotsByTime[s.TimeID] = append(slotsByTime[s.TimeID], s)
	}

	var out []DateAvailability
	for _, d := range snap.Dates {
		if !d.IsActive {
			continue
		}
		da := DateAvailability{ID: d.ID, EventDate: d.EventDate}
		for _, t := range timesByDate[d.ID] {
			if !t.IsActive {
				continue
			}
			capacity := 0
			taken := 0
			for _, s := range slotsByTime[t.ID] {
				if s.IsActive {
					capacity += s.AvailableSlots
				}
				taken += snap.ActiveSelections[s.ID]
			}
			remaining := capacity - taken
			if remaining < 0 {
				remaining = 0
			}
			da.Times = append(da.Times, TimeAvailability{
				ID:        t.ID,
				StartTime: t.StartTime,
				EndTime:   t.EndTime,
				Remaining: remaining,
			})
		}
		sort.SliceStable(da.Times, func(i, j int) bool {
			return da.Times[i].StartTime < da.Times[j].StartTime
		})
		out = append(out, da)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventDate.Before(out[j].EventDate)
	})
	return out
}
