package availability

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-events/backend/internal/models"
)

// Repository loads availability snapshots.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an availability repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// LoadSnapshot reads the whole schedule and per-slot active selection counts.
// The schedule is small (an event has tens of time windows), so four plain
// queries beat a joined aggregate for clarity.
func (r *Repository) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{ActiveSelections: make(map[uuid.UUID]int)}

	rows, err := r.pool.Query(ctx, `SELECT id, event_date, is_active, created_at FROM register_dates ORDER BY event_date`)
	if err != nil {
		return snap, fmt.Errorf("load dates: %w", err)
	}
	for rows.Next() {
		var d models.RegisterDate
		if err := rows.Scan(&d.ID, &d.EventDate, &d.IsActive, &d.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan date: %w", err)
		}
		snap.Dates = append(snap.Dates, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	rows, err = r.pool.Query(ctx, `SELECT id, date_id, start_time, end_time, is_active, created_at FROM register_times ORDER BY start_time, created_at`)
	if err != nil {
		return snap, fmt.Errorf("load times: %w", err)
	}
	for rows.Next() {
		var t models.RegisterTime
		if err := rows.Scan(&t.ID, &t.DateID, &t.StartTime, &t.EndTime, &t.IsActive, &t.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan time: %w", err)
		}
		snap.Times = append(snap.Times, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	rows, err = r.pool.Query(ctx, `SELECT id, time_id, title, available_slots, is_active, created_at FROM register_slots ORDER BY created_at, id`)
	if err != nil {
		return snap, fmt.Errorf("load slots: %w", err)
	}
	for rows.Next() {
		var s models.RegisterSlot
		if err := rows.Scan(&s.ID, &s.TimeID, &s.Title, &s.AvailableSlots, &s.IsActive, &s.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan slot: %w", err)
		}
		snap.Slots = append(snap.Slots, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return snap, err
	}

	rows, err = r.pool.Query(ctx, `SELECT slot_id, COUNT(*) FROM slot_selections WHERE NOT is_delete GROUP BY slot_id`)
	if err != nil {
		return snap, fmt.Errorf("load selection counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var slotID uuid.UUID
		var n int
		if err := rows.Scan(&slotID, &n); err != nil {
			return snap, fmt.Errorf("scan selection count: %w", err)
		}
		snap.ActiveSelections[slotID] = n
	}
	return snap, rows.Err()
}
