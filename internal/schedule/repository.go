package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-events/backend/internal/models"
)

// ErrNotFound is returned when a date, time, or slot does not exist.
var ErrNotFound = errors.New("not found")

// Repository handles persistence for the date/time/slot schedule.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a schedule repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateDate inserts a registration date.
func (r *Repository) CreateDate(ctx context.Context, eventDate time.Time, isActive bool) (*models.RegisterDate, error) {
	const q = `INSERT INTO register_dates (id, event_date, is_active)
		VALUES (gen_random_uuid(), $1, $2)
		RETURNING id, event_date, is_active, created_at`
	var d models.RegisterDate
	err := r.pool.QueryRow(ctx, q, eventDate, isActive).Scan(&d.ID, &d.EventDate, &d.IsActive, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert date: %w", err)
	}
	return &d, nil
}

// UpdateDate updates a date's calendar day and active flag.
func (r *Repository) UpdateDate(ctx context.Context, id uuid.UUID, eventDate time.Time, isActive bool) (*models.RegisterDate, error) {
	const q = `UPDATE register_dates SET event_date = $2, is_active = $3 WHERE id = $1
		RETURNING id, event_date, is_active, created_at`
	var d models.RegisterDate
	err := r.pool.QueryRow(ctx, q, id, eventDate, isActive).Scan(&d.ID, &d.EventDate, &d.IsActive, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update date: %w", err)
	}
	return &d, nil
}

// DeleteDate removes a date; times, slots, and selections go with it via
// the declared FK cascade.
func (r *Repository) DeleteDate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM register_dates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDates returns all dates ordered by calendar day.
func (r *Repository) ListDates(ctx context.Context) ([]models.RegisterDate, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, event_date, is_active, created_at FROM register_dates ORDER BY event_date`)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}
	defer rows.Close()
	var list []models.RegisterDate
	for rows.Next() {
		var d models.RegisterDate
		if err := rows.Scan(&d.ID, &d.EventDate, &d.IsActive, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// CreateTime inserts a time window under a date.
func (r *Repository) CreateTime(ctx context.Context, dateID uuid.UUID, startTime, endTime string, isActive bool) (*models.RegisterTime, error) {
	const q = `INSERT INTO register_times (id, date_id, start_time, end_time, is_active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, date_id, start_time, end_time, is_active, created_at`
	var t models.RegisterTime
	err := r.pool.QueryRow(ctx, q, dateID, startTime, endTime, isActive).
		Scan(&t.ID, &t.DateID, &t.StartTime, &t.EndTime, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert time: %w", err)
	}
	return &t, nil
}

// UpdateTime updates a time window's range and active flag.
func (r *Repository) UpdateTime(ctx context.Context, id uuid.UUID, startTime, endTime string, isActive bool) (*models.RegisterTime, error) {
	const q = `UPDATE register_times SET start_time = $2, end_time = $3, is_active = $4 WHERE id = $1
		RETURNING id, date_id, start_time, end_time, is_active, created_at`
	var t models.RegisterTime
	err := r.pool.QueryRow(ctx, q, id, startTime, endTime, isActive).
		Scan(&t.ID, &t.DateID, &t.StartTime, &t.EndTime, &t.IsActive, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update time: %w", err)
	}
	return &t, nil
}

// DeleteTime removes a time window and cascades to its slots and selections.
func (r *Repository) DeleteTime(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM register_times WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListTimes returns all time windows, optionally restricted to one date.
func (r *Repository) ListTimes(ctx context.Context, dateID *uuid.UUID) ([]models.RegisterTime, error) {
	q := `SELECT id, date_id, start_time, end_time, is_active, created_at FROM register_times ORDER BY start_time, created_at`
	args := []interface{}{}
	if dateID != nil {
		q = `SELECT id, date_id, start_time, end_time, is_active, created_at FROM register_times WHERE date_id = $1 ORDER BY start_time, created_at`
		args = append(args, *dateID)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list times: %w", err)
	}
	defer rows.Close()
	var list []models.RegisterTime
	for rows.Next() {
		var t models.RegisterTime
		if err := rows.Scan(&t.ID, &t.DateID, &t.StartTime, &t.EndTime, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan time: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CreateSlot inserts a capacity slot under a time window.
func (r *Repository) CreateSlot(ctx context.Context, timeID uuid.UUID, title string, availableSlots int, isActive bool) (*models.RegisterSlot, error) {
	const q = `INSERT INTO register_slots (id, time_id, title, available_slots, is_active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, time_id, title, available_slots, is_active, created_at`
	var s models.RegisterSlot
	err := r.pool.QueryRow(ctx, q, timeID, title, availableSlots, isActive).
		Scan(&s.ID, &s.TimeID, &s.Title, &s.AvailableSlots, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert slot: %w", err)
	}
	return &s, nil
}

// UpdateSlot updates a slot's title, capacity, and active flag. Shrinking
// capacity below the current active selection count is allowed; existing
// selections are never evicted.
func (r *Repository) UpdateSlot(ctx context.Context, id uuid.UUID, title string, availableSlots int, isActive bool) (*models.RegisterSlot, error) {
	const q = `UPDATE register_slots SET title = $2, available_slots = $3, is_active = $4 WHERE id = $1
		RETURNING id, time_id, title, available_slots, is_active, created_at`
	var s models.RegisterSlot
	err := r.pool.QueryRow(ctx, q, id, title, availableSlots, isActive).
		Scan(&s.ID, &s.TimeID, &s.Title, &s.AvailableSlots, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return &s, nil
}

// DeleteSlot removes a slot and cascades to its selections.
func (r *Repository) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM register_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListSlots returns all slots, optionally restricted to one time window.
func (r *Repository) ListSlots(ctx context.Context, timeID *uuid.UUID) ([]models.RegisterSlot, error) {
	q := `SELECT id, time_id, title, available_slots, is_active, created_at FROM register_slots ORDER BY created_at, id`
	args := []interface{}{}
	if timeID != nil {
		q = `SELECT id, time_id, title, available_slots, is_active, created_at FROM register_slots WHERE time_id = $1 ORDER BY created_at, id`
		args = append(args, *timeID)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()
	var list []models.RegisterSlot
	for rows.Next() {
		var s models.RegisterSlot
		if err := rows.Scan(&s.ID, &s.TimeID, &s.Title, &s.AvailableSlots, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// MassAddResult reports the outcome of attaching a slot template to one time.
type MassAddResult struct {
	TimeID uuid.UUID  `json:"time_id"`
	SlotID *uuid.UUID `json:"slot_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// MassAddSlot attaches one slot template (title + capacity) to every given
// time window in a single transaction. Each created slot tracks its own
// capacity independently.
func (r *Repository) MassAddSlot(ctx context.Context, title string, availableSlots int, timeIDs []uuid.UUID) ([]MassAddResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := make([]MassAddResult, 0, len(timeIDs))
	for _, timeID := range timeIDs {
		res := MassAddResult{TimeID: timeID}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM register_times WHERE id = $1)`, timeID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check time %s: %w", timeID, err)
		}
		if !exists {
			res.Error = "time not found"
			results = append(results, res)
			continue
		}
		var slotID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO register_slots (id, time_id, title, available_slots, is_active)
			 VALUES (gen_random_uuid(), $1, $2, $3, TRUE) RETURNING id`,
			timeID, title, availableSlots,
		).Scan(&slotID)
		if err != nil {
			return nil, fmt.Errorf("insert slot for time %s: %w", timeID, err)
		}
		res.SlotID = &slotID
		results = append(results, res)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return results, nil
}

// BulkDate is one date with its nested time windows for BulkSave.
type BulkDate struct {
	EventDate time.Time
	IsActive  bool
	Times     []BulkTime
}

// BulkTime is one time window inside a BulkDate.
type BulkTime struct {
	StartTime string
	EndTime   string
	IsActive  bool
}

// BulkSave upserts the settings singleton and creates the given dates with
// their nested times in one transaction. Any failure rolls back every step.
func (r *Repository) BulkSave(ctx context.Context, s *models.Settings, dates []BulkDate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if s != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO settings (id, title, register_start_date, register_end_date, updated_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title,
				register_start_date = EXCLUDED.register_start_date,
				register_end_date = EXCLUDED.register_end_date,
				updated_at = NOW()`,
			models.SettingsID, s.Title, s.RegisterStartDate, s.RegisterEndDate,
		)
		if err != nil {
			return fmt.Errorf("upsert settings: %w", err)
		}
	}

	for _, d := range dates {
		var dateID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO register_dates (id, event_date, is_active)
			 VALUES (gen_random_uuid(), $1, $2) RETURNING id`,
			d.EventDate, d.IsActive,
		).Scan(&dateID)
		if err != nil {
			return fmt.Errorf("insert date: %w", err)
		}
		for _, t := range d.Times {
			_, err = tx.Exec(ctx,
				`INSERT INTO register_times (id, date_id, start_time, end_time, is_active)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4)`,
				dateID, t.StartTime, t.EndTime, t.IsActive,
			)
			if err != nil {
				return fmt.Errorf("insert time: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
