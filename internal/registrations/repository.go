package registrations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-events/backend/internal/models"
)

// Domain errors surfaced to handlers, which map them onto stable API codes.
var (
	ErrNotFound          = errors.New("selection not found")
	ErrTimeUnavailable   = errors.New("time window unavailable")
	ErrNoCapacity        = errors.New("no open slot for this time window")
	ErrAlreadyRegistered = errors.New("user already holds an active selection")
)

// Repository handles selection persistence and the allocation transaction.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registrations repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const detailColumns = `sel.id, sel.slot_id, sel.userid, sel.name, sel.department, sel.position,
	sel.register_type, sel.is_delete, sel.created_at, sel.updated_at,
	sl.title, t.start_time, t.end_time, d.event_date`

const detailJoins = `FROM slot_selections sel
	JOIN register_slots sl ON sl.id = sel.slot_id
	JOIN register_times t ON t.id = sl.time_id
	JOIN register_dates d ON d.id = t.date_id`

func scanDetail(row pgx.Row) (*models.SelectionDetail, error) {
	var det models.SelectionDetail
	err := row.Scan(&det.ID, &det.SlotID, &det.UserID, &det.Name, &det.Department, &det.Position,
		&det.RegisterType, &det.IsDelete, &det.CreatedAt, &det.UpdatedAt,
		&det.SlotTitle, &det.StartTime, &det.EndTime, &det.EventDate)
	if err != nil {
		return nil, err
	}
	return &det, nil
}

// Allocate reserves the first open slot of the given time window for the
// identity, inside one transaction.
//
// The time window's slot rows are taken with SELECT ... FOR UPDATE before the
// capacity counts are read, so two concurrent attempts at the same window are
// serialized: the second blocks until the first commits and then sees its
// selection. The duplicate check runs before the locks, so the partial
// unique index on (userid) WHERE NOT is_delete backstops it against
// concurrent attempts by the same user.
func (r *Repository) Allocate(ctx context.Context, ident Identity, timeID uuid.UUID) (*models.SelectionDetail, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reject duplicates before anything else, so an already-registered user
	// gets ErrAlreadyRegistered even when the requested window is gone.
	var dup bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM slot_selections WHERE userid = $1 AND NOT is_delete)`,
		ident.UserID,
	).Scan(&dup)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup {
		return nil, ErrAlreadyRegistered
	}

	// Load the time window and its date; inactive or missing both read as
	// unavailable to the caller.
	var t models.RegisterTime
	var eventDate time.Time
	err = tx.QueryRow(ctx,
		`SELECT t.id, t.date_id, t.start_time, t.end_time, t.is_active, d.event_date
		 FROM register_times t JOIN register_dates d ON d.id = t.date_id
		 WHERE t.id = $1`,
		timeID,
	).Scan(&t.ID, &t.DateID, &t.StartTime, &t.EndTime, &t.IsActive, &eventDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTimeUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("load time window: %w", err)
	}
	if !t.IsActive {
		return nil, ErrTimeUnavailable
	}

	// Lock every slot row of this window. This is the serialization point.
	rows, err := tx.Query(ctx,
		`SELECT id, time_id, title, available_slots, is_active, created_at
		 FROM register_slots WHERE time_id = $1
		 ORDER BY created_at, id
		 FOR UPDATE`,
		timeID,
	)
	if err != nil {
		return nil, fmt.Errorf("lock slots: %w", err)
	}
	var slots []models.RegisterSlot
	for rows.Next() {
		var s models.RegisterSlot
		if err := rows.Scan(&s.ID, &s.TimeID, &s.Title, &s.AvailableSlots, &s.IsActive, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock slots: %w", err)
	}

	counts := make(map[uuid.UUID]int, len(slots))
	rows, err = tx.Query(ctx,
		`SELECT slot_id, COUNT(*) FROM slot_selections sel
		 JOIN register_slots sl ON sl.id = sel.slot_id
		 WHERE sl.time_id = $1 AND NOT sel.is_delete
		 GROUP BY slot_id`,
		timeID,
	)
	if err != nil {
		return nil, fmt.Errorf("count selections: %w", err)
	}
	for rows.Next() {
		var slotID uuid.UUID
		var n int
		if err := rows.Scan(&slotID, &n); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan selection count: %w", err)
		}
		counts[slotID] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count selections: %w", err)
	}

	states := make([]SlotState, 0, len(slots))
	for _, s := range slots {
		states = append(states, SlotState{Slot: s, Active: counts[s.ID]})
	}
	chosen, ok := PickSlot(states)
	if !ok {
		return nil, ErrNoCapacity
	}

	det := &models.SelectionDetail{
		SlotSelection: models.SlotSelection{
			SlotID:       chosen.ID,
			UserID:       ident.UserID,
			Name:         ident.Name,
			Department:   ident.Department,
			Position:     ident.Position,
			RegisterType: ident.Type,
		},
		SlotTitle: chosen.Title,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
		EventDate: eventDate,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO slot_selections (id, slot_id, userid, name, department, position, register_type)
		 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		chosen.ID, ident.UserID, ident.Name, ident.Department, ident.Position, string(ident.Type),
	).Scan(&det.ID, &det.CreatedAt, &det.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert selection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return det, nil
}

// GetDetail returns one selection joined with its slot, time, and date.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.SelectionDetail, error) {
	q := `SELECT ` + detailColumns + ` ` + detailJoins + ` WHERE sel.id = $1`
	det, err := scanDetail(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get selection: %w", err)
	}
	return det, nil
}

// FindActiveByUserID returns the user's active selection, or ErrNotFound.
func (r *Repository) FindActiveByUserID(ctx context.Context, userid string) (*models.SelectionDetail, error) {
	q := `SELECT ` + detailColumns + ` ` + detailJoins + ` WHERE sel.userid = $1 AND NOT sel.is_delete`
	det, err := scanDetail(r.pool.QueryRow(ctx, q, userid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find selection by userid: %w", err)
	}
	return det, nil
}

// Search returns up to limit most-recent active selections whose userid or
// name matches the query.
func (r *Repository) Search(ctx context.Context, query string, limit int) ([]models.SelectionDetail, error) {
	q := `SELECT ` + detailColumns + ` ` + detailJoins + `
		WHERE NOT sel.is_delete AND (sel.userid ILIKE $1 OR sel.name ILIKE $1)
		ORDER BY sel.created_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search selections: %w", err)
	}
	defer rows.Close()
	var list []models.SelectionDetail
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		list = append(list, *det)
	}
	return list, rows.Err()
}

// ExportFilter narrows the export listing.
type ExportFilter struct {
	Search       string // matches userid or name
	Department   string
	RegisterType string
}

// ListActive returns all active selections matching the filter, ordered by
// date, time, slot, and creation time. Used by the CSV export.
func (r *Repository) ListActive(ctx context.Context, f ExportFilter) ([]models.SelectionDetail, error) {
	q := `SELECT ` + detailColumns + ` ` + detailJoins + ` WHERE NOT sel.is_delete`
	args := []interface{}{}
	n := 0
	if f.Search != "" {
		n++
		q += fmt.Sprintf(" AND (sel.userid ILIKE $%d OR sel.name ILIKE $%d)", n, n)
		args = append(args, "%"+f.Search+"%")
	}
	if f.Department != "" {
		n++
		q += fmt.Sprintf(" AND sel.department = $%d", n)
		args = append(args, f.Department)
	}
	if f.RegisterType != "" {
		n++
		q += fmt.Sprintf(" AND sel.register_type = $%d", n)
		args = append(args, f.RegisterType)
	}
	q += " ORDER BY d.event_date, t.start_time, sl.created_at, sel.created_at"

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer rows.Close()
	var list []models.SelectionDetail
	for rows.Next() {
		det, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		list = append(list, *det)
	}
	return list, rows.Err()
}

// Cancel soft-deletes a selection, freeing its capacity. Cancelling an
// already-cancelled selection reads as not found.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE slot_selections SET is_delete = TRUE, updated_at = NOW() WHERE id = $1 AND NOT is_delete`, id)
	if err != nil {
		return fmt.Errorf("cancel selection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
