// Package settings manages the event-wide configuration singleton.
package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-events/backend/internal/models"
)

// Repository reads and upserts the single settings row.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a settings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get returns the settings row, or the closed-registration default when no
// row has been saved yet.
func (r *Repository) Get(ctx context.Context) (*models.Settings, error) {
	const q = `SELECT id, title, register_start_date, register_end_date, updated_at FROM settings WHERE id = $1`
	var s models.Settings
	err := r.pool.QueryRow(ctx, q, models.SettingsID).
		Scan(&s.ID, &s.Title, &s.RegisterStartDate, &s.RegisterEndDate, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Upsert writes the settings row, creating it on first save.
func (r *Repository) Upsert(ctx context.Context, s *models.Settings) error {
	const q = `INSERT INTO settings (id, title, register_start_date, register_end_date, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title,
			register_start_date = EXCLUDED.register_start_date,
			register_end_date = EXCLUDED.register_end_date,
			updated_at = NOW()
		RETURNING updated_at`
	err := r.pool.QueryRow(ctx, q, models.SettingsID, s.Title, s.RegisterStartDate, s.RegisterEndDate).
		Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	s.ID = models.SettingsID
	return nil
}
