package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aura-events/backend/internal/models"
)

// Repository handles admin account persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmail returns an admin by email, or nil when none exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const q = `SELECT id, email, password_hash, full_name, created_at FROM admins WHERE email = $1`
	var a models.Admin
	err := r.pool.QueryRow(ctx, q, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new admin account.
func (r *Repository) Create(ctx context.Context, email, passwordHash, fullName string) (*models.Admin, error) {
	const q = `INSERT INTO admins (id, email, password_hash, full_name)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, email, password_hash, full_name, created_at`
	var a models.Admin
	err := r.pool.QueryRow(ctx, q, email, passwordHash, fullName).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.FullName, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Seed creates the bootstrap admin on first start if it does not exist.
// A blank password disables seeding.
func (r *Repository) Seed(ctx context.Context, email, passwordHash, fullName string) error {
	if passwordHash == "" {
		return nil
	}
	const q = `INSERT INTO admins (id, email, password_hash, full_name)
		VALUES (gen_random_uuid(), $1, $2, $3)
		ON CONFLICT (email) DO NOTHING`
	_, err := r.pool.Exec(ctx, q, email, passwordHash, fullName)
	return err
}
