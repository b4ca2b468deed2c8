package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	dom "github.com/muhzarfan/backend-cttn/internal/domain"
)

// UserRepo provides user persistence. Uniqueness of username and email is
// enforced by the store (unique indexes), not coordinated here: a race
// between two registrations is resolved by the second insert failing.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) (dom.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (dom.User, error)
	GetByUsername(ctx context.Context, username string) (dom.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) (dom.User, error)
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// Create inserts a new user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, u dom.User) (dom.User, error) {
	query := `
		INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	var out dom.User
	err := r.db.QueryRow(ctx, query, u.ID, u.Username, u.Email, u.PasswordHash).Scan(
		&out.ID, &out.Username, &out.Email, &out.PasswordHash, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

// GetByID returns the user by ID.
func (r *PGUserRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByUsername returns the user by username (case-sensitive).
func (r *PGUserRepo) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// UpdateProfile replaces username and email and returns the updated row.
func (r *PGUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) (dom.User, error) {
	query := `
		UPDATE users SET username = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	var u dom.User
	err := r.db.QueryRow(ctx, query, id, username, email).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}
