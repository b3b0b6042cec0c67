package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shulware/shulware/internal/platform/db"
)

// Sentinel errors for the identity store.
var (
	// ErrNotFound indicates that the requested identity does not exist.
	ErrNotFound = errors.New("identity: not found")
	// ErrEmailTaken indicates the store's email-uniqueness constraint
	// rejected the insert.
	ErrEmailTaken = errors.New("identity: email already registered")
)

// Repository defines persistence operations for identities.
type Repository interface {
	Create(ctx context.Context, in NewIdentity) (Identity, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (Identity, error)
	FindByEmail(ctx context.Context, email string) (Identity, error)
	UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new identity record.
func (r *PGRepository) Create(ctx context.Context, in NewIdentity) (Identity, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO identities (email, password_hash, first_name, last_name, is_active, email_verified, created_at, updated_at)
VALUES ($1, $2, '', '', TRUE, $3, $4, $4) RETURNING id`, in.Email, in.PasswordHash, in.EmailVerified, now).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, err
	}
	return Identity{
		ID:            id,
		Email:         in.Email,
		PasswordHash:  in.PasswordHash,
		IsActive:      true,
		EmailVerified: in.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Delete removes an identity record. Used by saga compensation.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	return err
}

// Get fetches an identity by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Identity, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT id, email, password_hash, first_name, last_name, is_active, email_verified, created_at, updated_at
FROM identities WHERE id = $1`, id))
}

// FindByEmail fetches an identity by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (Identity, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT id, email, password_hash, first_name, last_name, is_active, email_verified, created_at, updated_at
FROM identities WHERE lower(email) = lower($1)`, email))
}

// UpdateProfile sets the identity's display names.
func (r *PGRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE identities SET first_name = $2, last_name = $3, updated_at = now() WHERE id = $1`, id, firstName, lastName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) scanOne(row pgx.Row) (Identity, error) {
	var ident Identity
	err := row.Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.FirstName, &ident.LastName, &ident.IsActive, &ident.EmailVerified, &ident.CreatedAt, &ident.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, err
	}
	return ident, nil
}

var _ Repository = (*PGRepository)(nil)
