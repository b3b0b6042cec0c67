package org

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shulware/shulware/internal/tenancy"
)

// ErrNotFound indicates the requested organization does not exist.
var ErrNotFound = errors.New("org: not found")

// NewOrganization carries the fields required to create a tenant.
type NewOrganization struct {
	Name         string
	Slug         string
	ContactEmail string
	ContactPhone string
}

// Repository defines persistence operations for organizations.
type Repository interface {
	Create(ctx context.Context, in NewOrganization) (Organization, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, scope tenancy.Scope) ([]Organization, error)
	CreateSettings(ctx context.Context, orgID int64, activeProcessor string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create inserts a new organization.
func (r *PGRepository) Create(ctx context.Context, in NewOrganization) (Organization, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO organizations (name, slug, contact_email, contact_phone, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`, in.Name, in.Slug, in.ContactEmail, in.ContactPhone, now).Scan(&id)
	if err != nil {
		return Organization{}, err
	}
	return Organization{
		ID:           id,
		Name:         in.Name,
		Slug:         in.Slug,
		ContactEmail: in.ContactEmail,
		ContactPhone: in.ContactPhone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Delete removes an organization. Only ever issued as saga compensation for
// a failed creation; established tenants are never hard-deleted here.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	return err
}

// List returns organizations visible to the given scope. Scopes that cannot
// query fail closed with an empty result; platform owners see every tenant.
func (r *PGRepository) List(ctx context.Context, scope tenancy.Scope) ([]Organization, error) {
	if !scope.Queryable() {
		return nil, nil
	}
	var (
		rows pgx.Rows
		err  error
	)
	if scope.Unrestricted() {
		rows, err = r.pool.Query(ctx, `SELECT id, name, slug, contact_email, contact_phone, created_at, updated_at
FROM organizations ORDER BY name`)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT id, name, slug, contact_email, contact_phone, created_at, updated_at
FROM organizations WHERE id = ANY($1) ORDER BY name`, scope.OrgIDs)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orgs []Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orgs, nil
}

// CreateSettings inserts the one-to-one settings row for a new tenant.
func (r *PGRepository) CreateSettings(ctx context.Context, orgID int64, activeProcessor string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO organization_settings (org_id, active_processor, credentials, created_at, updated_at)
VALUES ($1, $2, '{}'::jsonb, now(), now())`, orgID, activeProcessor)
	return err
}

func scanOrganization(row pgx.Row) (Organization, error) {
	var o Organization
	err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.ContactEmail, &o.ContactPhone, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Organization{}, ErrNotFound
		}
		return Organization{}, err
	}
	return o, nil
}

var _ Repository = (*PGRepository)(nil)
