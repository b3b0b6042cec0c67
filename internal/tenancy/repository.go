package tenancy

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for role grants.
type Repository interface {
	CreateGrant(ctx context.Context, identityID int64, role Role, orgID *int64) (RoleGrant, error)
	ListForIdentity(ctx context.Context, identityID int64) ([]RoleGrant, error)
	HasPlatformOwner(ctx context.Context) (bool, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CreateGrant inserts a role grant.
func (r *PGRepository) CreateGrant(ctx context.Context, identityID int64, role Role, orgID *int64) (RoleGrant, error) {
	now := time.Now().UTC()
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO role_grants (identity_id, role, org_id, created_at)
VALUES ($1, $2, $3, $4) RETURNING id`, identityID, string(role), orgID, now).Scan(&id)
	if err != nil {
		return RoleGrant{}, err
	}
	return RoleGrant{ID: id, IdentityID: identityID, Role: role, OrgID: orgID, CreatedAt: now}, nil
}

// ListForIdentity returns all grants held by the identity.
func (r *PGRepository) ListForIdentity(ctx context.Context, identityID int64) ([]RoleGrant, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, identity_id, role, org_id, created_at
FROM role_grants WHERE identity_id = $1 ORDER BY id`, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var grants []RoleGrant
	for rows.Next() {
		var g RoleGrant
		var role string
		if err := rows.Scan(&g.ID, &g.IdentityID, &role, &g.OrgID, &g.CreatedAt); err != nil {
			return nil, err
		}
		g.Role = Role(role)
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}

// HasPlatformOwner reports whether any platform-wide owner grant exists.
func (r *PGRepository) HasPlatformOwner(ctx context.Context) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM role_grants WHERE role = 'owner' AND org_id IS NULL)`).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

var _ Repository = (*PGRepository)(nil)
