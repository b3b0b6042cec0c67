package members

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the requested member does not exist.
var ErrNotFound = errors.New("members: not found")

// Repository defines persistence operations for members.
type Repository interface {
	GetWithOrg(ctx context.Context, id int64) (MemberWithOrg, error)
	EnsureInviteToken(ctx context.Context, memberID int64, token string) (string, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// GetWithOrg fetches a member joined with its organization's name.
func (r *PGRepository) GetWithOrg(ctx context.Context, id int64) (MemberWithOrg, error) {
	var m MemberWithOrg
	err := r.pool.QueryRow(ctx, `SELECT m.id, m.org_id, m.first_name, m.last_name, COALESCE(m.email, ''), m.invite_token, m.created_at, m.updated_at, o.name
FROM members m JOIN organizations o ON o.id = m.org_id
WHERE m.id = $1`, id).Scan(&m.ID, &m.OrgID, &m.FirstName, &m.LastName, &m.Email, &m.InviteToken, &m.CreatedAt, &m.UpdatedAt, &m.OrgName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MemberWithOrg{}, ErrNotFound
		}
		return MemberWithOrg{}, err
	}
	return m, nil
}

// EnsureInviteToken persists the candidate token only when the member has
// none yet and returns whichever token is stored afterwards. Issuance is
// idempotent: a token, once generated, is reused for later invite attempts.
func (r *PGRepository) EnsureInviteToken(ctx context.Context, memberID int64, token string) (string, error) {
	var stored string
	err := r.pool.QueryRow(ctx, `UPDATE members SET invite_token = COALESCE(invite_token, $2), updated_at = now()
WHERE id = $1 RETURNING invite_token`, memberID, token).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return stored, nil
}

var _ Repository = (*PGRepository)(nil)
