package processor

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no processor matched the lookup.
var ErrNotFound = errors.New("processor: not found")

const processorColumns = `p.id, p.org_id, p.kind, p.credentials, p.is_default, p.is_active, p.created_at, p.updated_at`

// Repository defines the lookups the resolution engine needs.
type Repository interface {
	CampaignPrimaryProcessor(ctx context.Context, campaignID int64) (Processor, error)
	CampaignAnyProcessor(ctx context.Context, campaignID int64) (Processor, error)
	OrgDefaultActiveProcessor(ctx context.Context, orgID int64) (Processor, error)
	OrgAnyActiveProcessor(ctx context.Context, orgID int64) (Processor, error)
	ListCampaignProcessorIDs(ctx context.Context, campaignID int64) ([]int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// CampaignPrimaryProcessor returns the processor behind the campaign's
// primary link, when both exist.
func (r *PGRepository) CampaignPrimaryProcessor(ctx context.Context, campaignID int64) (Processor, error) {
	return scanProcessor(r.pool.QueryRow(ctx, `SELECT `+processorColumns+`
FROM campaign_processors cp JOIN payment_processors p ON p.id = cp.processor_id
WHERE cp.campaign_id = $1 AND cp.is_primary LIMIT 1`, campaignID))
}

// CampaignAnyProcessor returns any processor linked to the campaign.
func (r *PGRepository) CampaignAnyProcessor(ctx context.Context, campaignID int64) (Processor, error) {
	return scanProcessor(r.pool.QueryRow(ctx, `SELECT `+processorColumns+`
FROM campaign_processors cp JOIN payment_processors p ON p.id = cp.processor_id
WHERE cp.campaign_id = $1 LIMIT 1`, campaignID))
}

// OrgDefaultActiveProcessor returns the organization's default active processor.
func (r *PGRepository) OrgDefaultActiveProcessor(ctx context.Context, orgID int64) (Processor, error) {
	return scanProcessor(r.pool.QueryRow(ctx, `SELECT `+processorColumns+`
FROM payment_processors p WHERE p.org_id = $1 AND p.is_default AND p.is_active LIMIT 1`, orgID))
}

// OrgAnyActiveProcessor returns any active processor owned by the organization.
func (r *PGRepository) OrgAnyActiveProcessor(ctx context.Context, orgID int64) (Processor, error) {
	return scanProcessor(r.pool.QueryRow(ctx, `SELECT `+processorColumns+`
FROM payment_processors p WHERE p.org_id = $1 AND p.is_active LIMIT 1`, orgID))
}

// ListCampaignProcessorIDs returns ids of all processors linked to the
// campaign. Order is store-defined.
func (r *PGRepository) ListCampaignProcessorIDs(ctx context.Context, campaignID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT processor_id FROM campaign_processors WHERE campaign_id = $1`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

func scanProcessor(row pgx.Row) (Processor, error) {
	var p Processor
	err := row.Scan(&p.ID, &p.OrgID, &p.Kind, &p.Credentials, &p.IsDefault, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Processor{}, ErrNotFound
		}
		return Processor{}, err
	}
	return p, nil
}

var _ Repository = (*PGRepository)(nil)
