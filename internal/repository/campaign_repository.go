package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// CampaignRepository defines persistence access for fundraising campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, limit, offset int) ([]domain.Campaign, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Campaign, error)
	SetPaused(ctx context.Context, id string, paused bool) error
	// AppendDonator appends one contribution entry to the campaign's donator
	// list in a single UPDATE. The append is idempot: an entry keyed by the
	// same donation identity is never applied twice, so the operation is safe
	// to retry. Returns pgx.ErrNoRows when the campaign does not exist.
	AppendDonator(ctx context.Context, campaignID string, entry domain.DonorEntry) error
}

type campaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a Postgres-backed implementation.
func NewCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &campaignRepository{pool: pool}
}

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        INSERT INTO campaigns (title, max_donation, last_date, short_description, long_description, image_url, paused, owner_email)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, donators, created_at, updated_at`

	var donators []byte
	if err := r.pool.QueryRow(ctx, query,
		campaign.Title,
		campaign.MaxDonation,
		campaign.LastDate,
		campaign.ShortDescription,
		campaign.LongDescription,
		campaign.ImageURL,
		campaign.Paused,
		campaign.OwnerEmail,
	).Scan(&campaign.ID, &donators, &campaign.CreatedAt, &campaign.UpdatedAt); err != nil {
		return err
	}
	return json.Unmarshal(donators, &campaign.Donators)
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	const query = `
        SELECT id, title, max_donation, last_date, short_description, long_description, image_url, paused, owner_email, donators, created_at, updated_at
        FROM campaigns WHERE id=$1`

	return scanCampaign(r.pool.QueryRow(ctx, query, id))
}

func (r *campaignRepository) List(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	const query = `
        SELECT id, title, max_donation, last_date, short_description, long_description, image_url, paused, owner_email, donators, created_at, updated_at
        FROM campaigns ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *campaignRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Campaign, error) {
	const query = `
        SELECT id, title, max_donation, last_date, short_description, long_description, image_url, paused, owner_email, donators, created_at, updated_at
        FROM campaigns WHERE owner_email=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCampaigns(rows)
}

func (r *campaignRepository) SetPaused(ctx context.Context, id string, paused bool) error {
	const query = `UPDATE campaigns SET paused=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, paused, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *campaignRepository) AppendDonator(ctx context.Context, campaignID string, entry domain.DonorEntry) error {
	entryJSON, err := json.Marshal([]domain.DonorEntry{entry})
	if err != nil {
		return err
	}
	keyJSON, err := json.Marshal([]map[string]string{{"donation_id": entry.DonationID}})
	if err != nil {
		return err
	}

	// The || append happens inside one UPDATE, so concurrent appends to the
	// same campaign cannot lose entries. The containment guard makes a retry
	// of an already-applied append a no-op.
	const query = `
        UPDATE campaigns
        SET donators = donators || $2::jsonb, updated_at = NOW()
        WHERE id = $1 AND NOT donators @> $3::jsonb`

	cmd, err := r.pool.Exec(ctx, query, campaignID, entryJSON, keyJSON)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means either the campaign is missing or the entry was already
	// applied by an earlier attempt.
	const check = `SELECT donators @> $2::jsonb FROM campaigns WHERE id = $1`
	var applied bool
	if err := r.pool.QueryRow(ctx, check, campaignID, keyJSON).Scan(&applied); err != nil {
		return err
	}
	if !applied {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	var donators []byte
	if err := row.Scan(
		&c.ID,
		&c.Title,
		&c.MaxDonation,
		&c.LastDate,
		&c.ShortDescription,
		&c.LongDescription,
		&c.ImageURL,
		&c.Paused,
		&c.OwnerEmail,
		&donators,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(donators, &c.Donators); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		var donators []byte
		if err := rows.Scan(
			&c.ID,
			&c.Title,
			&c.MaxDonation,
			&c.LastDate,
			&c.ShortDescription,
			&c.LongDescription,
			&c.ImageURL,
			&c.Paused,
			&c.OwnerEmail,
			&donators,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(donators, &c.Donators); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
