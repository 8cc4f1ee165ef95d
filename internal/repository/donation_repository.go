package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// DonationRepository defines persistence access for donation records.
// Donations have no update or delete path.
type DonationRepository interface {
	Create(ctx context.Context, donation *domain.Donation) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	ListByDonor(ctx context.Context, email string, limit, offset int) ([]domain.Donation, error)
	// ListUnreconciled returns donations whose parent campaign's donator list
	// has no entry keyed by the donation's identity.
	ListUnreconciled(ctx context.Context, limit int) ([]domain.Donation, error)
}

type donationRepository struct {
	pool *pgxpool.Pool
}

// NewDonationRepository returns a Postgres-backed implementation.
func NewDonationRepository(pool *pgxpool.Pool) DonationRepository {
	return &donationRepository{pool: pool}
}

func (r *donationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	const query = `
        INSERT INTO donations (id, campaign_id, donor_email, donor_name, amount, date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		donation.ID,
		donation.CampaignID,
		donation.DonorEmail,
		donation.DonorName,
		donation.Amount,
		donation.Date,
	).Scan(&donation.CreatedAt)
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	const query = `
        SELECT id, campaign_id, donor_email, donor_name, amount, date, created_at
        FROM donations WHERE id=$1`

	return scanDonation(r.pool.QueryRow(ctx, query, id))
}

func (r *donationRepository) ListByDonor(ctx context.Context, email string, limit, offset int) ([]domain.Donation, error) {
	const query = `
        SELECT id, campaign_id, donor_email, donor_name, amount, date, created_at
        FROM donations WHERE donor_email=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func (r *donationRepository) ListUnreconciled(ctx context.Context, limit int) ([]domain.Donation, error) {
	const query = `
        SELECT d.id, d.campaign_id, d.donor_email, d.donor_name, d.amount, d.date, d.created_at
        FROM donations d
        JOIN campaigns c ON c.id = d.campaign_id
        WHERE NOT c.donators @> jsonb_build_array(jsonb_build_object('donation_id', d.id::text))
        ORDER BY d.created_at
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDonations(rows)
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	if err := row.Scan(
		&d.ID,
		&d.CampaignID,
		&d.DonorEmail,
		&d.DonorName,
		&d.Amount,
		&d.Date,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	var donations []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(
			&d.ID,
			&d.CampaignID,
			&d.DonorEmail,
			&d.DonorName,
			&d.Amount,
			&d.Date,
			&d.CreatedAt,
		); err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
