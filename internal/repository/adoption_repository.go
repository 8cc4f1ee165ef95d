package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// AdoptionRepository defines persistence access for adoption requests.
type AdoptionRepository interface {
	Create(ctx context.Context, req *domain.AdoptionRequest) error
	GetByID(ctx context.Context, id string) (*domain.AdoptionRequest, error)
	List(ctx context.Context, limit, offset int) ([]domain.AdoptionRequest, error)
	ListByRequester(ctx context.Context, email string) ([]domain.AdoptionRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.AdoptionStatus) error
}

type adoptionRepository struct {
	pool *pgxpool.Pool
}

// NewAdoptionRepository returns a Postgres-backed implementation.
func NewAdoptionRepository(pool *pgxpool.Pool) AdoptionRepository {
	return &adoptionRepository{pool: pool}
}

func (r *adoptionRepository) Create(ctx context.Context, req *domain.AdoptionRequest) error {
	const query = `
        INSERT INTO adoption_requests (pet_id, requester_email, requester_name, phone, address, status)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		req.PetID,
		req.RequesterEmail,
		req.RequesterName,
		req.Phone,
		req.Address,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *adoptionRepository) GetByID(ctx context.Context, id string) (*domain.AdoptionRequest, error) {
	const query = `
        SELECT id, pet_id, requester_email, requester_name, phone, address, status, created_at, updated_at
        FROM adoption_requests WHERE id=$1`

	var req domain.AdoptionRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.PetID,
		&req.RequesterEmail,
		&req.RequesterName,
		&req.Phone,
		&req.Address,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *adoptionRepository) List(ctx context.Context, limit, offset int) ([]domain.AdoptionRequest, error) {
	const query = `
        SELECT id, pet_id, requester_email, requester_name, phone, address, status, created_at, updated_at
        FROM adoption_requests ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdoptionRequests(rows)
}

func (r *adoptionRepository) ListByRequester(ctx context.Context, email string) ([]domain.AdoptionRequest, error) {
	const query = `
        SELECT id, pet_id, requester_email, requester_name, phone, address, status, created_at, updated_at
        FROM adoption_requests WHERE requester_email=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAdoptionRequests(rows)
}

func (r *adoptionRepository) UpdateStatus(ctx context.Context, id string, status domain.AdoptionStatus) error {
	const query = `UPDATE adoption_requests SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectAdoptionRequests(rows pgx.Rows) ([]domain.AdoptionRequest, error) {
	var requests []domain.AdoptionRequest
	for rows.Next() {
		var req domain.AdoptionRequest
		if err := rows.Scan(
			&req.ID,
			&req.PetID,
			&req.RequesterEmail,
			&req.RequesterName,
			&req.Phone,
			&req.Address,
			&req.Status,
			&req.CreatedAt,
			&req.UpdatedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
