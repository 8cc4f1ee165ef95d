package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// PetFilter narrows pet listings.
type PetFilter struct {
	Category *domain.PetCategory
	Adopted  *bool
	Owner    string
	Limit    int
	Offset   int
}

// PetRepository defines persistence access for pet listings.
type PetRepository interface {
	Create(ctx context.Context, pet *domain.Pet) error
	GetByID(ctx context.Context, id string) (*domain.Pet, error)
	List(ctx context.Context, filter PetFilter) ([]domain.Pet, error)
	SetAdopted(ctx context.Context, id string, adopted bool) error
	Update(ctx context.Context, pet *domain.Pet) error
	Delete(ctx context.Context, id string) error
}

type petRepository struct {
	pool *pgxpool.Pool
}

// NewPetRepository returns a Postgres-backed implementation.
func NewPetRepository(pool *pgxpool.Pool) PetRepository {
	return &petRepository{pool: pool}
}

func (r *petRepository) Create(ctx context.Context, pet *domain.Pet) error {
	const query = `
        INSERT INTO pets (name, age_months, category, location, short_description, long_description, image_url, adopted, owner_email)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		pet.Name,
		pet.AgeMonths,
		pet.Category,
		pet.Location,
		pet.ShortDescription,
		pet.LongDescription,
		pet.ImageURL,
		pet.Adopted,
		pet.OwnerEmail,
	).Scan(&pet.ID, &pet.CreatedAt, &pet.UpdatedAt)
}

func (r *petRepository) GetByID(ctx context.Context, id string) (*domain.Pet, error) {
	const query = `
        SELECT id, name, age_months, category, location, short_description, long_description, image_url, adopted, owner_email, created_at, updated_at
        FROM pets WHERE id=$1`

	var pet domain.Pet
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&pet.ID,
		&pet.Name,
		&pet.AgeMonths,
		&pet.Category,
		&pet.Location,
		&pet.ShortDescription,
		&pet.LongDescription,
		&pet.ImageURL,
		&pet.Adopted,
		&pet.OwnerEmail,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &pet, nil
}

func (r *petRepository) List(ctx context.Context, filter PetFilter) ([]domain.Pet, error) {
	query := `
        SELECT id, name, age_months, category, location, short_description, long_description, image_url, adopted, owner_email, created_at, updated_at
        FROM pets WHERE 1=1`
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		query += ` AND category=$` + strconv.Itoa(len(args))
	}
	if filter.Adopted != nil {
		args = append(args, *filter.Adopted)
		query += ` AND adopted=$` + strconv.Itoa(len(args))
	}
	if filter.Owner != "" {
		args = append(args, filter.Owner)
		query += ` AND owner_email=$` + strconv.Itoa(len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []domain.Pet
	for rows.Next() {
		var pet domain.Pet
		if err := rows.Scan(
			&pet.ID,
			&pet.Name,
			&pet.AgeMonths,
			&pet.Category,
			&pet.Location,
			&pet.ShortDescription,
			&pet.LongDescription,
			&pet.ImageURL,
			&pet.Adopted,
			&pet.OwnerEmail,
			&pet.CreatedAt,
			&pet.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

func (r *petRepository) SetAdopted(ctx context.Context, id string, adopted bool) error {
	const query = `UPDATE pets SET adopted=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, adopted, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *petRepository) Update(ctx context.Context, pet *domain.Pet) error {
	const query = `
        UPDATE pets SET name=$1, age_months=$2, category=$3, location=$4, short_description=$5, long_description=$6, image_url=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		pet.Name,
		pet.AgeMonths,
		pet.Category,
		pet.Location,
		pet.ShortDescription,
		pet.LongDescription,
		pet.ImageURL,
		pet.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *petRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM pets WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
