package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// PetService is a thin pass-through over the pet store with owner/admin
// checks on mutations.
type PetService struct {
	pets     repository.PetRepository
	resolver *auth.RoleResolver
}

// NewPetService builds the service.
func NewPetService(pets repository.PetRepository, resolver *auth.RoleResolver) *PetService {
	return &PetService{pets: pets, resolver: resolver}
}

// Create lists a new pet owned by the caller.
func (s *PetService) Create(ctx context.Context, pet *domain.Pet, ownerEmail string) error {
	if pet.Name == "" || pet.Category == "" {
		return apperrors.NewValidationError("name and category required", nil)
	}
	pet.OwnerEmail = ownerEmail
	pet.Adopted = false
	if err := s.pets.Create(ctx, pet); err != nil {
		return apperrors.NewPersistenceError("create pet", err)
	}
	return nil
}

// Get returns a pet by identity.
func (s *PetService) Get(ctx context.Context, id string) (*domain.Pet, error) {
	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("pet", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceError("get pet", err)
	}
	return pet, nil
}

// List returns pets matching the filter.
func (s *PetService) List(ctx context.Context, filter repository.PetFilter) ([]domain.Pet, error) {
	pets, err := s.pets.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list pets", err)
	}
	return pets, nil
}

// SetAdopted marks a pet adopted or available. Only the listing owner or an
// admin may flip the flag.
func (s *PetService) SetAdopted(ctx context.Context, id string, adopted bool, requester string) error {
	if err := s.authorizeOwnerOrAdmin(ctx, id, requester); err != nil {
		return err
	}
	if err := s.pets.SetAdopted(ctx, id, adopted); err != nil {
		return apperrors.NewPersistenceError("set adopted", err)
	}
	return nil
}

// Update replaces the mutable listing fields.
func (s *PetService) Update(ctx context.Context, pet *domain.Pet, requester string) error {
	if err := s.authorizeOwnerOrAdmin(ctx, pet.ID, requester); err != nil {
		return err
	}
	if err := s.pets.Update(ctx, pet); err != nil {
		return apperrors.NewPersistenceError("update pet", err)
	}
	return nil
}

// Delete removes a listing.
func (s *PetService) Delete(ctx context.Context, id string, requester string) error {
	if err := s.authorizeOwnerOrAdmin(ctx, id, requester); err != nil {
		return err
	}
	if err := s.pets.Delete(ctx, id); err != nil {
		return apperrors.NewPersistenceError("delete pet", err)
	}
	return nil
}

func (s *PetService) authorizeOwnerOrAdmin(ctx context.Context, petID, requester string) error {
	pet, err := s.Get(ctx, petID)
	if err != nil {
		return err
	}
	if pet.OwnerEmail == requester {
		return nil
	}
	resolved, err := s.resolver.Resolve(ctx, requester)
	if err != nil {
		return apperrors.NewPersistenceError("resolve role", err)
	}
	if resolved == nil || resolved.Banned || resolved.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("not the listing owner")
	}
	return nil
}
