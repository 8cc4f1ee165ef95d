package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// AdoptionService handles adoption applications against pet listings.
type AdoptionService struct {
	adoptions repository.AdoptionRepository
	pets      repository.PetRepository
}

// NewAdoptionService builds the service.
func NewAdoptionService(adoptions repository.AdoptionRepository, pets repository.PetRepository) *AdoptionService {
	return &AdoptionService{adoptions: adoptions, pets: pets}
}

// Submit files an adoption request for a listed pet.
func (s *AdoptionService) Submit(ctx context.Context, req *domain.AdoptionRequest, requesterEmail, requesterName string) error {
	if req.PetID == "" {
		return apperrors.NewValidationError("pet_id required", nil)
	}

	pet, err := s.pets.GetByID(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("pet", map[string]any{"id": req.PetID})
		}
		return apperrors.NewPersistenceError("get pet", err)
	}
	if pet.Adopted {
		return apperrors.NewConflict("pet already adopted", map[string]any{"pet_id": pet.ID})
	}
	if pet.OwnerEmail == requesterEmail {
		return apperrors.NewConflict("cannot adopt your own listing", nil)
	}

	req.RequesterEmail = requesterEmail
	req.RequesterName = requesterName
	req.Status = domain.AdoptionStatusPending
	if err := s.adoptions.Create(ctx, req); err != nil {
		return apperrors.NewPersistenceError("create adoption request", err)
	}
	return nil
}

// List returns a page of requests for the admin dashboard.
func (s *AdoptionService) List(ctx context.Context, limit, offset int) ([]domain.AdoptionRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	requests, err := s.adoptions.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list adoption requests", err)
	}
	return requests, nil
}

// ListMine returns the caller's own requests.
func (s *AdoptionService) ListMine(ctx context.Context, email string) ([]domain.AdoptionRequest, error) {
	requests, err := s.adoptions.ListByRequester(ctx, email)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list adoption requests", err)
	}
	return requests, nil
}

// Decide accepts or rejects a pending request. Only the pet's listing owner
// may decide; acceptance marks the pet adopted.
func (s *AdoptionService) Decide(ctx context.Context, requestID string, accept bool, decider string) (*domain.AdoptionRequest, error) {
	req, err := s.adoptions.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("adoption request", map[string]any{"id": requestID})
		}
		return nil, apperrors.NewPersistenceError("get adoption request", err)
	}
	if req.Status != domain.AdoptionStatusPending {
		return nil, apperrors.NewConflict("request already decided", map[string]any{"status": req.Status})
	}

	pet, err := s.pets.GetByID(ctx, req.PetID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("get pet", err)
	}
	if pet.OwnerEmail != decider {
		return nil, apperrors.NewForbidden("only the listing owner can decide")
	}

	status := domain.AdoptionStatusRejected
	if accept {
		status = domain.AdoptionStatusAccepted
	}
	if err := s.adoptions.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, apperrors.NewPersistenceError("update adoption status", err)
	}
	if accept {
		if err := s.pets.SetAdopted(ctx, req.PetID, true); err != nil {
			return nil, apperrors.NewPersistenceError("set adopted", err)
		}
	}
	req.Status = status
	return req, nil
}
