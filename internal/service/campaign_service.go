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

// CampaignService is a thin pass-through over the campaign store. Pausing is
// restricted to the campaign owner or an admin.
type CampaignService struct {
	campaigns repository.CampaignRepository
	resolver  *auth.RoleResolver
}

// NewCampaignService builds the service.
func NewCampaignService(campaigns repository.CampaignRepository, resolver *auth.RoleResolver) *CampaignService {
	return &CampaignService{campaigns: campaigns, resolver: resolver}
}

// Create opens a new fundraising campaign owned by the caller.
func (s *CampaignService) Create(ctx context.Context, campaign *domain.Campaign, ownerEmail string) error {
	if campaign.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}
	if campaign.MaxDonation <= 0 {
		return apperrors.NewValidationError("max_donation must be positive", nil)
	}
	campaign.OwnerEmail = ownerEmail
	campaign.Paused = false
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return apperrors.NewPersistenceError("create campaign", err)
	}
	return nil
}

// Get returns a campaign by identity.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", map[string]any{"id": id})
		}
		return nil, apperrors.NewPersistenceError("get campaign", err)
	}
	return campaign, nil
}

// List returns a page of campaigns.
func (s *CampaignService) List(ctx context.Context, limit, offset int) ([]domain.Campaign, error) {
	if limit <= 0 {
		limit = 50
	}
	campaigns, err := s.campaigns.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list campaigns", err)
	}
	return campaigns, nil
}

// ListByOwner returns the caller's own campaigns.
func (s *CampaignService) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Campaign, error) {
	campaigns, err := s.campaigns.ListByOwner(ctx, ownerEmail)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list campaigns", err)
	}
	return campaigns, nil
}

// SetPaused pauses or resumes a campaign.
func (s *CampaignService) SetPaused(ctx context.Context, id string, paused bool, requester string) error {
	campaign, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if campaign.OwnerEmail != requester {
		resolved, err := s.resolver.Resolve(ctx, requester)
		if err != nil {
			return apperrors.NewPersistenceError("resolve role", err)
		}
		if resolved == nil || resolved.Banned || resolved.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("not the campaign owner")
		}
	}
	if err := s.campaigns.SetPaused(ctx, id, paused); err != nil {
		return apperrors.NewPersistenceError("set paused", err)
	}
	return nil
}
