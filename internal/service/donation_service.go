package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/events"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// DonationService runs the two-write donation workflow: insert the donation
// record, then append the donor summary to the parent campaign. The two
// writes are not wrapped in one transaction; instead the append is idempotent
// keyed by donation identity, partial failures are surfaced distinctly, and
// a reconciliation pass re-applies orphaned records.
type DonationService struct {
	donations  repository.DonationRepository
	campaigns  repository.CampaignRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// DonationDependencies bundles requirements for the donation service.
type DonationDependencies struct {
	DonationRepo repository.DonationRepository
	CampaignRepo repository.CampaignRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewDonationService builds the service.
func NewDonationService(deps DonationDependencies) *DonationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonationService{
		donations:  deps.DonationRepo,
		campaigns:  deps.CampaignRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// DonationInput describes one donation submission.
type DonationInput struct {
	CampaignID string
	DonorEmail string
	DonorName  string
	Amount     int64
	Date       time.Time
}

// DonationResult reports each write's outcome independently, never collapsed
// into one boolean.
type DonationResult struct {
	DonationID       string `json:"donation_id"`
	DonationInserted bool   `json:"donation_inserted"`
	CampaignUpdated  bool   `json:"campaign_updated"`
}

// Record executes the workflow. The campaign append is only attempted after
// the donation insert has been acknowledged.
func (s *DonationService) Record(ctx context.Context, input DonationInput) (DonationResult, error) {
	var result DonationResult

	if input.CampaignID == "" {
		return result, apperrors.NewValidationError("campaign_id required", nil)
	}
	if input.DonorEmail == "" {
		return result, apperrors.NewValidationError("donor_email required", nil)
	}
	if input.Amount <= 0 {
		return result, apperrors.NewValidationError("amount must be positive", nil)
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	donation := &domain.Donation{
		ID:         uuid.NewString(),
		CampaignID: input.CampaignID,
		DonorEmail: input.DonorEmail,
		DonorName:  input.DonorName,
		Amount:     input.Amount,
		Date:       date,
	}

	if err := s.donations.Create(ctx, donation); err != nil {
		return result, apperrors.NewPersistenceError("insert donation", err)
	}
	result.DonationID = donation.ID
	result.DonationInserted = true

	if err := s.campaigns.AppendDonator(ctx, donation.CampaignID, donation.DonorEntryFor()); err != nil {
		s.logger.Error("campaign append failed after donation insert",
			zap.String("donation_id", donation.ID),
			zap.String("campaign_id", donation.CampaignID),
			zap.Error(err),
		)
		s.publish(ctx, events.EventDonationPartialFailure, events.DonationPartialFailurePayload{
			DonationID: donation.ID,
			CampaignID: donation.CampaignID,
			Reason:     err.Error(),
		})
		return result, apperrors.NewPartialDonationFailure(donation.ID, err)
	}
	result.CampaignUpdated = true

	s.publish(ctx, events.EventDonationRecorded, events.DonationRecordedPayload{
		DonationID: donation.ID,
		CampaignID: donation.CampaignID,
		DonorEmail: donation.DonorEmail,
		Amount:     donation.Amount,
	})
	return result, nil
}

// RetryAppend re-applies the campaign append for an existing donation. Safe
// to call for donations whose append already succeeded.
func (s *DonationService) RetryAppend(ctx context.Context, donationID string) error {
	donation, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("donation", map[string]any{"id": donationID})
		}
		return apperrors.NewPersistenceError("get donation", err)
	}
	if err := s.campaigns.AppendDonator(ctx, donation.CampaignID, donation.DonorEntryFor()); err != nil {
		return apperrors.NewPersistenceError("append donator", err)
	}
	return nil
}

// ReconcileOrphans scans for donation records lacking a matching campaign
// entry and re-applies them. Returns the number of repaired records.
func (s *DonationService) ReconcileOrphans(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	orphans, err := s.donations.ListUnreconciled(ctx, limit)
	if err != nil {
		return 0, apperrors.NewPersistenceError("list unreconciled donations", err)
	}

	repaired := 0
	for _, donation := range orphans {
		if err := s.campaigns.AppendDonator(ctx, donation.CampaignID, donation.DonorEntryFor()); err != nil {
			s.logger.Warn("reconcile append failed",
				zap.String("donation_id", donation.ID),
				zap.Error(err),
			)
			continue
		}
		repaired++
	}
	if repaired > 0 {
		s.logger.Info("reconciled orphaned donations", zap.Int("count", repaired))
	}
	return repaired, nil
}

// ListByDonor returns the caller's own donations.
func (s *DonationService) ListByDonor(ctx context.Context, email string, limit, offset int) ([]domain.Donation, error) {
	if limit <= 0 {
		limit = 50
	}
	donations, err := s.donations.ListByDonor(ctx, email, limit, offset)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list donations", err)
	}
	return donations, nil
}

func (s *DonationService) publish(ctx context.Context, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
