package dto

import (
	"time"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// DonationRequest is one donation submission. Amount is in cents.
type DonationRequest struct {
	CampaignID string    `json:"campaign_id"`
	Amount     int64     `json:"amount"`
	Date       time.Time `json:"date"`
}

// DonationResponse is the outward donation shape.
type DonationResponse struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	DonorEmail string    `json:"donor_email"`
	DonorName  string    `json:"donor_name"`
	Amount     int64     `json:"amount"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewDonationResponse maps a domain donation.
func NewDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		ID:         d.ID,
		CampaignID: d.CampaignID,
		DonorEmail: d.DonorEmail,
		DonorName:  d.DonorName,
		Amount:     d.Amount,
		Date:       d.Date,
		CreatedAt:  d.CreatedAt,
	}
}
