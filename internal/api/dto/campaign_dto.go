package dto

import (
	"time"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// CampaignRequest payload for opening a campaign. MaxDonation is in cents.
type CampaignRequest struct {
	Title            string    `json:"title"`
	MaxDonation      int64     `json:"max_donation"`
	LastDate         time.Time `json:"last_date"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description"`
	ImageURL         string    `json:"image_url"`
}

// ToDomain maps the request onto a domain campaign.
func (r CampaignRequest) ToDomain() *domain.Campaign {
	return &domain.Campaign{
		Title:            r.Title,
		MaxDonation:      r.MaxDonation,
		LastDate:         r.LastDate,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		ImageURL:         r.ImageURL,
	}
}

// PauseRequest payload for pausing or resuming a campaign.
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// CampaignResponse is the outward campaign shape. Raised is derived from the
// donator list at read time.
type CampaignResponse struct {
	ID               string              `json:"id"`
	Title            string              `json:"title"`
	MaxDonation      int64               `json:"max_donation"`
	Raised           int64               `json:"raised"`
	LastDate         time.Time           `json:"last_date"`
	ShortDescription string              `json:"short_description"`
	LongDescription  string              `json:"long_description"`
	ImageURL         string              `json:"image_url"`
	Paused           bool                `json:"paused"`
	OwnerEmail       string              `json:"owner_email"`
	Donators         []domain.DonorEntry `json:"donators"`
	CreatedAt        time.Time           `json:"created_at"`
}

// NewCampaignResponse maps a domain campaign.
func NewCampaignResponse(c *domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:               c.ID,
		Title:            c.Title,
		MaxDonation:      c.MaxDonation,
		Raised:           c.Raised(),
		LastDate:         c.LastDate,
		ShortDescription: c.ShortDescription,
		LongDescription:  c.LongDescription,
		ImageURL:         c.ImageURL,
		Paused:           c.Paused,
		OwnerEmail:       c.OwnerEmail,
		Donators:         c.Donators,
		CreatedAt:        c.CreatedAt,
	}
}
