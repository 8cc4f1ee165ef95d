package dto

import (
	"time"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// AdoptionRequestPayload is an application to adopt a listed pet.
type AdoptionRequestPayload struct {
	PetID   string `json:"pet_id"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// AdoptionDecisionRequest accepts or rejects a pending request.
type AdoptionDecisionRequest struct {
	Accept bool `json:"accept"`
}

// AdoptionResponse is the outward request shape.
type AdoptionResponse struct {
	ID             string    `json:"id"`
	PetID          string    `json:"pet_id"`
	RequesterEmail string    `json:"requester_email"`
	RequesterName  string    `json:"requester_name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewAdoptionResponse maps a domain request.
func NewAdoptionResponse(req *domain.AdoptionRequest) AdoptionResponse {
	return AdoptionResponse{
		ID:             req.ID,
		PetID:          req.PetID,
		RequesterEmail: req.RequesterEmail,
		RequesterName:  req.RequesterName,
		Phone:          req.Phone,
		Address:        req.Address,
		Status:         string(req.Status),
		CreatedAt:      req.CreatedAt,
	}
}
