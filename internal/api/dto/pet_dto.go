package dto

import (
	"time"

	"github.com/spec-kit/pet-adoption-service/internal/domain"
)

// PetRequest payload for creating or updating a listing.
type PetRequest struct {
	Name             string `json:"name"`
	AgeMonths        int    `json:"age_months"`
	Category         string `json:"category"`
	Location         string `json:"location"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	ImageURL         string `json:"image_url"`
}

// ToDomain maps the request onto a domain pet.
func (r PetRequest) ToDomain() *domain.Pet {
	return &domain.Pet{
		Name:             r.Name,
		AgeMonths:        r.AgeMonths,
		Category:         domain.PetCategory(r.Category),
		Location:         r.Location,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		ImageURL:         r.ImageURL,
	}
}

// PetResponse is the outward listing shape.
type PetResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	AgeMonths        int       `json:"age_months"`
	Category         string    `json:"category"`
	Location         string    `json:"location"`
	ShortDescription string    `json:"short_description"`
	LongDescription  string    `json:"long_description"`
	ImageURL         string    `json:"image_url"`
	Adopted          bool      `json:"adopted"`
	OwnerEmail       string    `json:"owner_email"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewPetResponse maps a domain pet.
func NewPetResponse(pet *domain.Pet) PetResponse {
	return PetResponse{
		ID:               pet.ID,
		Name:             pet.Name,
		AgeMonths:        pet.AgeMonths,
		Category:         string(pet.Category),
		Location:         pet.Location,
		ShortDescription: pet.ShortDescription,
		LongDescription:  pet.LongDescription,
		ImageURL:         pet.ImageURL,
		Adopted:          pet.Adopted,
		OwnerEmail:       pet.OwnerEmail,
		CreatedAt:        pet.CreatedAt,
	}
}
