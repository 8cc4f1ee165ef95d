package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pet-adoption-service/internal/api/dto"
	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/repository"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// PetsHandler exposes pet listing endpoints.
type PetsHandler struct {
	pets *service.PetService
}

// NewPetsHandler constructs the handler.
func NewPetsHandler(pets *service.PetService) *PetsHandler {
	return &PetsHandler{pets: pets}
}

// Create handles POST /api/pets.
func (h *PetsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var req dto.PetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	pet := req.ToDomain()
	if err := h.pets.Create(c.UserContext(), pet, identity.Email); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPetResponse(pet)})
}

// Get handles GET /api/pets/:id.
func (h *PetsHandler) Get(c *fiber.Ctx) error {
	pet, err := h.pets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewPetResponse(pet)})
}

// List handles GET /api/pets.
func (h *PetsHandler) List(c *fiber.Ctx) error {
	filter := repository.PetFilter{}
	if category := c.Query("category"); category != "" {
		cat := domain.PetCategory(category)
		filter.Category = &cat
	}
	if adoptedRaw := c.Query("adopted"); adoptedRaw != "" {
		adopted, err := strconv.ParseBool(adoptedRaw)
		if err == nil {
			filter.Adopted = &adopted
		}
	}
	filter.Owner = c.Query("owner")
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	pets, err := h.pets.List(c.UserContext(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.PetResponse, 0, len(pets))
	for i := range pets {
		out = append(out, dto.NewPetResponse(&pets[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// SetAdopted handles PATCH /api/pets/:id/adopted.
func (h *PetsHandler) SetAdopted(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var req struct {
		Adopted bool `json:"adopted"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.pets.SetAdopted(c.UserContext(), c.Params("id"), req.Adopted, identity.Email); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Update handles PUT /api/pets/:id.
func (h *PetsHandler) Update(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var req dto.PetRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	pet := req.ToDomain()
	pet.ID = c.Params("id")
	if err := h.pets.Update(c.UserContext(), pet, identity.Email); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Delete handles DELETE /api/pets/:id.
func (h *PetsHandler) Delete(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	if err := h.pets.Delete(c.UserContext(), c.Params("id"), identity.Email); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
