package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pet-adoption-service/internal/api/dto"
	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/domain"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// AdoptionsHandler exposes adoption application endpoints.
type AdoptionsHandler struct {
	adoptions *service.AdoptionService
}

// NewAdoptionsHandler constructs the handler.
func NewAdoptionsHandler(adoptions *service.AdoptionService) *AdoptionsHandler {
	return &AdoptionsHandler{adoptions: adoptions}
}

// Submit handles POST /api/adoptions.
func (h *AdoptionsHandler) Submit(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var req dto.AdoptionRequestPayload
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	adoption := &domain.AdoptionRequest{
		PetID:   req.PetID,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.adoptions.Submit(c.UserContext(), adoption, identity.Email, identity.Name); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAdoptionResponse(adoption)})
}

// List handles GET /api/adoptions (admin).
func (h *AdoptionsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	requests, err := h.adoptions.List(c.UserContext(), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.AdoptionResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewAdoptionResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// ListMine handles GET /api/adoptions/mine.
func (h *AdoptionsHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	requests, err := h.adoptions.ListMine(c.UserContext(), identity.Email)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.AdoptionResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.NewAdoptionResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Decide handles PATCH /api/adoptions/:id/status.
func (h *AdoptionsHandler) Decide(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var req dto.AdoptionDecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	decided, err := h.adoptions.Decide(c.UserContext(), c.Params("id"), req.Accept, identity.Email)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewAdoptionResponse(decided)})
}
