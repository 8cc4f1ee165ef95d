package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pet-adoption-service/internal/api/dto"
	"github.com/spec-kit/pet-adoption-service/internal/auth"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// DonationsHandler exposes the donation recording workflow.
type DonationsHandler struct {
	donations *service.DonationService
}

// NewDonationsHandler constructs the handler.
func NewDonationsHandler(donations *service.DonationService) *DonationsHandler {
	return &DonationsHandler{donations: donations}
}

// Record handles POST /api/donations. The response reports each of the two
// writes independently; a partial failure is rendered by the error
// middleware with its own code and the donation identity for reconciliation.
func (h *DonationsHandler) Record(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	var req dto.DonationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.donations.Record(c.UserContext(), service.DonationInput{
		CampaignID: req.CampaignID,
		DonorEmail: identity.Email,
		DonorName:  identity.Name,
		Amount:     req.Amount,
		Date:       req.Date,
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": result})
}

// ListMine handles GET /api/donations/mine.
func (h *DonationsHandler) ListMine(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewMissingCredential()
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	donations, err := h.donations.ListByDonor(c.UserContext(), identity.Email, limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.DonationResponse, 0, len(donations))
	for i := range donations {
		out = append(out, dto.NewDonationResponse(&donations[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Reconcile handles POST /api/donations/reconcile (admin): a manual sweep
// for donation records missing their campaign entry.
func (h *DonationsHandler) Reconcile(c *fiber.Ctx) error {
	repaired, err := h.donations.ReconcileOrphans(c.UserContext(), 100)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"repaired": repaired}})
}
