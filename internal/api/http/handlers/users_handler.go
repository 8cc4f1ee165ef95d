package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pet-adoption-service/internal/api/dto"
	"github.com/spec-kit/pet-adoption-service/internal/service"
	apperrors "github.com/spec-kit/pet-adoption-service/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Ensure handles PUT /api/users: create-on-first-sign-in. A repeat call for
// the same email reports the existing account instead of creating another.
func (h *UsersHandler) Ensure(c *fiber.Ctx) error {
	var req dto.EnsureUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	user, created, err := h.auth.EnsureUser(c.UserContext(), req.Name, req.Email)
	if err != nil {
		return apperrors.MapError(err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"data": fiber.Map{
			"user":    dto.NewUserResponse(user),
			"created": created,
		},
	})
}

// List handles GET /api/users (admin).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	users, err := h.auth.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// GrantAdmin handles PATCH /api/users/:id/role (admin).
func (h *UsersHandler) GrantAdmin(c *fiber.Ctx) error {
	userID := c.Params("id")

	user, err := h.auth.GrantAdmin(c.UserContext(), userID)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// SetBan handles PATCH /api/users/:id/ban (admin).
func (h *UsersHandler) SetBan(c *fiber.Ctx) error {
	var req dto.BanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.SetBanStatus(c.UserContext(), c.Params("id"), req.Banned)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
