package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type UsersHandler struct {
	DB       *gorm.DB
	Accounts *services.AccountService
}

func NewUsersHandler(db *gorm.DB, accounts *services.AccountService) *UsersHandler {
	return &UsersHandler{DB: db, Accounts: accounts}
}

func (h *UsersHandler) List(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.WithContext(c.Context()).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing users")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

// Pending lists contributor registrations awaiting review, oldest first.
func (h *UsersHandler) Pending(c *fiber.Ctx) error {
	users, err := h.Accounts.PendingContributors(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing pending contributors")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

func (h *UsersHandler) Approve(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.Accounts.ApproveContributor(c.Context(), actor, id)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, user)
}

// Reject deletes the registration. Content the user already submitted keeps
// its rows.
func (h *UsersHandler) Reject(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.Accounts.RejectContributor(c.Context(), actor, id); err != nil {
		return serviceError(c, err)
	}
	return utils.Message(c, fiber.StatusOK, "user removed")
}
