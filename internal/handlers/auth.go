package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
)

type AuthHandler struct {
	Accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{Accounts: accounts}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Barangay string `json:"barangay"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a contributor account tied to one barangay. The account
// stays locked out of login until an admin approves it.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Barangay = strings.TrimSpace(req.Barangay)

	if req.Username == "" || req.Email == "" || req.Password == "" || req.Barangay == "" {
		return utils.Error(c, fiber.StatusBadRequest, "username, email, password and barangay are required")
	}
	if len(req.Password) < 8 {
		return utils.Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	user, err := h.Accounts.Register(c.Context(), req.Username, req.Email, req.Password, req.Barangay)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusCreated, user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.Accounts.Authenticate(c.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		logger.Warn("login_failed", map[string]interface{}{
			"username": req.Username,
			"ip":       c.IP(),
		})
		return serviceError(c, err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	logger.InfoWithUser(user.ID.String(), "login_success", map[string]interface{}{
		"username": user.Username,
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return utils.Success(c, fiber.StatusOK, user)
}
