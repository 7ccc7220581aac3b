package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/utils"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

// serviceError translates the service sentinel errors into the response
// envelope. Unknown errors become a 500 with a generic message.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return utils.Error(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrPermissionDenied):
		return utils.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrPendingApproval):
		return utils.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.Error(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrBarangaySeatTaken):
		return utils.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrUnsupportedMediaType):
		return utils.Error(c, fiber.StatusUnsupportedMediaType, err.Error())
	default:
		return utils.Error(c, fiber.StatusInternalServerError, "internal server error")
	}
}
