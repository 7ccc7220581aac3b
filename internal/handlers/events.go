package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

const eventDateLayout = "2006-01-02"

type EventsHandler struct {
	DB         *gorm.DB
	Moderation *services.ModerationService
	Media      *services.MediaService
}

func NewEventsHandler(db *gorm.DB, moderation *services.ModerationService, media *services.MediaService) *EventsHandler {
	return &EventsHandler{DB: db, Moderation: moderation, Media: media}
}

// List returns approved events in calendar order.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	query := h.DB.WithContext(c.Context()).Model(&models.Event{}).
		Where("status = ?", models.StatusApproved)

	if barangay := strings.TrimSpace(c.Query("barangay")); barangay != "" {
		query = query.Where("barangay = ?", barangay)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	var events []models.Event
	if err := query.Order("date ASC").Find(&events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing events")
	}
	return utils.Success(c, fiber.StatusOK, events)
}

func (h *EventsHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.WithContext(c.Context()).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading event")
	}

	if event.Status != models.StatusApproved {
		user := middleware.GetCurrentUser(c)
		if user == nil || !h.Moderation.CanModify(user, &event) {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
	}

	return utils.Success(c, fiber.StatusOK, event)
}

func (h *EventsHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !h.Moderation.CanSubmit(user) {
		return utils.Error(c, fiber.StatusForbidden, "approved contributor access required")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	description := strings.TrimSpace(c.FormValue("description"))
	location := strings.TrimSpace(c.FormValue("location"))
	if title == "" || description == "" || location == "" {
		return utils.Error(c, fiber.StatusBadRequest, "title, description and location are required")
	}

	date, err := time.Parse(eventDateLayout, c.FormValue("date"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "date must be in YYYY-MM-DD format")
	}

	event := models.Event{
		Title:       title,
		Description: description,
		Date:        date,
		Location:    location,
		Category:    "Civic",
	}
	event.Status = services.InitialStatus(user)
	event.UserID = services.SubmitterID(user)

	if category := strings.TrimSpace(c.FormValue("category")); category != "" {
		event.Category = category
	}
	if barangay := strings.TrimSpace(c.FormValue("barangay")); barangay != "" {
		event.Barangay = &barangay
	}

	upload, _ := c.FormFile("image_file")
	resolved, err := h.Media.Resolve(c.Context(), user.ID, upload, c.FormValue("image_url"), "")
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing image")
	}
	if resolved.URL != "" {
		event.ImageURL = &resolved.URL
	}

	if err := h.DB.WithContext(c.Context()).Create(&event).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating event")
	}

	logger.InfoWithUser(user.ID.String(), "event_created", map[string]interface{}{
		"event_id": event.ID.String(),
		"status":   event.Status,
	})
	return utils.Success(c, fiber.StatusCreated, event)
}

func (h *EventsHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.WithContext(c.Context()).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading event")
	}

	if !h.Moderation.CanModify(user, &event) {
		return utils.Error(c, fiber.StatusForbidden, "no permission to modify this event")
	}

	if title := strings.TrimSpace(c.FormValue("title")); title != "" {
		event.Title = title
	}
	if description := strings.TrimSpace(c.FormValue("description")); description != "" {
		event.Description = description
	}
	if location := strings.TrimSpace(c.FormValue("location")); location != "" {
		event.Location = location
	}
	if category := strings.TrimSpace(c.FormValue("category")); category != "" {
		event.Category = category
	}
	if barangay := strings.TrimSpace(c.FormValue("barangay")); barangay != "" {
		event.Barangay = &barangay
	}
	if raw := c.FormValue("date"); raw != "" {
		date, err := time.Parse(eventDateLayout, raw)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "date must be in YYYY-MM-DD format")
		}
		event.Date = date
	}

	current := ""
	if event.ImageURL != nil {
		current = *event.ImageURL
	}
	upload, _ := c.FormFile("image_file")
	resolved, err := h.Media.Resolve(c.Context(), user.ID, upload, c.FormValue("image_url"), current)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing image")
	}
	if resolved.URL != "" {
		event.ImageURL = &resolved.URL
	} else {
		event.ImageURL = nil
	}

	h.Moderation.FinalizeEdit(user, &event)

	if err := h.DB.WithContext(c.Context()).Save(&event).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating event")
	}

	logger.InfoWithUser(user.ID.String(), "event_updated", map[string]interface{}{
		"event_id": event.ID.String(),
		"status":   event.Status,
	})
	return utils.Success(c, fiber.StatusOK, event)
}

func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.WithContext(c.Context()).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading event")
	}

	if err := h.Moderation.Delete(c.Context(), user, &event); err != nil {
		return serviceError(c, err)
	}

	return utils.Message(c, fiber.StatusOK, "event deleted")
}

func (h *EventsHandler) Pending(c *fiber.Ctx) error {
	var events []models.Event
	if err := h.DB.WithContext(c.Context()).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing pending events")
	}
	return utils.Success(c, fiber.StatusOK, events)
}

func (h *EventsHandler) Approve(c *fiber.Ctx) error {
	return h.moderate(c, true)
}

func (h *EventsHandler) Reject(c *fiber.Ctx) error {
	return h.moderate(c, false)
}

func (h *EventsHandler) moderate(c *fiber.Ctx, approve bool) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid event id")
	}

	var event models.Event
	if err := h.DB.WithContext(c.Context()).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "event not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading event")
	}

	if approve {
		err = h.Moderation.Approve(c.Context(), user, &event)
	} else {
		err = h.Moderation.Reject(c.Context(), user, &event, rejectionReason(c))
	}
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, event)
}
