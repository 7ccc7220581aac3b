package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type GalleryHandler struct {
	DB          *gorm.DB
	Moderation  *services.ModerationService
	Media       *services.MediaService
	Aggregation *services.AggregationService
}

func NewGalleryHandler(db *gorm.DB, moderation *services.ModerationService, media *services.MediaService, aggregation *services.AggregationService) *GalleryHandler {
	return &GalleryHandler{DB: db, Moderation: moderation, Media: media, Aggregation: aggregation}
}

// List returns approved gallery items, newest first. Filtering by barangay
// goes through the owning user; gallery items carry no barangay themselves.
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	query := h.DB.WithContext(c.Context()).Model(&models.GalleryItem{}).
		Where("gallery_items.status = ?", models.StatusApproved)

	if barangay := strings.TrimSpace(c.Query("barangay")); barangay != "" {
		query = query.
			Joins("JOIN users ON users.id = gallery_items.user_id").
			Where("users.barangay = ?", barangay)
	}
	if mediaType := strings.TrimSpace(c.Query("type")); mediaType != "" {
		query = query.Where("gallery_items.type = ?", mediaType)
	}

	params := utils.ParsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting gallery items")
	}

	var items []models.GalleryItem
	if err := utils.ApplyPagination(query, params).
		Order("gallery_items.created_at DESC").
		Find(&items).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing gallery items")
	}

	return utils.Paginated(c, items, params.Page, params.Limit, total)
}

// Barangays lists the distinct owner barangays of approved items, for the
// public gallery filter.
func (h *GalleryHandler) Barangays(c *fiber.Ctx) error {
	names, err := h.Aggregation.GalleryBarangays(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing barangays")
	}
	return utils.Success(c, fiber.StatusOK, names)
}

// Create accepts a multipart gallery submission. Unlike attractions and
// events, a gallery item is nothing without media: no usable upload and no
// URL is a hard 415.
func (h *GalleryHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !h.Moderation.CanSubmit(user) {
		return utils.Error(c, fiber.StatusForbidden, "approved contributor access required")
	}

	upload, _ := c.FormFile("media_file")
	resolved, err := h.Media.Resolve(c.Context(), user.ID, upload, c.FormValue("media_url"), "")
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing media")
	}
	if resolved.URL == "" {
		if resolved.UnsupportedUpload {
			return serviceError(c, services.ErrUnsupportedMediaType)
		}
		return utils.Error(c, fiber.StatusBadRequest, "media_file or media_url is required")
	}

	item := models.GalleryItem{
		URL:  resolved.URL,
		Type: models.GalleryMediaPhoto,
	}
	item.Status = services.InitialStatus(user)
	item.UserID = services.SubmitterID(user)

	if resolved.FromUpload {
		item.Type = services.DetectMediaType(resolved.Filename)
	} else if mediaType := strings.TrimSpace(c.FormValue("type")); mediaType == string(models.GalleryMediaVideo) {
		item.Type = models.GalleryMediaVideo
	} else {
		item.Type = services.DetectMediaType(resolved.URL)
	}

	if caption := strings.TrimSpace(c.FormValue("caption")); caption != "" {
		item.Caption = &caption
	}

	if err := h.DB.WithContext(c.Context()).Create(&item).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating gallery item")
	}

	logger.InfoWithUser(user.ID.String(), "gallery_item_created", map[string]interface{}{
		"item_id": item.ID.String(),
		"type":    item.Type,
		"status":  item.Status,
	})
	return utils.Success(c, fiber.StatusCreated, item)
}

func (h *GalleryHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid gallery item id")
	}

	var item models.GalleryItem
	if err := h.DB.WithContext(c.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "gallery item not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading gallery item")
	}

	if !h.Moderation.CanModify(user, &item) {
		return utils.Error(c, fiber.StatusForbidden, "no permission to modify this gallery item")
	}

	upload, _ := c.FormFile("media_file")
	resolved, err := h.Media.Resolve(c.Context(), user.ID, upload, c.FormValue("media_url"), item.URL)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing media")
	}
	if resolved.URL != "" && resolved.URL != item.URL {
		item.URL = resolved.URL
		if resolved.FromUpload {
			item.Type = services.DetectMediaType(resolved.Filename)
		} else {
			item.Type = services.DetectMediaType(resolved.URL)
		}
	}

	if caption := strings.TrimSpace(c.FormValue("caption")); caption != "" {
		item.Caption = &caption
	}

	h.Moderation.FinalizeEdit(user, &item)

	if err := h.DB.WithContext(c.Context()).Save(&item).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating gallery item")
	}

	logger.InfoWithUser(user.ID.String(), "gallery_item_updated", map[string]interface{}{
		"item_id": item.ID.String(),
		"status":  item.Status,
	})
	return utils.Success(c, fiber.StatusOK, item)
}

func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid gallery item id")
	}

	var item models.GalleryItem
	if err := h.DB.WithContext(c.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "gallery item not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading gallery item")
	}

	if err := h.Moderation.Delete(c.Context(), user, &item); err != nil {
		return serviceError(c, err)
	}

	return utils.Message(c, fiber.StatusOK, "gallery item deleted")
}

func (h *GalleryHandler) Pending(c *fiber.Ctx) error {
	var items []models.GalleryItem
	if err := h.DB.WithContext(c.Context()).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing pending gallery items")
	}
	return utils.Success(c, fiber.StatusOK, items)
}

func (h *GalleryHandler) Approve(c *fiber.Ctx) error {
	return h.moderate(c, true)
}

func (h *GalleryHandler) Reject(c *fiber.Ctx) error {
	return h.moderate(c, false)
}

func (h *GalleryHandler) moderate(c *fiber.Ctx, approve bool) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid gallery item id")
	}

	var item models.GalleryItem
	if err := h.DB.WithContext(c.Context()).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "gallery item not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading gallery item")
	}

	if approve {
		err = h.Moderation.Approve(c.Context(), user, &item)
	} else {
		err = h.Moderation.Reject(c.Context(), user, &item, rejectionReason(c))
	}
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, item)
}
