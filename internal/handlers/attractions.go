package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mangatarem/tourism-backend/internal/middleware"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/internal/services"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type AttractionsHandler struct {
	DB          *gorm.DB
	Moderation  *services.ModerationService
	Media       *services.MediaService
	Aggregation *services.AggregationService
}

func NewAttractionsHandler(db *gorm.DB, moderation *services.ModerationService, media *services.MediaService, aggregation *services.AggregationService) *AttractionsHandler {
	return &AttractionsHandler{DB: db, Moderation: moderation, Media: media, Aggregation: aggregation}
}

// List returns approved attractions with optional barangay/category filters.
// featured=true returns the top three, for the landing page strip.
func (h *AttractionsHandler) List(c *fiber.Ctx) error {
	query := h.DB.WithContext(c.Context()).Model(&models.Attraction{}).
		Where("status = ?", models.StatusApproved)

	if barangay := strings.TrimSpace(c.Query("barangay")); barangay != "" {
		query = query.Where("barangay = ?", barangay)
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}

	if c.Query("featured") == "true" {
		var featured []models.Attraction
		if err := query.Order("created_at ASC").Limit(3).Find(&featured).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed listing attractions")
		}
		return utils.Success(c, fiber.StatusOK, featured)
	}

	params := utils.ParsePagination(c)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting attractions")
	}

	var attractions []models.Attraction
	if err := utils.ApplyPagination(query, params).
		Order("created_at ASC").
		Find(&attractions).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing attractions")
	}

	return utils.Paginated(c, attractions, params.Page, params.Limit, total)
}

// Barangays lists distinct barangay names carrying approved attractions, used
// by the public map filter.
func (h *AttractionsHandler) Barangays(c *fiber.Ctx) error {
	names, err := h.Aggregation.AttractionBarangays(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing barangays")
	}
	return utils.Success(c, fiber.StatusOK, names)
}

// Get returns one attraction. Pending and rejected items are only visible
// to their owner or an admin.
func (h *AttractionsHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid attraction id")
	}

	var attraction models.Attraction
	if err := h.DB.WithContext(c.Context()).First(&attraction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "attraction not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading attraction")
	}

	if attraction.Status != models.StatusApproved {
		user := middleware.GetCurrentUser(c)
		if user == nil || !h.Moderation.CanModify(user, &attraction) {
			return utils.Error(c, fiber.StatusNotFound, "attraction not found")
		}
	}

	return utils.Success(c, fiber.StatusOK, attraction)
}

// Create accepts a multipart submission. The initial status follows the
// actor's role: admin insertions go live unowned, contributor submissions
// queue for review under their account.
func (h *AttractionsHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !h.Moderation.CanSubmit(user) {
		return utils.Error(c, fiber.StatusForbidden, "approved contributor access required")
	}

	name := strings.TrimSpace(c.FormValue("name"))
	description := strings.TrimSpace(c.FormValue("description"))
	category := strings.TrimSpace(c.FormValue("category"))
	if name == "" || description == "" || category == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name, description and category are required")
	}

	lat, latErr := strconv.ParseFloat(c.FormValue("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.FormValue("lng"), 64)
	if latErr != nil || lngErr != nil {
		return utils.Error(c, fiber.StatusBadRequest, "lat and lng must be valid coordinates")
	}

	attraction := models.Attraction{
		Name:        name,
		Description: description,
		Category:    category,
		Lat:         lat,
		Lng:         lng,
	}
	attraction.Status = services.InitialStatus(user)
	attraction.UserID = services.SubmitterID(user)

	if barangay := strings.TrimSpace(c.FormValue("barangay")); barangay != "" {
		attraction.Barangay = &barangay
	}

	upload, _ := c.FormFile("image_file")
	resolved, err := h.Media.Resolve(c.Context(), user.ID, upload, c.FormValue("image_url"), "")
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing image")
	}
	if resolved.URL != "" {
		attraction.ImageURL = &resolved.URL
	}

	if err := h.DB.WithContext(c.Context()).Create(&attraction).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating attraction")
	}

	logger.InfoWithUser(user.ID.String(), "attraction_created", map[string]interface{}{
		"attraction_id": attraction.ID.String(),
		"status":        attraction.Status,
	})
	return utils.Success(c, fiber.StatusCreated, attraction)
}

// Update edits an attraction in place. A non-admin owner edit sends the
// item back to pending regardless of its previous status.
func (h *AttractionsHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid attraction id")
	}

	var attraction models.Attraction
	if err := h.DB.WithContext(c.Context()).First(&attraction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "attraction not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading attraction")
	}

	if !h.Moderation.CanModify(user, &attraction) {
		return utils.Error(c, fiber.StatusForbidden, "no permission to modify this attraction")
	}

	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		attraction.Name = name
	}
	if description := strings.TrimSpace(c.FormValue("description")); description != "" {
		attraction.Description = description
	}
	if category := strings.TrimSpace(c.FormValue("category")); category != "" {
		attraction.Category = category
	}
	if barangay := strings.TrimSpace(c.FormValue("barangay")); barangay != "" {
		attraction.Barangay = &barangay
	}
	if raw := c.FormValue("lat"); raw != "" {
		lat, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "lat must be a valid coordinate")
		}
		attraction.Lat = lat
	}
	if raw := c.FormValue("lng"); raw != "" {
		lng, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "lng must be a valid coordinate")
		}
		attraction.Lng = lng
	}

	current := ""
	if attraction.ImageURL != nil {
		current = *attraction.ImageURL
	}
	upload, _ := c.FormFile("image_file")
	resolved, err := h.Media.Resolve(c.Context(), user.ID, upload, c.FormValue("image_url"), current)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed storing image")
	}
	if resolved.URL != "" {
		attraction.ImageURL = &resolved.URL
	} else {
		attraction.ImageURL = nil
	}

	h.Moderation.FinalizeEdit(user, &attraction)

	if err := h.DB.WithContext(c.Context()).Save(&attraction).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating attraction")
	}

	logger.InfoWithUser(user.ID.String(), "attraction_updated", map[string]interface{}{
		"attraction_id": attraction.ID.String(),
		"status":        attraction.Status,
	})
	return utils.Success(c, fiber.StatusOK, attraction)
}

func (h *AttractionsHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid attraction id")
	}

	var attraction models.Attraction
	if err := h.DB.WithContext(c.Context()).First(&attraction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "attraction not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading attraction")
	}

	if err := h.Moderation.Delete(c.Context(), user, &attraction); err != nil {
		return serviceError(c, err)
	}

	return utils.Message(c, fiber.StatusOK, "attraction deleted")
}

func (h *AttractionsHandler) Pending(c *fiber.Ctx) error {
	var attractions []models.Attraction
	if err := h.DB.WithContext(c.Context()).
		Where("status = ?", models.StatusPending).
		Order("created_at ASC").
		Find(&attractions).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing pending attractions")
	}
	return utils.Success(c, fiber.StatusOK, attractions)
}

func (h *AttractionsHandler) Approve(c *fiber.Ctx) error {
	return h.moderate(c, true)
}

func (h *AttractionsHandler) Reject(c *fiber.Ctx) error {
	return h.moderate(c, false)
}

func (h *AttractionsHandler) moderate(c *fiber.Ctx, approve bool) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid attraction id")
	}

	var attraction models.Attraction
	if err := h.DB.WithContext(c.Context()).First(&attraction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "attraction not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading attraction")
	}

	if approve {
		err = h.Moderation.Approve(c.Context(), user, &attraction)
	} else {
		err = h.Moderation.Reject(c.Context(), user, &attraction, rejectionReason(c))
	}
	if err != nil {
		return serviceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, attraction)
}

// rejectionReason pulls the optional reason from a JSON body.
func rejectionReason(c *fiber.Ctx) *string {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return nil
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		return nil
	}
	return &reason
}
