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

type BarangaysHandler struct {
	DB          *gorm.DB
	Aggregation *services.AggregationService
}

func NewBarangaysHandler(db *gorm.DB, aggregation *services.AggregationService) *BarangaysHandler {
	return &BarangaysHandler{DB: db, Aggregation: aggregation}
}

// Directory lists every barangay with an approved representative, each with
// its derived summary. Recomputed on every request.
func (h *BarangaysHandler) Directory(c *fiber.Ctx) error {
	summaries, err := h.Aggregation.Directory(c.Context())
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed building barangay directory")
	}
	return utils.Success(c, fiber.StatusOK, summaries)
}

// Profile returns the public page payload for one barangay. A name with no
// approved representative is still served; it just aggregates to empty.
func (h *BarangaysHandler) Profile(c *fiber.Ctx) error {
	name := strings.TrimSpace(c.Params("name"))
	if name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "barangay name is required")
	}

	profile, err := h.Aggregation.Profile(c.Context(), name)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed building barangay profile")
	}
	return utils.Success(c, fiber.StatusOK, profile)
}

type contributorDashboard struct {
	Attractions  int64 `json:"attractions"`
	Events       int64 `json:"events"`
	GalleryItems int64 `json:"galleryItems"`
	Pending      int64 `json:"pending"`
}

// Dashboard reports the contributor's own content counts across all
// statuses, plus how many of their items still await review.
func (h *BarangaysHandler) Dashboard(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var stats contributorDashboard
	db := h.DB.WithContext(c.Context())

	if err := db.Model(&models.Attraction{}).Where("user_id = ?", user.ID).Count(&stats.Attractions).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}
	if err := db.Model(&models.Event{}).Where("user_id = ?", user.ID).Count(&stats.Events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}
	if err := db.Model(&models.GalleryItem{}).Where("user_id = ?", user.ID).Count(&stats.GalleryItems).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
	}

	for _, model := range []interface{}{&models.Attraction{}, &models.Event{}, &models.GalleryItem{}} {
		var pending int64
		if err := db.Model(model).Where("user_id = ? AND status = ?", user.ID, models.StatusPending).Count(&pending).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
		}
		stats.Pending += pending
	}

	return utils.Success(c, fiber.StatusOK, stats)
}

func (h *BarangaysHandler) MyAttractions(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var attractions []models.Attraction
	if err := h.DB.WithContext(c.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&attractions).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing attractions")
	}
	return utils.Success(c, fiber.StatusOK, attractions)
}

func (h *BarangaysHandler) MyEvents(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var events []models.Event
	if err := h.DB.WithContext(c.Context()).
		Where("user_id = ?", user.ID).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing events")
	}
	return utils.Success(c, fiber.StatusOK, events)
}

func (h *BarangaysHandler) MyGallery(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var items []models.GalleryItem
	if err := h.DB.WithContext(c.Context()).
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing gallery items")
	}
	return utils.Success(c, fiber.StatusOK, items)
}

// MyProfile returns the contributor's own BarangayInfo, or an empty shell
// when none has been written yet.
func (h *BarangaysHandler) MyProfile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.Barangay == nil {
		return utils.Error(c, fiber.StatusBadRequest, "account has no barangay assigned")
	}

	var info models.BarangayInfo
	err := h.DB.WithContext(c.Context()).First(&info, "barangay_name = ?", *user.Barangay).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Success(c, fiber.StatusOK, models.BarangayInfo{BarangayName: *user.Barangay})
	}
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading barangay profile")
	}
	return utils.Success(c, fiber.StatusOK, info)
}

type barangayInfoRequest struct {
	History        *string `json:"history"`
	CulturalAssets *string `json:"culturalAssets"`
	Traditions     *string `json:"traditions"`
	LocalPractices *string `json:"localPractices"`
	UniqueFeatures *string `json:"uniqueFeatures"`
}

// UpsertProfile writes the contributor's BarangayInfo, keyed by their own
// barangay. Fields omitted from the body are left unchanged.
func (h *BarangaysHandler) UpsertProfile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.Barangay == nil {
		return utils.Error(c, fiber.StatusBadRequest, "account has no barangay assigned")
	}

	var req barangayInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	db := h.DB.WithContext(c.Context())

	var info models.BarangayInfo
	err := db.First(&info, "barangay_name = ?", *user.Barangay).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userID := user.ID
		info = models.BarangayInfo{
			BarangayName: *user.Barangay,
			UserID:       &userID,
		}
	} else if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed loading barangay profile")
	}

	if req.History != nil {
		info.History = req.History
	}
	if req.CulturalAssets != nil {
		info.CulturalAssets = req.CulturalAssets
	}
	if req.Traditions != nil {
		info.Traditions = req.Traditions
	}
	if req.LocalPractices != nil {
		info.LocalPractices = req.LocalPractices
	}
	if req.UniqueFeatures != nil {
		info.UniqueFeatures = req.UniqueFeatures
	}

	if err := db.Save(&info).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed saving barangay profile")
	}

	logger.InfoWithUser(user.ID.String(), "barangay_info_saved", map[string]interface{}{
		"barangay": info.BarangayName,
	})
	return utils.Success(c, fiber.StatusOK, info)
}
