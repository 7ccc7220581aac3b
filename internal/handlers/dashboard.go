package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

type adminDashboard struct {
	Attractions         int64 `json:"attractions"`
	Events              int64 `json:"events"`
	GalleryItems        int64 `json:"galleryItems"`
	Users               int64 `json:"users"`
	PendingUsers        int64 `json:"pendingUsers"`
	PendingAttractions  int64 `json:"pendingAttractions"`
	PendingEvents       int64 `json:"pendingEvents"`
	PendingGalleryItems int64 `json:"pendingGalleryItems"`
}

// Admin reports portal-wide totals plus the size of every review queue.
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.Context())
	var stats adminDashboard

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Attractions, db.Model(&models.Attraction{})},
		{&stats.Events, db.Model(&models.Event{})},
		{&stats.GalleryItems, db.Model(&models.GalleryItem{})},
		{&stats.Users, db.Model(&models.User{})},
		{&stats.PendingUsers, db.Model(&models.User{}).Where("role = ? AND is_approved = ?", models.UserRoleContributor, false)},
		{&stats.PendingAttractions, db.Model(&models.Attraction{}).Where("status = ?", models.StatusPending)},
		{&stats.PendingEvents, db.Model(&models.Event{}).Where("status = ?", models.StatusPending)},
		{&stats.PendingGalleryItems, db.Model(&models.GalleryItem{}).Where("status = ?", models.StatusPending)},
	}
	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed loading dashboard")
		}
	}

	return utils.Success(c, fiber.StatusOK, stats)
}
