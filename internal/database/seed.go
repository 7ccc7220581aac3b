package database

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type seedAttraction struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Barangay    *string `json:"barangay"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Image       *string `json:"image"`
}

// Seed loads the starter attractions and the default accounts. Every step
// checks for existing rows first, so running it on every boot is safe.
func Seed(db *gorm.DB, dataDir string) error {
	if err := seedAttractions(db, filepath.Join(dataDir, "attractions.json")); err != nil {
		return err
	}
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedContributor(db)
}

// seedAttractions imports the municipal attraction list as pre-approved,
// unowned content. Skipped entirely once the table has any rows, and also
// when the data file is absent.
func seedAttractions(db *gorm.DB, path string) error {
	var count int64
	if err := db.Model(&models.Attraction{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("seed_data_missing", map[string]interface{}{
				"path": path,
			})
			return nil
		}
		return err
	}

	var entries []seedAttraction
	if err := json.Unmarshal(raw, &entries); err != nil {
		return err
	}

	for _, entry := range entries {
		attraction := models.Attraction{
			Name:        entry.Name,
			Category:    entry.Category,
			Barangay:    entry.Barangay,
			Description: entry.Description,
			Lat:         entry.Lat,
			Lng:         entry.Lng,
			ImageURL:    entry.Image,
		}
		attraction.SetStatus(models.StatusApproved)
		if err := db.Create(&attraction).Error; err != nil {
			return err
		}
	}

	logger.Info("seed_attractions_loaded", map[string]interface{}{
		"count": len(entries),
	})
	return nil
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsApproved:   true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("seed_admin_created", map[string]interface{}{
		"username": admin.Username,
	})
	return nil
}

func seedContributor(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "barangay").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword("barangay123")
	if err != nil {
		return err
	}

	barangay := "Poblacion"
	contributor := models.User{
		Username:     "barangay",
		Email:        "barangay@example.com",
		PasswordHash: hash,
		Role:         models.UserRoleContributor,
		Barangay:     &barangay,
		IsApproved:   true,
	}
	if err := db.Create(&contributor).Error; err != nil {
		return err
	}

	logger.Info("seed_contributor_created", map[string]interface{}{
		"username": contributor.Username,
		"barangay": barangay,
	})
	return nil
}
