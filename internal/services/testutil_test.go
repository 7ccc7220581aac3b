package services

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

var serviceTestOnce sync.Once

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	serviceTestOnce.Do(func() {
		logger.Init()
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(
		&models.User{},
		&models.Attraction{},
		&models.Event{},
		&models.GalleryItem{},
		&models.BarangayInfo{},
		&models.ModerationLog{},
	); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func newAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return newUser(t, db, "svc-admin", models.UserRoleAdmin, nil, true)
}

func newContributor(t *testing.T, db *gorm.DB, username, barangay string, approved bool) *models.User {
	t.Helper()
	return newUser(t, db, username, models.UserRoleContributor, &barangay, approved)
}

func newUser(t *testing.T, db *gorm.DB, username string, role models.UserRole, barangay *string, approved bool) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("unit-test-pass")
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		Barangay:     barangay,
		IsApproved:   approved,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating user: %v", err)
	}
	return user
}
