package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Init()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed migrating: %v", err)
	}
	return db
}

func writeSeedFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	fixture := `[
		{"name": "Falls", "category": "Nature", "barangay": "Malabobo",
		 "description": "seeded", "lat": 15.92, "lng": 120.38, "image": null},
		{"name": "Plaza", "category": "Landmark", "barangay": "Poblacion",
		 "description": "seeded", "lat": 15.99, "lng": 120.48,
		 "image": "http://example.com/plaza.jpg"}
	]`
	if err := os.WriteFile(filepath.Join(dir, "attractions.json"), []byte(fixture), 0o644); err != nil {
		t.Fatalf("failed writing fixture: %v", err)
	}
	return dir
}

func TestSeedLoadsFixtureAndAccounts(t *testing.T) {
	db := setupSeedDB(t)
	dir := writeSeedFixture(t)

	if err := Seed(db, dir); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var attractions []models.Attraction
	if err := db.Find(&attractions).Error; err != nil {
		t.Fatalf("failed loading attractions: %v", err)
	}
	if len(attractions) != 2 {
		t.Fatalf("expected 2 seeded attractions, got %d", len(attractions))
	}
	for _, attraction := range attractions {
		if attraction.Status != models.StatusApproved {
			t.Fatalf("expected seeded attraction approved, got %s", attraction.Status)
		}
		if attraction.UserID != nil {
			t.Fatalf("expected seeded attraction unowned, got %v", attraction.UserID)
		}
	}

	var admin models.User
	if err := db.First(&admin, "username = ?", "admin").Error; err != nil {
		t.Fatalf("expected default admin: %v", err)
	}
	if admin.Role != models.UserRoleAdmin || !admin.IsApproved {
		t.Fatalf("unexpected admin account: %+v", admin)
	}

	var contributor models.User
	if err := db.First(&contributor, "username = ?", "barangay").Error; err != nil {
		t.Fatalf("expected default contributor: %v", err)
	}
	if contributor.Barangay == nil || *contributor.Barangay != "Poblacion" || !contributor.IsApproved {
		t.Fatalf("unexpected contributor account: %+v", contributor)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupSeedDB(t)
	dir := writeSeedFixture(t)

	if err := Seed(db, dir); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := Seed(db, dir); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var attractionCount, userCount int64
	db.Model(&models.Attraction{}).Count(&attractionCount)
	db.Model(&models.User{}).Count(&userCount)

	if attractionCount != 2 {
		t.Fatalf("expected 2 attractions after reseed, got %d", attractionCount)
	}
	if userCount != 2 {
		t.Fatalf("expected 2 default accounts after reseed, got %d", userCount)
	}
}

func TestSeedToleratesMissingFixture(t *testing.T) {
	db := setupSeedDB(t)

	if err := Seed(db, t.TempDir()); err != nil {
		t.Fatalf("expected seed to skip a missing fixture, got %v", err)
	}

	var attractionCount int64
	db.Model(&models.Attraction{}).Count(&attractionCount)
	if attractionCount != 0 {
		t.Fatalf("expected no attractions, got %d", attractionCount)
	}

	var admin models.User
	if err := db.First(&admin, "username = ?", "admin").Error; err != nil {
		t.Fatalf("expected default admin even without fixture: %v", err)
	}
}
