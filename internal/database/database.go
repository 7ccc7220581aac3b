package database

import (
	"fmt"

	"github.com/mangatarem/tourism-backend/internal/config"
	"github.com/mangatarem/tourism-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg config.DBConfig, seedDataDir string) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := Seed(db, seedDataDir); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Attraction{},
		&models.Event{},
		&models.GalleryItem{},
		&models.BarangayInfo{},
		&models.ModerationLog{},
	); err != nil {
		return err
	}

	// One approved representative per barangay, enforced at the database
	// level so concurrent approvals cannot both win the seat.
	index := `
CREATE UNIQUE INDEX IF NOT EXISTS users_barangay_seat_idx
ON users (barangay)
WHERE role = 'contributor' AND is_approved`

	return db.Exec(index).Error
}
