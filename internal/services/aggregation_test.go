package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/mangatarem/tourism-backend/internal/models"
	"gorm.io/gorm"
)

func seedAttraction(t *testing.T, db *gorm.DB, barangay, category string, lat, lng float64, image *string, status models.ModerationStatus, createdAt time.Time) {
	t.Helper()

	item := &models.Attraction{
		Name:        "seed-" + category,
		Description: "seeded",
		Category:    category,
		Barangay:    &barangay,
		Lat:         lat,
		Lng:         lng,
		ImageURL:    image,
	}
	item.SetStatus(status)
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed creating attraction: %v", err)
	}
	if err := db.Model(item).Update("created_at", createdAt).Error; err != nil {
		t.Fatalf("failed pinning created_at: %v", err)
	}
}

func strptr(s string) *string { return &s }

func TestSummaryAggregation(t *testing.T) {
	db := setupDB(t)
	svc := NewAggregationService(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Oldest approved attraction has no image; the representative image
	// must come from the second-oldest. The rejected and pending rows
	// must not contribute anything.
	seedAttraction(t, db, "Poblacion", "Nature", 10, 100, nil, models.StatusApproved, base)
	seedAttraction(t, db, "Poblacion", "Heritage", 20, 120, strptr("http://example.com/a.jpg"), models.StatusApproved, base.Add(time.Hour))
	seedAttraction(t, db, "Poblacion", "Nature", 30, 140, strptr("http://example.com/b.jpg"), models.StatusApproved, base.Add(2*time.Hour))
	seedAttraction(t, db, "Poblacion", "Food", 99, 99, strptr("http://example.com/x.jpg"), models.StatusPending, base.Add(3*time.Hour))
	seedAttraction(t, db, "Poblacion", "Food", 99, 99, nil, models.StatusRejected, base.Add(4*time.Hour))

	summary, err := svc.Summary(ctx, "Poblacion")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.AttractionCount != 3 {
		t.Fatalf("expected 3 approved attractions, got %d", summary.AttractionCount)
	}
	if math.Abs(summary.Lat-20) > 1e-9 || math.Abs(summary.Lng-120) > 1e-9 {
		t.Fatalf("expected centroid (20, 120), got (%f, %f)", summary.Lat, summary.Lng)
	}
	if summary.ImageURL == nil || *summary.ImageURL != "http://example.com/a.jpg" {
		t.Fatalf("expected first non-null image by creation order, got %v", summary.ImageURL)
	}
	if len(summary.Tags) != 2 || summary.Tags[0] != "Heritage" || summary.Tags[1] != "Nature" {
		t.Fatalf("expected deduplicated sorted tags [Heritage Nature], got %v", summary.Tags)
	}
}

func TestSummaryDefaultsWithoutContent(t *testing.T) {
	db := setupDB(t)
	svc := NewAggregationService(db)

	summary, err := svc.Summary(context.Background(), "Umangan")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}

	if summary.Lat != DefaultCenterLat || summary.Lng != DefaultCenterLng {
		t.Fatalf("expected municipal default center, got (%f, %f)", summary.Lat, summary.Lng)
	}
	if summary.ImageURL != nil {
		t.Fatalf("expected no image, got %v", summary.ImageURL)
	}
	if summary.AttractionCount != 0 || len(summary.Tags) != 0 {
		t.Fatalf("expected empty aggregates, got %+v", summary)
	}
}

func TestDirectoryEligibility(t *testing.T) {
	db := setupDB(t)
	svc := NewAggregationService(db)

	newContributor(t, db, "dir-b", "Bamban", true)
	newContributor(t, db, "dir-a", "Alac", true)
	newContributor(t, db, "dir-pending", "Umangan", false)
	newAdmin(t, db)

	summaries, err := svc.Directory(context.Background())
	if err != nil {
		t.Fatalf("directory failed: %v", err)
	}

	if len(summaries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(summaries))
	}
	if summaries[0].Name != "Alac" || summaries[1].Name != "Bamban" {
		t.Fatalf("expected name-sorted [Alac Bamban], got [%s %s]", summaries[0].Name, summaries[1].Name)
	}
}

func TestProfileGalleryJoin(t *testing.T) {
	db := setupDB(t)
	svc := NewAggregationService(db)
	ctx := context.Background()

	owner := newContributor(t, db, "join-rep", "Poblacion", true)
	outsider := newContributor(t, db, "join-outsider", "Bamban", true)

	create := func(user *models.User, url string, status models.ModerationStatus) {
		t.Helper()
		userID := user.ID
		item := &models.GalleryItem{Type: models.GalleryMediaPhoto, URL: url}
		item.UserID = &userID
		item.SetStatus(status)
		if err := db.Create(item).Error; err != nil {
			t.Fatalf("failed creating gallery item: %v", err)
		}
	}

	create(owner, "http://example.com/in-1.jpg", models.StatusApproved)
	create(owner, "http://example.com/in-pending.jpg", models.StatusPending)
	create(outsider, "http://example.com/out.jpg", models.StatusApproved)

	profile, err := svc.Profile(ctx, "Poblacion")
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}

	if len(profile.GalleryItems) != 1 {
		t.Fatalf("expected 1 joined gallery item, got %d", len(profile.GalleryItems))
	}
	if profile.GalleryItems[0].URL != "http://example.com/in-1.jpg" {
		t.Fatalf("unexpected joined item: %+v", profile.GalleryItems[0])
	}
	if profile.Info != nil {
		t.Fatalf("expected nil info when none stored, got %+v", profile.Info)
	}
}
