package services

import (
	"context"
	"errors"
	"sort"

	"github.com/mangatarem/tourism-backend/internal/models"
	"gorm.io/gorm"
)

// Fallback map center for barangays without any approved attraction. This is
// the municipal center, used as a sentinel rather than computed data.
const (
	DefaultCenterLat = 15.9949
	DefaultCenterLng = 120.4869
)

// BarangaySummary is the derived directory entry for one barangay. It is
// recomputed from approved content on every request, never cached.
type BarangaySummary struct {
	Name            string   `json:"name"`
	ImageURL        *string  `json:"imageURL,omitempty"`
	Lat             float64  `json:"lat"`
	Lng             float64  `json:"lng"`
	Tags            []string `json:"tags"`
	AttractionCount int      `json:"attractionCount"`
}

// BarangayProfile is the full public profile page payload.
type BarangayProfile struct {
	Name         string               `json:"name"`
	Attractions  []models.Attraction  `json:"attractions"`
	Events       []models.Event       `json:"events"`
	GalleryItems []models.GalleryItem `json:"galleryItems"`
	Info         *models.BarangayInfo `json:"info,omitempty"`
	CenterLat    float64              `json:"centerLat"`
	CenterLng    float64              `json:"centerLng"`
}

type AggregationService struct {
	DB *gorm.DB
}

func NewAggregationService(db *gorm.DB) *AggregationService {
	return &AggregationService{DB: db}
}

// Directory lists every barangay holding an approved contributor seat,
// sorted by name. Eligibility does not depend on approved content: a seat
// with zero attractions still appears, with empty aggregates.
func (s *AggregationService) Directory(ctx context.Context) ([]BarangaySummary, error) {
	var names []string
	err := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_approved = ? AND barangay IS NOT NULL", models.UserRoleContributor, true).
		Distinct().
		Order("barangay ASC").
		Pluck("barangay", &names).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]BarangaySummary, 0, len(names))
	for _, name := range names {
		summary, err := s.Summary(ctx, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Summary computes the per-barangay rollup: centroid of approved attraction
// coordinates, deduplicated category tags and a representative image.
// Attractions are read in creation order so the image pick is deterministic.
func (s *AggregationService) Summary(ctx context.Context, name string) (BarangaySummary, error) {
	attractions, err := s.approvedAttractions(ctx, name)
	if err != nil {
		return BarangaySummary{}, err
	}

	summary := BarangaySummary{
		Name:            name,
		Lat:             DefaultCenterLat,
		Lng:             DefaultCenterLng,
		Tags:            []string{},
		AttractionCount: len(attractions),
	}

	if len(attractions) > 0 {
		var latSum, lngSum float64
		for _, a := range attractions {
			latSum += a.Lat
			lngSum += a.Lng
		}
		summary.Lat = latSum / float64(len(attractions))
		summary.Lng = lngSum / float64(len(attractions))
	}

	seen := map[string]struct{}{}
	for _, a := range attractions {
		if _, ok := seen[a.Category]; ok {
			continue
		}
		seen[a.Category] = struct{}{}
		summary.Tags = append(summary.Tags, a.Category)
	}
	sort.Strings(summary.Tags)

	for i := range attractions {
		if attractions[i].ImageURL != nil && *attractions[i].ImageURL != "" {
			summary.ImageURL = attractions[i].ImageURL
			break
		}
	}

	return summary, nil
}

// Profile assembles every approved content kind for one barangay. Gallery
// items have no barangay column, so they are joined through the owning user.
func (s *AggregationService) Profile(ctx context.Context, name string) (BarangayProfile, error) {
	attractions, err := s.approvedAttractions(ctx, name)
	if err != nil {
		return BarangayProfile{}, err
	}

	var events []models.Event
	if err := s.DB.WithContext(ctx).
		Where("barangay = ? AND status = ?", name, models.StatusApproved).
		Order("date ASC").
		Find(&events).Error; err != nil {
		return BarangayProfile{}, err
	}

	var gallery []models.GalleryItem
	if err := s.DB.WithContext(ctx).Model(&models.GalleryItem{}).
		Joins("JOIN users ON users.id = gallery_items.user_id").
		Where("users.barangay = ? AND gallery_items.status = ?", name, models.StatusApproved).
		Order("gallery_items.created_at DESC").
		Find(&gallery).Error; err != nil {
		return BarangayProfile{}, err
	}

	var info *models.BarangayInfo
	var stored models.BarangayInfo
	err = s.DB.WithContext(ctx).First(&stored, "barangay_name = ?", name).Error
	switch {
	case err == nil:
		info = &stored
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return BarangayProfile{}, err
	}

	profile := BarangayProfile{
		Name:         name,
		Attractions:  attractions,
		Events:       events,
		GalleryItems: gallery,
		Info:         info,
		CenterLat:    DefaultCenterLat,
		CenterLng:    DefaultCenterLng,
	}

	if len(attractions) > 0 {
		var latSum, lngSum float64
		for _, a := range attractions {
			latSum += a.Lat
			lngSum += a.Lng
		}
		profile.CenterLat = latSum / float64(len(attractions))
		profile.CenterLng = lngSum / float64(len(attractions))
	}

	return profile, nil
}

// AttractionBarangays lists the distinct barangay names carried by approved
// attractions, for the public map filter.
func (s *AggregationService) AttractionBarangays(ctx context.Context) ([]string, error) {
	var names []string
	err := s.DB.WithContext(ctx).Model(&models.Attraction{}).
		Where("status = ? AND barangay IS NOT NULL", models.StatusApproved).
		Distinct().
		Order("barangay ASC").
		Pluck("barangay", &names).Error
	return names, err
}

// GalleryBarangays lists the distinct owner barangays of approved gallery
// items, for the public gallery filter.
func (s *AggregationService) GalleryBarangays(ctx context.Context) ([]string, error) {
	var names []string
	err := s.DB.WithContext(ctx).Model(&models.GalleryItem{}).
		Joins("JOIN users ON users.id = gallery_items.user_id").
		Where("gallery_items.status = ? AND users.barangay IS NOT NULL", models.StatusApproved).
		Distinct().
		Order("users.barangay ASC").
		Pluck("users.barangay", &names).Error
	return names, err
}

func (s *AggregationService) approvedAttractions(ctx context.Context, name string) ([]models.Attraction, error) {
	var attractions []models.Attraction
	err := s.DB.WithContext(ctx).
		Where("barangay = ? AND status = ?", name, models.StatusApproved).
		Order("created_at ASC").
		Find(&attractions).Error
	return attractions, err
}
