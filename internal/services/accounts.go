package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mangatarem/tourism-backend/internal/mailer"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"github.com/mangatarem/tourism-backend/pkg/utils"
	"gorm.io/gorm"
)

type AccountService struct {
	DB   *gorm.DB
	Mail mailer.Mailer
}

func NewAccountService(db *gorm.DB, mail mailer.Mailer) *AccountService {
	return &AccountService{DB: db, Mail: mail}
}

// Register creates an unapproved contributor bound to a barangay. The seat
// check only counts approved representatives: multiple pending registrations
// for the same barangay may coexist, but only one can ever be approved.
func (s *AccountService) Register(ctx context.Context, username, email, password, barangay string) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var existing models.User
	if err := db.First(&existing, "username = ?", username).Error; err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := db.First(&existing, "email = ?", email).Error; err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	taken, err := s.seatTaken(ctx, barangay, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrBarangaySeatTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.UserRoleContributor,
		Barangay:     &barangay,
		IsApproved:   false,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	logger.Info("contributor_registered", map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"barangay": barangay,
	})
	return &user, nil
}

// Authenticate validates credentials. A valid but unapproved contributor is
// refused a session with ErrPendingApproval.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if user.Role == models.UserRoleContributor && !user.IsApproved {
		return nil, ErrPendingApproval
	}

	return &user, nil
}

// ApproveContributor grants the barangay seat. The exclusivity check is
// re-run here: two pending registrations for one barangay must not both end
// up approved.
func (s *AccountService) ApproveContributor(ctx context.Context, actor *models.User, id uuid.UUID) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if user.Barangay != nil {
		taken, err := s.seatTaken(ctx, *user.Barangay, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrBarangaySeatTaken
		}
	}

	if err := s.DB.WithContext(ctx).Model(&user).Update("is_approved", true).Error; err != nil {
		return nil, err
	}
	user.IsApproved = true

	if err := s.Mail.SendAccountApproved(ctx, user.Email, user.Username); err != nil {
		logger.Error("approval_mail_failed", err, map[string]interface{}{
			"user_id": user.ID.String(),
			"email":   user.Email,
		})
	}

	logger.InfoWithUser(actor.ID.String(), "contributor_approved", map[string]interface{}{
		"user_id":  user.ID.String(),
		"username": user.Username,
	})
	return &user, nil
}

// RejectContributor removes the account. Content rows the user submitted
// keep their user_id reference; deletion never cascades.
func (s *AccountService) RejectContributor(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	result := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	logger.InfoWithUser(actor.ID.String(), "contributor_rejected", map[string]interface{}{
		"user_id": id.String(),
	})
	return nil
}

func (s *AccountService) PendingContributors(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Where("role = ? AND is_approved = ?", models.UserRoleContributor, false).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (s *AccountService) seatTaken(ctx context.Context, barangay string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := s.DB.WithContext(ctx).Model(&models.User{}).
		Where("barangay = ? AND role = ? AND is_approved = ?", barangay, models.UserRoleContributor, true)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
