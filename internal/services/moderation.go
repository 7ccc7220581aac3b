package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/mangatarem/tourism-backend/internal/models"
	"github.com/mangatarem/tourism-backend/pkg/logger"
	"gorm.io/gorm"
)

// Content is the moderatable capability shared by attractions, events and
// gallery items. The concrete models satisfy it through their embedded
// Moderated and BaseModel structs.
type Content interface {
	ContentKind() string
	ItemID() uuid.UUID
	CurrentStatus() models.ModerationStatus
	SetStatus(models.ModerationStatus)
	SetRejectionReason(*string)
	OwnerID() *uuid.UUID
	OwnedBy(uuid.UUID) bool
}

type ModerationService struct {
	DB *gorm.DB
}

func NewModerationService(db *gorm.DB) *ModerationService {
	return &ModerationService{DB: db}
}

// InitialStatus implements the submission rule: admin insertions go live
// immediately, contributor submissions wait in the review queue.
func InitialStatus(actor *models.User) models.ModerationStatus {
	if actor.IsAdmin() {
		return models.StatusApproved
	}
	return models.StatusPending
}

// SubmitterID returns the owner to bind on creation. Admins do not own the
// content they insert directly.
func SubmitterID(actor *models.User) *uuid.UUID {
	if actor.IsAdmin() {
		return nil
	}
	id := actor.ID
	return &id
}

// CanSubmit gates the submission flows: admins always, contributors only
// while they hold an approved seat.
func (s *ModerationService) CanSubmit(actor *models.User) bool {
	return actor.IsAdmin() || actor.ActiveContributor()
}

// CanModify is the shared update/delete rule: admin, or owning contributor.
func (s *ModerationService) CanModify(actor *models.User, item Content) bool {
	return actor.IsAdmin() || item.OwnedBy(actor.ID)
}

// Approve flips a pending item to approved. Admin only; the status flip and
// its log row commit together.
func (s *ModerationService) Approve(ctx context.Context, actor *models.User, item Content) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	item.SetStatus(models.StatusApproved)
	item.SetRejectionReason(nil)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return tx.Create(&models.ModerationLog{
			ActorID:     actor.ID,
			Action:      "content.approve",
			ContentKind: item.ContentKind(),
			ContentID:   item.ItemID(),
		}).Error
	})
	if err != nil {
		return err
	}

	logger.InfoWithUser(actor.ID.String(), "content_approved", map[string]interface{}{
		"kind":    item.ContentKind(),
		"item_id": item.ItemID().String(),
	})
	return nil
}

// Reject marks an item rejected and retains the row with the reviewer's
// reason, keeping an auditable trail instead of deleting the submission.
func (s *ModerationService) Reject(ctx context.Context, actor *models.User, item Content, reason *string) error {
	if !actor.IsAdmin() {
		return ErrPermissionDenied
	}

	item.SetStatus(models.StatusRejected)
	item.SetRejectionReason(reason)

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(item).Error; err != nil {
			return err
		}
		return tx.Create(&models.ModerationLog{
			ActorID:     actor.ID,
			Action:      "content.reject",
			ContentKind: item.ContentKind(),
			ContentID:   item.ItemID(),
			Reason:      reason,
		}).Error
	})
	if err != nil {
		return err
	}

	logger.InfoWithUser(actor.ID.String(), "content_rejected", map[string]interface{}{
		"kind":    item.ContentKind(),
		"item_id": item.ItemID().String(),
	})
	return nil
}

// Delete removes an item outright. Allowed for admins and for the owning
// contributor; deleting a user never cascades here.
func (s *ModerationService) Delete(ctx context.Context, actor *models.User, item Content) error {
	if !s.CanModify(actor, item) {
		return ErrPermissionDenied
	}
	return s.DB.WithContext(ctx).Delete(item).Error
}

// FinalizeEdit applies the re-review rule after an item's fields changed:
// any edit by a non-admin owner sends the item back to pending. Admin edits
// leave the status untouched.
func (s *ModerationService) FinalizeEdit(actor *models.User, item Content) {
	if actor.IsAdmin() {
		return
	}
	item.SetStatus(models.StatusPending)
	item.SetRejectionReason(nil)
}
