package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationLog is an append-only record of every approve/reject decision.
// It does NOT use BaseModel because log rows are never updated.
type ModerationLog struct {
	ID          uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey"`
	ActorID     uuid.UUID              `json:"actorID" gorm:"type:uuid;not null;index"`
	Action      string                 `json:"action" gorm:"type:varchar(50);not null;index"`
	ContentKind string                 `json:"contentKind" gorm:"type:varchar(30);not null;index"`
	ContentID   uuid.UUID              `json:"contentID" gorm:"type:uuid;not null;index"`
	Reason      *string                `json:"reason,omitempty" gorm:"type:text"`
	Details     map[string]interface{} `json:"details,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time              `json:"createdAt" gorm:"not null;index"`
}

func (l *ModerationLog) BeforeCreate(_ *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (ModerationLog) TableName() string {
	return "moderation_logs"
}
