package models

import "github.com/google/uuid"

type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

// Moderated is embedded by every user-submitted content kind. A nil UserID
// denotes system-seeded content.
type Moderated struct {
	Status          ModerationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectionReason *string          `json:"rejectionReason,omitempty" gorm:"type:text"`
	UserID          *uuid.UUID       `json:"userID,omitempty" gorm:"type:uuid;index"`
}

func (m *Moderated) CurrentStatus() ModerationStatus {
	return m.Status
}

func (m *Moderated) SetStatus(status ModerationStatus) {
	m.Status = status
}

func (m *Moderated) SetRejectionReason(reason *string) {
	m.RejectionReason = reason
}

func (m *Moderated) OwnerID() *uuid.UUID {
	return m.UserID
}

func (m *Moderated) OwnedBy(id uuid.UUID) bool {
	return m.UserID != nil && *m.UserID == id
}
