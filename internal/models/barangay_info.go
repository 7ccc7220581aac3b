package models

import "github.com/google/uuid"

// BarangayInfo is the free-text cultural profile a barangay representative
// maintains for their own barangay. It carries no moderation status; once
// present it is always publicly visible.
type BarangayInfo struct {
	BaseModel
	BarangayName   string     `json:"barangayName" gorm:"type:varchar(100);uniqueIndex;not null"`
	History        *string    `json:"history,omitempty" gorm:"type:text"`
	CulturalAssets *string    `json:"culturalAssets,omitempty" gorm:"type:text"`
	Traditions     *string    `json:"traditions,omitempty" gorm:"type:text"`
	LocalPractices *string    `json:"localPractices,omitempty" gorm:"type:text"`
	UniqueFeatures *string    `json:"uniqueFeatures,omitempty" gorm:"type:text"`
	UserID         *uuid.UUID `json:"userID,omitempty" gorm:"type:uuid;index"`
}

func (BarangayInfo) TableName() string {
	return "barangay_infos"
}
