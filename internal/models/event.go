package models

import "time"

// Event categories follow the municipal calendar: Religious, Civic,
// Entertainment.
type Event struct {
	BaseModel
	Moderated
	Title       string    `json:"title" gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	Location    string    `json:"location" gorm:"type:varchar(100);not null"`
	Barangay    *string   `json:"barangay,omitempty" gorm:"type:varchar(100);index"`
	Category    string    `json:"category" gorm:"type:varchar(50);not null;default:'Civic'"`
	ImageURL    *string   `json:"imageURL,omitempty" gorm:"type:text"`

	Owner *User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (Event) TableName() string {
	return "events"
}

func (*Event) ContentKind() string {
	return "event"
}
