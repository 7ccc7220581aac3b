package models

type Attraction struct {
	BaseModel
	Moderated
	Name        string  `json:"name" gorm:"type:varchar(100);not null"`
	Description string  `json:"description" gorm:"type:text;not null"`
	Category    string  `json:"category" gorm:"type:varchar(50);not null;index"`
	Barangay    *string `json:"barangay,omitempty" gorm:"type:varchar(100);index"`
	Lat         float64 `json:"lat" gorm:"not null"`
	Lng         float64 `json:"lng" gorm:"not null"`
	ImageURL    *string `json:"imageURL,omitempty" gorm:"type:text"`

	Owner *User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (Attraction) TableName() string {
	return "attractions"
}

func (*Attraction) ContentKind() string {
	return "attraction"
}
