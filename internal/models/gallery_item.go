package models

type GalleryMediaType string

const (
	GalleryMediaPhoto GalleryMediaType = "photo"
	GalleryMediaVideo GalleryMediaType = "video"
)

// GalleryItem has no barangay column of its own; its barangay is derived
// through the owning user. Aggregation queries rely on that join.
type GalleryItem struct {
	BaseModel
	Moderated
	Type    GalleryMediaType `json:"type" gorm:"type:varchar(20);not null"`
	URL     string           `json:"url" gorm:"type:text;not null"`
	Caption *string          `json:"caption,omitempty" gorm:"type:varchar(200)"`

	Owner *User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (GalleryItem) TableName() string {
	return "gallery_items"
}

func (*GalleryItem) ContentKind() string {
	return "gallery_item"
}
