package models

type UserRole string

const (
	UserRoleAdmin       UserRole = "admin"
	UserRoleContributor UserRole = "contributor"
)

type User struct {
	BaseModel
	Username     string   `json:"username" gorm:"type:varchar(80);uniqueIndex;not null"`
	Email        string   `json:"email" gorm:"type:varchar(120);uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"type:text;not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'contributor'"`
	Barangay     *string  `json:"barangay,omitempty" gorm:"type:varchar(100);index"`
	IsApproved   bool     `json:"isApproved" gorm:"not null;default:false"`

	Attractions  []Attraction  `json:"-" gorm:"foreignKey:UserID"`
	Events       []Event       `json:"-" gorm:"foreignKey:UserID"`
	GalleryItems []GalleryItem `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// ActiveContributor reports whether the user holds an approved barangay seat.
func (u *User) ActiveContributor() bool {
	return u.Role == UserRoleContributor && u.IsApproved
}
