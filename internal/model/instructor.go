package model

// Instructor is the public teaching profile attached to a user account.
// swagger:model Instructor
type Instructor struct {
	BaseModel
	UserID       uint    `gorm:"uniqueIndex;not null" json:"userId"`
	User         User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Headline     string  `gorm:"size:255" json:"headline"`
	Bio          string  `gorm:"type:text" json:"bio"`
	Rating       float64 `gorm:"default:0" json:"rating"`
	ReviewCount  int     `gorm:"default:0" json:"reviewCount"`
	StudentCount int     `gorm:"default:0" json:"studentCount"`
	CourseCount  int     `gorm:"default:0" json:"courseCount"`
}

func (Instructor) TableName() string {
	return "instructors"
}
