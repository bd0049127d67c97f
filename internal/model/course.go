package model

import (
	"time"
)

type CourseType string

const (
	CourseRecorded CourseType = "recorded"
	CourseLive     CourseType = "live"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "Beginner"
	LevelIntermediate CourseLevel = "Intermediate"
	LevelAdvanced     CourseLevel = "Advanced"
)

// Course is a catalog record. The catalog is read-only to everything but
// the admin surface; browsing queries run against an in-memory snapshot.
// swagger:model Course
type Course struct {
	BaseModel
	Slug             string      `gorm:"size:150;uniqueIndex;not null" json:"slug"`
	Title            string      `gorm:"size:255;not null" json:"title"`
	ShortDescription string      `gorm:"size:500" json:"shortDescription"`
	Description      string      `gorm:"type:text" json:"description"`
	Type             CourseType  `gorm:"type:enum('recorded','live');default:'recorded';index" json:"type"`
	CategoryID       uint        `gorm:"index" json:"categoryId"`
	Category         Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	InstructorID     uint        `gorm:"index" json:"instructorId"`
	Level            CourseLevel `gorm:"type:enum('Beginner','Intermediate','Advanced');default:'Beginner'" json:"level"`
	Price            float64     `gorm:"not null" json:"price"`
	OriginalPrice    *float64    `json:"originalPrice,omitempty"`
	Rating           float64     `gorm:"default:0" json:"rating"`
	ReviewCount      int         `gorm:"default:0" json:"reviewCount"`
	EnrolledCount    int         `gorm:"default:0" json:"enrolledCount"`
	LastUpdated      time.Time   `json:"lastUpdated"`
	CoverURL         string      `gorm:"size:500" json:"coverUrl"`
	Published        bool        `gorm:"default:false;index" json:"published"`

	Modules  []CourseModule `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
	Sessions []LiveSession  `gorm:"foreignKey:CourseID" json:"sessions,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// TotalLessons counts lessons across all modules. Zero for live courses.
func (c *Course) TotalLessons() int {
	total := 0
	for i := range c.Modules {
		total += len(c.Modules[i].Lessons)
	}
	return total
}

// HasLesson reports whether the lesson id belongs to this course's
// curriculum.
func (c *Course) HasLesson(lessonID uint) bool {
	for i := range c.Modules {
		for j := range c.Modules[i].Lessons {
			if c.Modules[i].Lessons[j].ID == lessonID {
				return true
			}
		}
	}
	return false
}
