package model

type LessonType string

const (
	LessonVideo      LessonType = "video"
	LessonQuiz       LessonType = "quiz"
	LessonAssignment LessonType = "assignment"
	LessonReading    LessonType = "reading"
)

// CourseModule groups lessons inside a recorded course. SortOrder carries
// the curriculum position; row order is never load-bearing.
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	CourseID  uint     `gorm:"index;not null" json:"courseId"`
	Title     string   `gorm:"size:255;not null" json:"title"`
	SortOrder int      `gorm:"not null;index:idx_module_order" json:"sortOrder"`
	Lessons   []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID uint `gorm:"index;not null" json:"moduleId"`
	// CourseID is denormalized so completion events can be validated
	// without walking the module tree in SQL.
	CourseID     uint       `gorm:"index;not null" json:"courseId"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Type         LessonType `gorm:"type:enum('video','quiz','assignment','reading');default:'video'" json:"type"`
	Duration     int        `gorm:"default:0" json:"duration"` // seconds
	SortOrder    int        `gorm:"not null;index:idx_lesson_order" json:"sortOrder"`
	IsPreview    bool       `gorm:"default:false" json:"isPreview"`
	VideoURL     string     `gorm:"size:500" json:"videoUrl,omitempty"`
	ThumbnailURL string     `gorm:"size:500" json:"thumbnailUrl,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
