package model

import (
	"time"
)

// Enrollment links a user to a course they joined. Progress is derived
// from the completion set and stored so listings never recompute it in SQL;
// ProgressService keeps the two consistent inside one transaction.
// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID       uint               `gorm:"index:idx_user_course,unique;not null" json:"userId"`
	CourseID     uint               `gorm:"index:idx_user_course,unique;not null" json:"courseId"`
	Progress     int                `gorm:"default:0" json:"progress"`
	LastAccessed time.Time          `json:"lastAccessed"`
	Completions  []LessonCompletion `gorm:"foreignKey:EnrollmentID" json:"completions,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// CompletedSet returns the completed lesson ids as a set.
func (e *Enrollment) CompletedSet() map[uint]bool {
	set := make(map[uint]bool, len(e.Completions))
	for i := range e.Completions {
		set[e.Completions[i].LessonID] = true
	}
	return set
}

// LessonCompletion is one element of an enrollment's completed-lesson set.
// The unique index makes repeated completion events idempotent at the
// storage layer.
// swagger:model LessonCompletion
type LessonCompletion struct {
	BaseModel
	EnrollmentID uint      `gorm:"index:idx_enrollment_lesson,unique;not null" json:"enrollmentId"`
	LessonID     uint      `gorm:"index:idx_enrollment_lesson,unique;not null" json:"lessonId"`
	CompletedAt  time.Time `json:"completedAt"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}
