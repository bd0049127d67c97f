package repository

import (
	"edumarket_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Preload("Completions").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Completions").
		Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) TouchLastAccessed(id uint) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("last_accessed", time.Now()).
		Error
}

// CompleteLesson inserts the completion row and updates the stored
// progress in one transaction, so no reader observes the set and the
// percentage out of step. Returns false when the lesson was already
// complete (no state change).
func (r *EnrollmentRepository) CompleteLesson(enrollmentID, lessonID uint, progress int) (bool, error) {
	changed := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.LessonCompletion{}).
			Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		completion := model.LessonCompletion{
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
			CompletedAt:  time.Now(),
		}
		if err := tx.Create(&completion).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Enrollment{}).
			Where("id = ?", enrollmentID).
			Updates(map[string]interface{}{
				"progress":      progress,
				"last_accessed": time.Now(),
			}).Error; err != nil {
			return err
		}

		changed = true
		return nil
	})
	return changed, err
}

func (r *EnrollmentRepository) CountCompletions(enrollmentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("enrollment_id = ?", enrollmentID).
		Count(&count).Error
	return count, err
}
