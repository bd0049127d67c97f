package repository

import (
	"edumarket_backend/internal/model"

	"gorm.io/gorm"
)

type InstructorRepository struct {
	DB *gorm.DB
}

func NewInstructorRepository(db *gorm.DB) *InstructorRepository {
	return &InstructorRepository{DB: db}
}

func (r *InstructorRepository) FindByID(id uint) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.DB.Preload("User").First(&instructor, id).Error
	return &instructor, err
}

func (r *InstructorRepository) FindByUserID(userID uint) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.DB.Preload("User").
		Where("user_id = ?", userID).
		First(&instructor).Error
	return &instructor, err
}

func (r *InstructorRepository) Create(instructor *model.Instructor) error {
	return r.DB.Create(instructor).Error
}

func (r *InstructorRepository) IncrementCourseCount(id uint) error {
	return r.DB.Model(&model.Instructor{}).
		Where("id = ?", id).
		Update("course_count", gorm.Expr("course_count + 1")).
		Error
}

func (r *InstructorRepository) IncrementStudentCount(id uint) error {
	return r.DB.Model(&model.Instructor{}).
		Where("id = ?", id).
		Update("student_count", gorm.Expr("student_count + 1")).
		Error
}
