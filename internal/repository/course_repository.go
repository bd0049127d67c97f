package repository

import (
	"edumarket_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// preloadCurriculum loads the full module/lesson tree and session schedule
// in curriculum order.
func (r *CourseRepository) preloadCurriculum(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Sessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		})
}

// FindAllPublished returns every published course with its curriculum,
// ordered by id. This is the catalog snapshot source.
func (r *CourseRepository) FindAllPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.preloadCurriculum(r.DB).
		Where("published = ?", true).
		Order("id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.preloadCurriculum(r.DB).First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.preloadCurriculum(r.DB).
		Where("slug = ?", slug).
		First(&course).Error
	return &course, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) IncrementEnrolledCount(id uint) error {
	return r.DB.Model(&model.Course{}).
		Where("id = ?", id).
		Update("enrolled_count", gorm.Expr("enrolled_count + 1")).
		Error
}

func (r *CourseRepository) CreateModule(mod *model.CourseModule) error {
	return r.DB.Create(mod).Error
}

func (r *CourseRepository) FindModuleByID(id uint) (*model.CourseModule, error) {
	var mod model.CourseModule
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&mod, id).Error
	return &mod, err
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *CourseRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// ReorderLessons rewrites the SortOrder of every lesson in a module to
// match the given id sequence, atomically.
func (r *CourseRepository) ReorderLessons(moduleID uint, orderedIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		for pos, lessonID := range orderedIDs {
			res := tx.Model(&model.Lesson{}).
				Where("id = ? AND module_id = ?", lessonID, moduleID).
				Update("sort_order", pos)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *CourseRepository) CreateSession(session *model.LiveSession) error {
	return r.DB.Create(session).Error
}

func (r *CourseRepository) FindSessionByID(id uint) (*model.LiveSession, error) {
	var session model.LiveSession
	err := r.DB.First(&session, id).Error
	return &session, err
}

func (r *CourseRepository) UpdateSession(session *model.LiveSession) error {
	return r.DB.Save(session).Error
}
