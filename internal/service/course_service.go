package service

import (
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/repository"
	"edumarket_backend/internal/util"
	"edumarket_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService is the admin/instructor surface of the catalog: course
// CRUD, curriculum editing, and live-session scheduling. Every write that
// changes a published course also refreshes the catalog snapshot so the
// browsing surface stays in step.
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	CategoryRepo   *repository.CategoryRepository
	InstructorRepo *repository.InstructorRepository
	Catalog        *CatalogService
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	categoryRepo *repository.CategoryRepository,
	instructorRepo *repository.InstructorRepository,
	catalog *CatalogService,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		CategoryRepo:   categoryRepo,
		InstructorRepo: instructorRepo,
		Catalog:        catalog,
	}
}

func (s *CourseService) Create(course *model.Course) error {
	if _, err := s.CategoryRepo.FindByID(course.CategoryID); err != nil {
		return util.ErrCategoryNotFound
	}
	if _, err := s.InstructorRepo.FindByID(course.InstructorID); err != nil {
		return util.ErrInstructorNotFound
	}

	course.LastUpdated = time.Now()
	if err := s.CourseRepo.Create(course); err != nil {
		return err
	}
	if err := s.InstructorRepo.IncrementCourseCount(course.InstructorID); err != nil {
		logger.Log.Warn("Failed to bump instructor course count", zap.Error(err))
	}
	return s.refreshIfPublished(course)
}

func (s *CourseService) Get(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(course *model.Course) error {
	course.LastUpdated = time.Now()
	if err := s.CourseRepo.Update(course); err != nil {
		return err
	}
	return s.Catalog.Refresh()
}

func (s *CourseService) Publish(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Published = true
	course.LastUpdated = time.Now()
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, s.Catalog.Refresh()
}

func (s *CourseService) AddModule(courseID uint, title string, sortOrder int) (*model.CourseModule, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		return nil, util.ErrCourseNotFound
	}

	mod := &model.CourseModule{
		CourseID:  courseID,
		Title:     title,
		SortOrder: sortOrder,
	}
	if err := s.CourseRepo.CreateModule(mod); err != nil {
		return nil, err
	}
	return mod, s.Catalog.Refresh()
}

func (s *CourseService) AddLesson(moduleID uint, lesson *model.Lesson) (*model.Lesson, error) {
	mod, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return nil, util.ErrModuleNotFound
	}

	lesson.ModuleID = mod.ID
	lesson.CourseID = mod.CourseID
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, s.Catalog.Refresh()
}

// ReorderLessons rewrites a module's lesson ordering to the given id
// sequence. The sequence must cover exactly the module's lessons.
func (s *CourseService) ReorderLessons(moduleID uint, orderedIDs []uint) error {
	mod, err := s.CourseRepo.FindModuleByID(moduleID)
	if err != nil {
		return util.ErrModuleNotFound
	}
	if len(orderedIDs) != len(mod.Lessons) {
		return util.ErrLessonNotFound
	}

	if err := s.CourseRepo.ReorderLessons(moduleID, orderedIDs); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.Catalog.Refresh()
}

func (s *CourseService) ScheduleSession(courseID uint, session *model.LiveSession) (*model.LiveSession, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if course.Type != model.CourseLive {
		return nil, util.ErrCourseNotFound
	}

	session.CourseID = courseID
	session.Status = model.SessionUpcoming
	if err := s.CourseRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, s.Catalog.Refresh()
}

// TransitionSession moves a live session's status forward. Only the
// monotonic path upcoming -> live -> completed is allowed.
func (s *CourseService) TransitionSession(sessionID uint, next model.SessionStatus) (*model.LiveSession, error) {
	session, err := s.CourseRepo.FindSessionByID(sessionID)
	if err != nil {
		return nil, util.ErrSessionNotFound
	}

	if !session.Status.CanTransitionTo(next) {
		return nil, util.ErrInvalidSessionTransition
	}

	session.Status = next
	if err := s.CourseRepo.UpdateSession(session); err != nil {
		return nil, err
	}

	logger.Log.Info("Live session transitioned",
		zap.Uint("sessionId", sessionID),
		zap.String("status", string(next)))
	return session, s.Catalog.Refresh()
}

func (s *CourseService) refreshIfPublished(course *model.Course) error {
	if course.Published {
		return s.Catalog.Refresh()
	}
	return nil
}
