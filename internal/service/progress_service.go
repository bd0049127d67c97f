package service

import (
	"context"
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/util"
	"edumarket_backend/pkg/logger"
	"edumarket_backend/pkg/monitoring"
	"math"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// idempotencyKeyTTL bounds how long a completion event's idempotency key
// is remembered. Replays inside the window are acknowledged without
// re-applying.
const idempotencyKeyTTL = 24 * time.Hour

// CourseFinder resolves courses by id. CourseRepository implements it.
type CourseFinder interface {
	FindByID(id uint) (*model.Course, error)
}

// EnrollmentStore is the slice of the enrollment repository the tracker
// writes through.
type EnrollmentStore interface {
	FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error)
	CompleteLesson(enrollmentID, lessonID uint, progress int) (bool, error)
}

// CertificateStore issues and looks up certificates.
type CertificateStore interface {
	FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error)
	Create(cert *model.Certificate) error
}

// IdempotencyStore reserves completion-event keys. redis.Client
// implements it.
type IdempotencyStore interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// ProgressService is the single writer of enrollment state. It inserts
// completion records, keeps the stored progress percentage consistent
// with the completion set, and issues a certificate when a recorded
// course reaches 100%.
type ProgressService struct {
	EnrollmentRepo  EnrollmentStore
	CourseRepo      CourseFinder
	CertificateRepo CertificateStore
	Redis           IdempotencyStore
}

func NewProgressService(
	enrollmentRepo EnrollmentStore,
	courseRepo CourseFinder,
	certificateRepo CertificateStore,
	rdb IdempotencyStore,
) *ProgressService {
	return &ProgressService{
		EnrollmentRepo:  enrollmentRepo,
		CourseRepo:      courseRepo,
		CertificateRepo: certificateRepo,
		Redis:           rdb,
	}
}

// ComputeProgress is the one progress formula, shared by the incremental
// update path and initial load so the two can never drift.
func ComputeProgress(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// completedInCourse counts the completions that belong to the course's
// current curriculum. Both progress paths count through this filter so a
// stale completion row can never inflate the percentage.
func completedInCourse(enrollment *model.Enrollment, course *model.Course) int {
	completed := 0
	for lessonID := range enrollment.CompletedSet() {
		if course.HasLesson(lessonID) {
			completed++
		}
	}
	return completed
}

// ComputeInitialProgress derives the percentage for an enrollment at load
// time from its completion set and the course's lesson manifest.
func ComputeInitialProgress(enrollment *model.Enrollment, course *model.Course) int {
	if course.Type != model.CourseRecorded {
		return 0
	}
	return ComputeProgress(completedInCourse(enrollment, course), course.TotalLessons())
}

// MarkLessonComplete records a completion event for (user, course,
// lesson). It is idempotent: a lesson already in the completion set, or a
// replayed idempotency key, leaves the enrollment unchanged. A lesson id
// outside the course's curriculum is rejected with ErrLessonNotInCourse
// and never recorded.
func (s *ProgressService) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID uint, idempotencyKey string) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Type != model.CourseRecorded {
		return nil, util.ErrProgressNotTracked
	}
	if !course.HasLesson(lessonID) {
		monitoring.CompletionEventCounter.WithLabelValues("rejected").Inc()
		return nil, util.ErrLessonNotInCourse
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	if idempotencyKey != "" && !s.claimIdempotencyKey(ctx, idempotencyKey) {
		monitoring.CompletionEventCounter.WithLabelValues("replayed").Inc()
		return enrollment, nil
	}

	if enrollment.CompletedSet()[lessonID] {
		monitoring.CompletionEventCounter.WithLabelValues("duplicate").Inc()
		return enrollment, nil
	}

	progress := ComputeProgress(completedInCourse(enrollment, course)+1, course.TotalLessons())
	changed, err := s.EnrollmentRepo.CompleteLesson(enrollment.ID, lessonID, progress)
	if err != nil {
		return nil, err
	}
	monitoring.CompletionEventCounter.WithLabelValues("applied").Inc()

	if changed {
		enrollment.Completions = append(enrollment.Completions, model.LessonCompletion{
			EnrollmentID: enrollment.ID,
			LessonID:     lessonID,
			CompletedAt:  time.Now(),
		})
		enrollment.Progress = progress
		enrollment.LastAccessed = time.Now()

		if progress >= 100 {
			s.issueCertificate(userID, courseID)
		}
	}

	return enrollment, nil
}

// claimIdempotencyKey reserves the key in Redis. When Redis is
// unavailable the claim is skipped; the unique completion row still keeps
// the operation idempotent.
func (s *ProgressService) claimIdempotencyKey(ctx context.Context, key string) bool {
	if s.Redis == nil {
		return true
	}
	ok, err := s.Redis.SetNX(ctx, "completion:idem:"+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		logger.Log.Warn("Idempotency key check failed, falling back to DB uniqueness", zap.Error(err))
		return true
	}
	return ok
}

func (s *ProgressService) issueCertificate(userID, courseID uint) {
	if _, err := s.CertificateRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return
	} else if err != gorm.ErrRecordNotFound {
		logger.Log.Error("Certificate lookup failed", zap.Error(err))
		return
	}

	cert := &model.Certificate{
		UserID:       userID,
		CourseID:     courseID,
		SerialNumber: model.GenerateUUID(),
		IssuedAt:     time.Now(),
	}
	if err := s.CertificateRepo.Create(cert); err != nil {
		logger.Log.Error("Certificate issuance failed",
			zap.Uint("userId", userID),
			zap.Uint("courseId", courseID),
			zap.Error(err))
		return
	}
	logger.Log.Info("Certificate issued",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("serial", cert.SerialNumber))
}

// GetProgress returns the progress view for an enrolled course,
// recomputed from the completion set (not the stored column) so load-time
// reads use the same formula as updates.
func (s *ProgressService) GetProgress(userID, courseID uint) (*model.CourseProgress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	completedIDs := make([]uint, 0, len(enrollment.Completions))
	for i := range enrollment.Completions {
		completedIDs = append(completedIDs, enrollment.Completions[i].LessonID)
	}

	progress := &model.CourseProgress{
		CourseID:         courseID,
		Progress:         ComputeInitialProgress(enrollment, course),
		CompletedLessons: completedIDs,
		TotalLessons:     course.TotalLessons(),
	}

	if progress.Progress >= 100 {
		if cert, err := s.CertificateRepo.FindByUserAndCourse(userID, courseID); err == nil {
			progress.CertificateID = &cert.ID
		}
	}

	return progress, nil
}
