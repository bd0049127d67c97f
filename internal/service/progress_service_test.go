package service

import (
	"context"
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/util"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestComputeProgressRounding(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"none", 0, 10, 0},
		{"all", 10, 10, 100},
		{"half of one", 1, 2, 50},
		{"one third rounds down", 1, 3, 33},
		{"two thirds rounds up", 2, 3, 67},
		{"one sixth rounds half up", 1, 6, 17},
		{"one of seven", 1, 7, 14},
		{"empty course", 0, 0, 0},
		{"negative total", 3, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.completed, tt.total))
		})
	}
}

func TestComputeProgressBounded(t *testing.T) {
	for completed := 0; completed <= 12; completed++ {
		got := ComputeProgress(completed, 12)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
	}
}

func TestComputeInitialProgressCountsOnlyCurriculumLessons(t *testing.T) {
	course := curriculumFixture()

	enrollment := &model.Enrollment{
		Completions: []model.LessonCompletion{
			{LessonID: 101},
			{LessonID: 103},
			// A completion for a lesson no longer in the curriculum must
			// not inflate the percentage.
			{LessonID: 999},
		},
	}

	assert.Equal(t, 50, ComputeInitialProgress(enrollment, course))
}

func TestComputeInitialProgressEmptySet(t *testing.T) {
	assert.Equal(t, 0, ComputeInitialProgress(&model.Enrollment{}, curriculumFixture()))
}

func TestComputeInitialProgressFullSet(t *testing.T) {
	course := curriculumFixture()
	enrollment := &model.Enrollment{
		Completions: []model.LessonCompletion{
			{LessonID: 101}, {LessonID: 102}, {LessonID: 103}, {LessonID: 104},
		},
	}
	assert.Equal(t, 100, ComputeInitialProgress(enrollment, course))
}

func TestComputeInitialProgressLiveCourseIsZero(t *testing.T) {
	course := curriculumFixture()
	course.Type = model.CourseLive

	enrollment := &model.Enrollment{
		Completions: []model.LessonCompletion{{LessonID: 101}},
	}
	assert.Equal(t, 0, ComputeInitialProgress(enrollment, course))
}

type fakeCourseFinder struct {
	courses map[uint]*model.Course
}

func (f *fakeCourseFinder) FindByID(id uint) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

type completeCall struct {
	enrollmentID, lessonID uint
	progress               int
}

type fakeEnrollmentStore struct {
	enrollment    *model.Enrollment
	completeCalls []completeCall
}

func (f *fakeEnrollmentStore) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	if f.enrollment == nil || f.enrollment.UserID != userID || f.enrollment.CourseID != courseID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.enrollment, nil
}

func (f *fakeEnrollmentStore) CompleteLesson(enrollmentID, lessonID uint, progress int) (bool, error) {
	f.completeCalls = append(f.completeCalls, completeCall{enrollmentID, lessonID, progress})
	return true, nil
}

type fakeCertificateStore struct {
	created []*model.Certificate
}

func (f *fakeCertificateStore) FindByUserAndCourse(userID, courseID uint) (*model.Certificate, error) {
	for _, c := range f.created {
		if c.UserID == userID && c.CourseID == courseID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertificateStore) Create(cert *model.Certificate) error {
	f.created = append(f.created, cert)
	return nil
}

type fakeKeyStore struct {
	claimed map[string]bool
}

func (f *fakeKeyStore) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if f.claimed == nil {
		f.claimed = make(map[string]bool)
	}
	fresh := !f.claimed[key]
	f.claimed[key] = true
	return redis.NewBoolResult(fresh, nil)
}

type trackerFixture struct {
	svc        *ProgressService
	store      *fakeEnrollmentStore
	certs      *fakeCertificateStore
	keys       *fakeKeyStore
	course     *model.Course
	enrollment *model.Enrollment
}

func newTrackerFixture(completions ...uint) *trackerFixture {
	course := curriculumFixture()

	enrollment := &model.Enrollment{
		BaseModel: model.BaseModel{ID: 55},
		UserID:    1,
		CourseID:  course.ID,
	}
	for _, id := range completions {
		enrollment.Completions = append(enrollment.Completions, model.LessonCompletion{
			EnrollmentID: enrollment.ID,
			LessonID:     id,
		})
	}

	store := &fakeEnrollmentStore{enrollment: enrollment}
	certs := &fakeCertificateStore{}
	keys := &fakeKeyStore{}
	svc := NewProgressService(store, &fakeCourseFinder{
		courses: map[uint]*model.Course{course.ID: course},
	}, certs, keys)

	return &trackerFixture{svc: svc, store: store, certs: certs, keys: keys, course: course, enrollment: enrollment}
}

func TestMarkLessonCompleteAppliesCompletion(t *testing.T) {
	fx := newTrackerFixture()

	enrollment, err := fx.svc.MarkLessonComplete(context.Background(), 1, fx.course.ID, 101, "")
	require.NoError(t, err)

	require.Len(t, fx.store.completeCalls, 1)
	assert.Equal(t, completeCall{55, 101, 25}, fx.store.completeCalls[0])
	assert.Equal(t, 25, enrollment.Progress)
	assert.True(t, enrollment.CompletedSet()[101])
}

func TestMarkLessonCompleteSameLessonTwiceIsNoOp(t *testing.T) {
	fx := newTrackerFixture(101)

	enrollment, err := fx.svc.MarkLessonComplete(context.Background(), 1, fx.course.ID, 101, "")
	require.NoError(t, err)

	assert.Empty(t, fx.store.completeCalls)
	assert.Len(t, enrollment.Completions, 1)
}

func TestMarkLessonCompleteRejectsForeignLesson(t *testing.T) {
	fx := newTrackerFixture()

	_, err := fx.svc.MarkLessonComplete(context.Background(), 1, fx.course.ID, 999, "")
	assert.ErrorIs(t, err, util.ErrLessonNotInCourse)
	assert.Empty(t, fx.store.completeCalls)
	assert.Empty(t, fx.enrollment.Completions)
}

func TestMarkLessonCompleteReplayedKeyIsAcknowledgedOnce(t *testing.T) {
	fx := newTrackerFixture()
	ctx := context.Background()

	_, err := fx.svc.MarkLessonComplete(ctx, 1, fx.course.ID, 101, "evt-1")
	require.NoError(t, err)
	require.Len(t, fx.store.completeCalls, 1)

	// Replaying the key acknowledges without touching the store, even
	// for a different lesson id.
	enrollment, err := fx.svc.MarkLessonComplete(ctx, 1, fx.course.ID, 102, "evt-1")
	require.NoError(t, err)
	assert.Len(t, fx.store.completeCalls, 1)
	assert.False(t, enrollment.CompletedSet()[102])
}

func TestMarkLessonCompleteLiveCourseNotTracked(t *testing.T) {
	fx := newTrackerFixture()
	fx.course.Type = model.CourseLive

	_, err := fx.svc.MarkLessonComplete(context.Background(), 1, fx.course.ID, 101, "")
	assert.ErrorIs(t, err, util.ErrProgressNotTracked)
}

func TestMarkLessonCompleteUnknownCourse(t *testing.T) {
	fx := newTrackerFixture()

	_, err := fx.svc.MarkLessonComplete(context.Background(), 1, 404, 101, "")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestMarkLessonCompleteNotEnrolled(t *testing.T) {
	fx := newTrackerFixture()

	_, err := fx.svc.MarkLessonComplete(context.Background(), 2, fx.course.ID, 101, "")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}

func TestMarkLessonCompleteStaleCompletionDoesNotInflateProgress(t *testing.T) {
	// Completion 999 no longer maps to a curriculum lesson; the new
	// percentage must count only real lessons.
	fx := newTrackerFixture(101, 999)

	enrollment, err := fx.svc.MarkLessonComplete(context.Background(), 1, fx.course.ID, 102, "")
	require.NoError(t, err)
	assert.Equal(t, 50, enrollment.Progress)
}

func TestMarkLessonCompleteIssuesCertificateAtFull(t *testing.T) {
	fx := newTrackerFixture(101, 102, 103)

	enrollment, err := fx.svc.MarkLessonComplete(context.Background(), 1, fx.course.ID, 104, "")
	require.NoError(t, err)
	assert.Equal(t, 100, enrollment.Progress)

	require.Len(t, fx.certs.created, 1)
	cert := fx.certs.created[0]
	assert.Equal(t, uint(1), cert.UserID)
	assert.Equal(t, fx.course.ID, cert.CourseID)
	assert.NotEmpty(t, cert.SerialNumber)
}

func TestGetProgressRecomputesFromCompletionSet(t *testing.T) {
	fx := newTrackerFixture(101, 999)

	progress, err := fx.svc.GetProgress(1, fx.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, progress.Progress)
	assert.Equal(t, 4, progress.TotalLessons)
	assert.ElementsMatch(t, []uint{101, 999}, progress.CompletedLessons)
	assert.Nil(t, progress.CertificateID)
}

func TestCourseHasLesson(t *testing.T) {
	course := curriculumFixture()
	assert.True(t, course.HasLesson(101))
	assert.True(t, course.HasLesson(104))
	assert.False(t, course.HasLesson(999))
	assert.Equal(t, 4, course.TotalLessons())
}
