package service

import (
	"edumarket_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// curriculumFixture builds a two-module course with lessons stored out of
// order, so ordering has to come from SortOrder and never from slice
// position.
func curriculumFixture() *model.Course {
	return &model.Course{
		BaseModel: model.BaseModel{ID: 7},
		Type:      model.CourseRecorded,
		Modules: []model.CourseModule{
			{
				BaseModel: model.BaseModel{ID: 20},
				Title:     "Advanced Topics",
				SortOrder: 2,
				Lessons: []model.Lesson{
					{BaseModel: model.BaseModel{ID: 104}, ModuleID: 20, Title: "Generics", SortOrder: 2},
					{BaseModel: model.BaseModel{ID: 103}, ModuleID: 20, Title: "Concurrency", SortOrder: 1},
				},
			},
			{
				BaseModel: model.BaseModel{ID: 10},
				Title:     "Getting Started",
				SortOrder: 1,
				Lessons: []model.Lesson{
					{BaseModel: model.BaseModel{ID: 102}, ModuleID: 10, Title: "Syntax", SortOrder: 2},
					{BaseModel: model.BaseModel{ID: 101}, ModuleID: 10, Title: "Install", SortOrder: 1},
				},
			},
		},
	}
}

func TestFlattenOrdersByModuleThenLesson(t *testing.T) {
	nav := NewNavigatorService()
	course := curriculumFixture()

	entries := nav.Flatten(course)
	require.Len(t, entries, 4)

	var ids []uint
	for _, e := range entries {
		ids = append(ids, e.Lesson.ID)
	}
	assert.Equal(t, []uint{101, 102, 103, 104}, ids)

	for i, e := range entries {
		assert.Equal(t, i, e.Position)
	}
	assert.Equal(t, uint(10), entries[0].ModuleID)
	assert.Equal(t, uint(20), entries[2].ModuleID)
}

func TestFlattenDoesNotMutateCourse(t *testing.T) {
	nav := NewNavigatorService()
	course := curriculumFixture()

	nav.Flatten(course)

	// Storage order survives.
	assert.Equal(t, uint(20), course.Modules[0].ID)
	assert.Equal(t, uint(104), course.Modules[0].Lessons[0].ID)
}

func TestFlattenEmptyCourse(t *testing.T) {
	nav := NewNavigatorService()
	assert.Empty(t, nav.Flatten(&model.Course{}))
}

func TestNextCrossesModuleBoundary(t *testing.T) {
	nav := NewNavigatorService()
	course := curriculumFixture()

	// Last lesson of module 10 advances into module 20.
	target := nav.Next(course, 102)
	require.NotNil(t, target)
	assert.Equal(t, uint(103), target.Lesson.ID)
	assert.Equal(t, uint(20), target.ModuleID)
}

func TestNextNilAtEndOfCourse(t *testing.T) {
	nav := NewNavigatorService()
	assert.Nil(t, nav.Next(curriculumFixture(), 104))
}

func TestPreviousCrossesModuleBoundary(t *testing.T) {
	nav := NewNavigatorService()
	target := nav.Previous(curriculumFixture(), 103)
	require.NotNil(t, target)
	assert.Equal(t, uint(102), target.Lesson.ID)
	assert.Equal(t, uint(10), target.ModuleID)
}

func TestPreviousNilAtStartOfCourse(t *testing.T) {
	nav := NewNavigatorService()
	assert.Nil(t, nav.Previous(curriculumFixture(), 101))
}

func TestNavigationUnknownLessonReturnsNil(t *testing.T) {
	nav := NewNavigatorService()
	course := curriculumFixture()
	assert.Nil(t, nav.Next(course, 999))
	assert.Nil(t, nav.Previous(course, 999))
}

func TestNextAndPreviousAreInverse(t *testing.T) {
	nav := NewNavigatorService()
	course := curriculumFixture()

	for _, e := range nav.Flatten(course) {
		next := nav.Next(course, e.Lesson.ID)
		if next == nil {
			continue
		}
		back := nav.Previous(course, next.Lesson.ID)
		require.NotNil(t, back)
		assert.Equal(t, e.Lesson.ID, back.Lesson.ID)
	}
}
