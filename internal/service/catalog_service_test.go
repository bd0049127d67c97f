package service

import (
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []model.Course {
	day := 24 * time.Hour
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Course{
		{
			BaseModel:        model.BaseModel{ID: 1},
			Slug:             "go-fundamentals",
			Title:            "Go Fundamentals",
			ShortDescription: "Learn Go from scratch",
			Type:             model.CourseRecorded,
			Category:         model.Category{Name: "Programming"},
			Level:            model.LevelBeginner,
			Price:            49.99,
			Rating:           4.7,
			EnrolledCount:    1200,
			LastUpdated:      base,
		},
		{
			BaseModel:        model.BaseModel{ID: 2},
			Slug:             "advanced-sql",
			Title:            "Advanced SQL",
			ShortDescription: "Window functions and query tuning",
			Type:             model.CourseRecorded,
			Category:         model.Category{Name: "Databases"},
			Level:            model.LevelAdvanced,
			Price:            89.00,
			Rating:           4.2,
			EnrolledCount:    300,
			LastUpdated:      base.Add(2 * day),
		},
		{
			BaseModel:        model.BaseModel{ID: 3},
			Slug:             "live-system-design",
			Title:            "System Design Live",
			ShortDescription: "Weekly live sessions on system design",
			Type:             model.CourseLive,
			Category:         model.Category{Name: "Programming"},
			Level:            model.LevelIntermediate,
			Price:            199.00,
			Rating:           4.9,
			EnrolledCount:    150,
			LastUpdated:      base.Add(day),
		},
		{
			BaseModel:        model.BaseModel{ID: 4},
			Slug:             "free-git-intro",
			Title:            "Git Intro",
			ShortDescription: "Version control basics",
			Type:             model.CourseRecorded,
			Category:         model.Category{Name: "Programming"},
			Level:            model.LevelBeginner,
			Price:            0,
			Rating:           4.2,
			EnrolledCount:    5000,
			LastUpdated:      base.Add(3 * day),
		},
	}
}

func courseIDs(courses []model.Course) []uint {
	ids := make([]uint, 0, len(courses))
	for i := range courses {
		ids = append(ids, courses[i].ID)
	}
	return ids
}

// openFilter is a filter with no active predicates, shaped the way the
// controller builds one: an absent upper price bound is the MaxPrice
// sentinel, never zero.
func openFilter() model.CatalogFilter {
	return model.CatalogFilter{PriceMax: util.MaxPrice}
}

func TestFilterCoursesOpenFilterPassesAll(t *testing.T) {
	courses := catalogFixture()
	got := FilterCourses(courses, openFilter())
	assert.Equal(t, []uint{1, 2, 3, 4}, courseIDs(got))
}

func TestFilterCoursesIsConjunctive(t *testing.T) {
	courses := catalogFixture()

	filter := openFilter()
	filter.CourseType = "recorded"
	filter.Category = "Programming"
	filter.Levels = []string{"Beginner"}
	filter.Rating = 4.5
	got := FilterCourses(courses, filter)

	// Only the course matching every predicate survives.
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].ID)
}

func TestFilterCoursesTypeAllPassesEverything(t *testing.T) {
	courses := catalogFixture()
	filter := openFilter()
	filter.CourseType = "all"
	got := FilterCourses(courses, filter)
	assert.Len(t, got, 4)
}

func TestFilterCoursesLevelsAreDisjunctive(t *testing.T) {
	courses := catalogFixture()
	filter := openFilter()
	filter.Levels = []string{"Beginner", "Advanced"}
	got := FilterCourses(courses, filter)
	assert.Equal(t, []uint{1, 2, 4}, courseIDs(got))
}

func TestFilterCoursesCategoryCaseInsensitive(t *testing.T) {
	courses := catalogFixture()
	filter := openFilter()
	filter.Category = "programming"
	got := FilterCourses(courses, filter)
	assert.Equal(t, []uint{1, 3, 4}, courseIDs(got))
}

func TestFilterCoursesPriceRange(t *testing.T) {
	courses := catalogFixture()

	got := FilterCourses(courses, model.CatalogFilter{PriceMin: 40, PriceMax: 100})
	assert.Equal(t, []uint{1, 2}, courseIDs(got))

	// Bounds are inclusive.
	got = FilterCourses(courses, model.CatalogFilter{PriceMin: 49.99, PriceMax: 49.99})
	assert.Equal(t, []uint{1}, courseIDs(got))
}

func TestFilterCoursesInvertedPriceRangeMatchesNothing(t *testing.T) {
	courses := catalogFixture()

	// min > max is applied literally, not normalized.
	got := FilterCourses(courses, model.CatalogFilter{PriceMin: 100, PriceMax: 40})
	assert.Empty(t, got)
}

func TestFilterCoursesZeroRangeMatchesOnlyFreeCourses(t *testing.T) {
	courses := catalogFixture()

	// An explicit [0, 0] range is literal: only free courses pass.
	got := FilterCourses(courses, model.CatalogFilter{PriceMin: 0, PriceMax: 0})
	assert.Equal(t, []uint{4}, courseIDs(got))
}

func TestFilterCoursesSearchMatchesTitleAndShortDescription(t *testing.T) {
	courses := catalogFixture()

	filter := openFilter()
	filter.Search = "sql"
	got := FilterCourses(courses, filter)
	assert.Equal(t, []uint{2}, courseIDs(got))

	filter.Search = "live sessions"
	got = FilterCourses(courses, filter)
	assert.Equal(t, []uint{3}, courseIDs(got))

	filter.Search = "blockchain"
	got = FilterCourses(courses, filter)
	assert.Empty(t, got)
}

func TestFilterCoursesDoesNotMutateInput(t *testing.T) {
	courses := catalogFixture()
	filter := openFilter()
	filter.CourseType = "live"
	FilterCourses(courses, filter)
	assert.Equal(t, []uint{1, 2, 3, 4}, courseIDs(courses))
}

func TestSortCoursesKeys(t *testing.T) {
	tests := []struct {
		sortKey string
		want    []uint
	}{
		{model.SortPopular, []uint{4, 1, 2, 3}},
		{model.SortRating, []uint{3, 1, 2, 4}},
		{model.SortNewest, []uint{4, 2, 3, 1}},
		{model.SortPriceLow, []uint{4, 1, 2, 3}},
		{model.SortPriceHigh, []uint{3, 2, 1, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.sortKey, func(t *testing.T) {
			courses := catalogFixture()
			SortCourses(courses, tt.sortKey)
			assert.Equal(t, tt.want, courseIDs(courses))
		})
	}
}

func TestSortCoursesStableOnTies(t *testing.T) {
	courses := catalogFixture()

	// Courses 2 and 4 share rating 4.2; input order must survive the sort.
	SortCourses(courses, model.SortRating)
	assert.Equal(t, []uint{3, 1, 2, 4}, courseIDs(courses))

	// Sorting an already sorted slice is a fixpoint.
	SortCourses(courses, model.SortRating)
	assert.Equal(t, []uint{3, 1, 2, 4}, courseIDs(courses))
}

func TestSortCoursesUnknownKeyKeepsOrder(t *testing.T) {
	courses := catalogFixture()
	SortCourses(courses, "alphabetical")
	assert.Equal(t, []uint{1, 2, 3, 4}, courseIDs(courses))
}

func TestCatalogQueryFilterThenSort(t *testing.T) {
	s := &CatalogService{}
	s.snapshot = catalogFixture()

	filter := openFilter()
	filter.CourseType = "recorded"
	got := s.Query(filter, model.SortPriceHigh)
	assert.Equal(t, []uint{2, 1, 4}, courseIDs(got))

	// The snapshot keeps its own order.
	assert.Equal(t, []uint{1, 2, 3, 4}, courseIDs(s.Courses()))
}

func TestCatalogFindBySlugRequiresMatchingType(t *testing.T) {
	s := &CatalogService{}
	s.snapshot = catalogFixture()

	course, ok := s.FindBySlug(model.CourseLive, "live-system-design")
	require.True(t, ok)
	assert.Equal(t, uint(3), course.ID)

	_, ok = s.FindBySlug(model.CourseRecorded, "live-system-design")
	assert.False(t, ok)

	_, ok = s.FindBySlug(model.CourseRecorded, "missing")
	assert.False(t, ok)
}
