package service

import (
	"edumarket_backend/internal/model"
	"edumarket_backend/internal/repository"
	"edumarket_backend/pkg/logger"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CatalogService owns the in-memory catalog snapshot and the query engine
// that runs over it. The snapshot is immutable once loaded; Refresh swaps
// the whole slice under the lock, so queries never see a half-loaded
// catalog.
type CatalogService struct {
	CourseRepo *repository.CourseRepository

	mu       sync.RWMutex
	snapshot []model.Course
	loadedAt time.Time
}

func NewCatalogService(courseRepo *repository.CourseRepository) *CatalogService {
	return &CatalogService{CourseRepo: courseRepo}
}

// Refresh reloads the snapshot from the database.
func (s *CatalogService) Refresh() error {
	courses, err := s.CourseRepo.FindAllPublished()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = courses
	s.loadedAt = time.Now()
	s.mu.Unlock()

	logger.Log.Info("Catalog snapshot refreshed", zap.Int("courses", len(courses)))
	return nil
}

// Courses returns the current snapshot. Callers must treat it as
// read-only.
func (s *CatalogService) Courses() []model.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *CatalogService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Query filters and sorts the snapshot. Pure with respect to the
// snapshot: the result is a fresh slice and the input order is preserved
// for equal sort keys.
func (s *CatalogService) Query(filter model.CatalogFilter, sortKey string) []model.Course {
	result := FilterCourses(s.Courses(), filter)
	SortCourses(result, sortKey)
	return result
}

// FindBySlug resolves a course in the snapshot by type and slug. The
// second return is false when no published course matches.
func (s *CatalogService) FindBySlug(courseType model.CourseType, slug string) (*model.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.snapshot {
		if s.snapshot[i].Slug == slug && s.snapshot[i].Type == courseType {
			return &s.snapshot[i], true
		}
	}
	return nil, false
}

// FindByID resolves a course in the snapshot by id.
func (s *CatalogService) FindByID(id uint) (*model.Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.snapshot {
		if s.snapshot[i].ID == id {
			return &s.snapshot[i], true
		}
	}
	return nil, false
}

// FilterCourses applies every active predicate conjunctively and returns
// the matching courses as a new slice, in input order.
func FilterCourses(courses []model.Course, f model.CatalogFilter) []model.Course {
	result := make([]model.Course, 0, len(courses))
	for i := range courses {
		if courseMatches(&courses[i], f) {
			result = append(result, courses[i])
		}
	}
	return result
}

func courseMatches(c *model.Course, f model.CatalogFilter) bool {
	if f.CourseType != "" && f.CourseType != "all" && string(c.Type) != f.CourseType {
		return false
	}

	if f.Category != "" && !strings.EqualFold(c.Category.Name, f.Category) {
		return false
	}

	if len(f.Levels) > 0 && !containsFold(f.Levels, string(c.Level)) {
		return false
	}

	// The range is applied literally; an inverted range matches nothing.
	if !priceInRange(c.Price, f.PriceMin, f.PriceMax) {
		return false
	}

	if f.Rating > 0 && c.Rating < f.Rating {
		return false
	}

	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.ShortDescription), q) {
			return false
		}
	}

	return true
}

func priceInRange(price, lo, hi float64) bool {
	return lo <= price && price <= hi
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}

// SortCourses orders the slice in place by the given key. The sort is
// stable: courses with equal keys keep their relative input order. An
// unknown key leaves the order untouched.
func SortCourses(courses []model.Course, sortKey string) {
	switch sortKey {
	case model.SortPopular:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].EnrolledCount > courses[j].EnrolledCount
		})
	case model.SortRating:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].Rating > courses[j].Rating
		})
	case model.SortNewest:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].LastUpdated.After(courses[j].LastUpdated)
		})
	case model.SortPriceLow:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].Price < courses[j].Price
		})
	case model.SortPriceHigh:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].Price > courses[j].Price
		})
	}
}
