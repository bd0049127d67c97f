package service

import (
	"edumarket_backend/internal/model"
	"sort"
)

// NavigatorService flattens a recorded course's module/lesson tree into
// the canonical navigation sequence and resolves previous/next targets.
// All operations are pure; boundary and unknown-lesson cases return nil
// rather than an error so stale client state degrades gracefully.
type NavigatorService struct{}

func NewNavigatorService() *NavigatorService {
	return &NavigatorService{}
}

// Flatten returns the course's lessons as one ordered sequence, module by
// module. Ordering follows the explicit SortOrder fields, so the result
// is the same on every call regardless of storage order.
func (s *NavigatorService) Flatten(course *model.Course) []model.CurriculumEntry {
	modules := make([]model.CourseModule, len(course.Modules))
	copy(modules, course.Modules)
	sort.SliceStable(modules, func(i, j int) bool {
		return modules[i].SortOrder < modules[j].SortOrder
	})

	var entries []model.CurriculumEntry
	for mi := range modules {
		lessons := make([]model.Lesson, len(modules[mi].Lessons))
		copy(lessons, modules[mi].Lessons)
		sort.SliceStable(lessons, func(i, j int) bool {
			return lessons[i].SortOrder < lessons[j].SortOrder
		})
		for li := range lessons {
			entries = append(entries, model.CurriculumEntry{
				Lesson:   lessons[li],
				ModuleID: modules[mi].ID,
				Position: len(entries),
			})
		}
	}
	return entries
}

// Next returns the lesson after currentLessonID in the flattened
// sequence, or nil at the end of the course or when the lesson is
// unknown.
func (s *NavigatorService) Next(course *model.Course, currentLessonID uint) *model.NavigationTarget {
	return s.adjacent(course, currentLessonID, 1)
}

// Previous returns the lesson before currentLessonID, or nil at the
// start of the course or when the lesson is unknown.
func (s *NavigatorService) Previous(course *model.Course, currentLessonID uint) *model.NavigationTarget {
	return s.adjacent(course, currentLessonID, -1)
}

func (s *NavigatorService) adjacent(course *model.Course, currentLessonID uint, offset int) *model.NavigationTarget {
	entries := s.Flatten(course)
	for i := range entries {
		if entries[i].Lesson.ID == currentLessonID {
			j := i + offset
			if j < 0 || j >= len(entries) {
				return nil
			}
			return &model.NavigationTarget{
				Lesson:   entries[j].Lesson,
				ModuleID: entries[j].ModuleID,
			}
		}
	}
	return nil
}
