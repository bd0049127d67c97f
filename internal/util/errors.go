package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAuthRequired       = errors.New("authentication required")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrInstructorNotFound = errors.New("instructor not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrSessionNotFound    = errors.New("session not found")

	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrLessonNotInCourse   = errors.New("lesson does not belong to course")
	ErrProgressNotTracked  = errors.New("progress is only tracked for recorded courses")
	ErrCertificateNotFound = errors.New("certificate not found")

	ErrInvalidSessionTransition = errors.New("invalid session status transition")
	ErrPlaybackSessionNotFound  = errors.New("playback session not found")
)
