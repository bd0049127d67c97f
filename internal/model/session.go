package model

import (
	"time"
)

type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionLive      SessionStatus = "live"
	SessionCompleted SessionStatus = "completed"
)

// CanTransitionTo reports whether the status may legally move to next.
// Transitions are monotonic: upcoming -> live -> completed.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionUpcoming:
		return next == SessionLive
	case SessionLive:
		return next == SessionCompleted
	default:
		return false
	}
}

// LiveSession is a scheduled occurrence of a live course.
// swagger:model LiveSession
type LiveSession struct {
	BaseModel
	CourseID   uint          `gorm:"index;not null" json:"courseId"`
	Title      string        `gorm:"size:255" json:"title"`
	Date       time.Time     `gorm:"not null" json:"date"`
	StartTime  string        `gorm:"size:10;not null" json:"startTime"`
	EndTime    string        `gorm:"size:10;not null" json:"endTime"`
	Status     SessionStatus `gorm:"type:enum('upcoming','live','completed');default:'upcoming'" json:"status"`
	SortOrder  int           `gorm:"not null;index:idx_session_order" json:"sortOrder"`
	MeetingURL string        `gorm:"size:500" json:"meetingUrl,omitempty"`
}

func (LiveSession) TableName() string {
	return "live_sessions"
}
