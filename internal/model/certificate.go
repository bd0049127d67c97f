package model

import (
	"time"
)

// Certificate is issued once an enrollment reaches 100% progress. It is
// created by ProgressService and read-only afterwards.
// swagger:model Certificate
type Certificate struct {
	BaseModel
	UserID       uint      `gorm:"index:idx_user_course_cert,unique;not null" json:"userId"`
	CourseID     uint      `gorm:"index:idx_user_course_cert,unique;not null" json:"courseId"`
	SerialNumber string    `gorm:"size:36;uniqueIndex;not null" json:"serialNumber"`
	IssuedAt     time.Time `json:"issuedAt"`
}

func (Certificate) TableName() string {
	return "certificates"
}
