package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusDropped   EnrollmentStatus = "dropped"
)

var enrollmentTransitions = map[EnrollmentStatus][]EnrollmentStatus{
	EnrollmentStatusActive:    {EnrollmentStatusCompleted, EnrollmentStatusDropped},
	EnrollmentStatusCompleted: {EnrollmentStatusDropped},
	EnrollmentStatusDropped:   {EnrollmentStatusActive},
}

func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	for _, allowed := range enrollmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Enrollment is a user's course-level enrollment. Its progress percentage is
// only ever written by the configured progress calculator, or set to 100 on
// explicit completion.
type Enrollment struct {
	ID                 uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"user_id"`
	User               *User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	CourseID           uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"course_id"`
	Course             *Course          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Status             EnrollmentStatus `gorm:"column:status;not null;default:'active'" json:"status"`
	ProgressPercentage float64          `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	// Resume pointer: last lesson the learner touched.
	LastLessonID *uuid.UUID     `gorm:"type:uuid;column:last_lesson_id" json:"last_lesson_id,omitempty"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	DroppedAt    *time.Time     `gorm:"column:dropped_at" json:"dropped_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }
